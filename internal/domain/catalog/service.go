package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Manager owns catalog reads and admin-side writes
type Manager struct {
	store Store
	cache *Cache
}

func NewManager(store Store, cache *Cache) *Manager {
	return &Manager{store: store, cache: cache}
}

// ListActive returns services visible to buyers
func (m *Manager) ListActive(ctx context.Context) ([]Service, error) {
	if services, ok := m.cache.GetActive(ctx); ok {
		return services, nil
	}

	services, err := m.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	m.cache.SetActive(ctx, services)
	return services, nil
}

// List returns every service including inactive ones (admin view)
func (m *Manager) List(ctx context.Context) ([]Service, error) {
	return m.store.List(ctx)
}

// Get returns a single service by id
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Service, error) {
	return m.store.GetByID(ctx, id)
}

// Create adds a new catalog item
func (m *Manager) Create(ctx context.Context, s *Service) error {
	if err := validate(s); err != nil {
		return err
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	if err := m.store.Create(ctx, s); err != nil {
		return err
	}
	m.cache.Invalidate(ctx)
	log.Info().Str("service_id", s.ID.String()).Str("name", s.Name).Msg("service created")
	return nil
}

// Update replaces a catalog item
func (m *Manager) Update(ctx context.Context, s *Service) error {
	if err := validate(s); err != nil {
		return err
	}

	if err := m.store.Update(ctx, s); err != nil {
		return err
	}
	m.cache.Invalidate(ctx)
	log.Info().Str("service_id", s.ID.String()).Msg("service updated")
	return nil
}

// Delete removes a catalog item
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.cache.Invalidate(ctx)
	log.Info().Str("service_id", id.String()).Msg("service deleted")
	return nil
}

func validate(s *Service) error {
	if s.MinQuantity <= 0 || s.MinQuantity >= s.MaxQuantity {
		return ErrInvalidQuantity
	}
	if !s.PricePerThousand.GreaterThan(decimal.Zero) {
		return ErrInvalidPrice
	}
	return nil
}
