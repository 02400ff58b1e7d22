package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/reelboost/reelboost-api/internal/domain/catalog"
)

type catalogStore struct {
	s *Store
}

func (cs *catalogStore) List(ctx context.Context) ([]catalog.Service, error) {
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()
	return cs.sorted(false), nil
}

func (cs *catalogStore) ListActive(ctx context.Context) ([]catalog.Service, error) {
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()
	return cs.sorted(true), nil
}

func (cs *catalogStore) sorted(activeOnly bool) []catalog.Service {
	services := make([]catalog.Service, 0, len(cs.s.services))
	for _, svc := range cs.s.services {
		if activeOnly && svc.IsActive != 1 {
			continue
		}
		services = append(services, *copyService(svc))
	}
	sort.Slice(services, func(i, j int) bool {
		if services[i].Platform != services[j].Platform {
			return services[i].Platform < services[j].Platform
		}
		return services[i].Name < services[j].Name
	})
	return services
}

func (cs *catalogStore) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()
	svc, ok := cs.s.services[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return copyService(svc), nil
}

func (cs *catalogStore) Create(ctx context.Context, svc *catalog.Service) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()
	if svc.ID == uuid.Nil {
		svc.ID = uuid.New()
	}
	now := time.Now()
	svc.CreatedAt = now
	svc.UpdatedAt = now
	cs.s.services[svc.ID] = copyService(svc)
	return nil
}

func (cs *catalogStore) Update(ctx context.Context, svc *catalog.Service) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()
	existing, ok := cs.s.services[svc.ID]
	if !ok {
		return catalog.ErrNotFound
	}
	svc.CreatedAt = existing.CreatedAt
	svc.UpdatedAt = time.Now()
	cs.s.services[svc.ID] = copyService(svc)
	return nil
}

func (cs *catalogStore) Delete(ctx context.Context, id uuid.UUID) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()
	if _, ok := cs.s.services[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(cs.s.services, id)
	return nil
}

func copyService(svc *catalog.Service) *catalog.Service {
	c := *svc
	return &c
}
