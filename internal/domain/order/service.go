package order

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/reelboost/reelboost-api/internal/domain/catalog"
)

// Notifier pushes live order and balance updates to connected clients
type Notifier interface {
	NotifyOrderStatus(userID, orderID uuid.UUID, status string)
	NotifyBalance(userID uuid.UUID, balance decimal.Decimal)
}

// Config holds the order-flow tunables
type Config struct {
	ConsentVersion string
	CommissionRate decimal.Decimal
}

// PlaceRequest is a validated-by-the-service purchase request
type PlaceRequest struct {
	ServiceID     uuid.UUID
	TargetLink    string
	Quantity      int
	ConsentAgreed bool

	// ConsentVersion overrides the configured version (reseller API)
	ConsentVersion string

	// UnitPrice overrides the catalog price per thousand when set
	// (reseller markup pricing)
	UnitPrice *decimal.Decimal
}

// Service owns the order placement flow and order reads
type Service struct {
	store    Store
	catalog  catalog.Store
	notifier Notifier
	cfg      Config
}

func NewService(store Store, catalogStore catalog.Store, notifier Notifier, cfg Config) *Service {
	return &Service{store: store, catalog: catalogStore, notifier: notifier, cfg: cfg}
}

// Place validates a purchase and commits it through the store as one
// atomic unit. A rejected order leaves no side effects at all.
func (s *Service) Place(ctx context.Context, userID uuid.UUID, req PlaceRequest, ipAddress string) (*Order, error) {
	if !req.ConsentAgreed {
		return nil, ErrConsentRequired
	}
	if !validTargetLink(req.TargetLink) {
		return nil, ErrInvalidTargetLink
	}

	svc, err := s.catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc.IsActive != 1 {
		return nil, catalog.ErrInactive
	}
	if !svc.AcceptsQuantity(req.Quantity) {
		return nil, fmt.Errorf("%w: quantity must be between %d and %d", ErrQuantityOutOfRange, svc.MinQuantity, svc.MaxQuantity)
	}

	unitPrice := svc.PricePerThousand
	if req.UnitPrice != nil {
		unitPrice = *req.UnitPrice
	}
	amount := unitPrice.
		Mul(decimal.NewFromInt(int64(req.Quantity))).
		Div(decimal.NewFromInt(1000)).
		Round(2)

	consentVersion := s.cfg.ConsentVersion
	if req.ConsentVersion != "" {
		consentVersion = req.ConsentVersion
	}

	result, err := s.store.Place(ctx, PlaceParams{
		UserID:         userID,
		ServiceID:      svc.ID,
		TargetLink:     req.TargetLink,
		Quantity:       req.Quantity,
		Amount:         amount,
		Description:    fmt.Sprintf("Order - %s", svc.Name),
		IPAddress:      ipAddress,
		ConsentVersion: consentVersion,
		CommissionRate: s.cfg.CommissionRate,
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyBalance(userID, result.NewBalance)
	}

	log.Info().
		Str("order_id", result.Order.ID.String()).
		Str("user_id", userID.String()).
		Str("service", svc.Name).
		Int("quantity", req.Quantity).
		Str("amount", amount.StringFixed(2)).
		Msg("order placed")

	return result.Order, nil
}

// Get returns a single order scoped to its owner
func (s *Service) Get(ctx context.Context, userID, orderID uuid.UUID) (*Order, error) {
	o, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrNotFound
	}
	return o, nil
}

// List returns the caller's orders, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	return s.store.ListByUser(ctx, userID)
}

// Recent returns the caller's most recent orders
func (s *Service) Recent(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	return s.store.ListRecent(ctx, userID, 10)
}

func validTargetLink(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
