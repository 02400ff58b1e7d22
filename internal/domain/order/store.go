package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlaceParams carries everything the store needs to persist a purchase
// as one atomic unit: order row, wallet debit, order ledger row,
// consent log, and the referrer commission when the buyer was referred.
type PlaceParams struct {
	UserID     uuid.UUID
	ServiceID  uuid.UUID
	TargetLink string
	Quantity   int
	Amount     decimal.Decimal

	Description    string
	IPAddress      string
	ConsentVersion string

	// CommissionRate is the referral cut of Amount credited to the
	// buyer's referrer, zero to disable.
	CommissionRate decimal.Decimal
}

// PlaceResult reports the committed purchase
type PlaceResult struct {
	Order      *Order
	NewBalance decimal.Decimal
}

// RefundResult reports a committed admin refund
type RefundResult struct {
	Order      *Order
	NewBalance decimal.Decimal
}

// Store is the persistence contract for orders. Balance-mutating
// operations (Place, Refund) are single transactional units keyed by
// the user row; concurrent purchases against one wallet serialize on
// that row and can never double-spend.
type Store interface {
	Place(ctx context.Context, params PlaceParams) (*PlaceResult, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)

	// UpdateStatus is the admin override path; no transition guard
	// beyond refunded being terminal.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	// Refund flips an order to refunded and credits the buyer once.
	Refund(ctx context.Context, id uuid.UUID) (*RefundResult, error)

	// AdvanceDuePending moves pending orders created at or before the
	// cutoff to processing and returns the transitioned orders.
	AdvanceDuePending(ctx context.Context, cutoff time.Time) ([]Order, error)

	// AdvanceDueProcessing moves processing orders last touched at or
	// before the cutoff to completed and returns the transitioned
	// orders.
	AdvanceDueProcessing(ctx context.Context, cutoff time.Time) ([]Order, error)

	ListConsentLogs(ctx context.Context, userID uuid.UUID) ([]ConsentLog, error)
}
