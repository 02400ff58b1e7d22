package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the narrow persistence contract for users. Implemented by
// the postgres Repository and by the in-memory store.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByReferralCode(ctx context.Context, code string) (*User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, u *User) error
	UpdateRole(ctx context.Context, id uuid.UUID, role Role) error
	// SetBalance writes an absolute balance (admin override path).
	// Purchase/deposit/refund paths never use it; they go through the
	// atomic ledger operations on the order and wallet stores.
	SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
	SetAPIKey(ctx context.Context, id uuid.UUID, apiKey string, enabled bool) error
	SetResellerMarkup(ctx context.Context, id uuid.UUID, markup decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}
