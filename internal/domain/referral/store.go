package referral

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence contract for referral rows. Creation happens
// during signup; commission accrual is written by order placement.
type Store interface {
	Create(ctx context.Context, referral *Referral) error
	ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]Referral, error)
}
