package referral

import (
	"context"

	"github.com/google/uuid"

	"github.com/reelboost/reelboost-api/internal/domain/user"
)

// Service reads the caller's referral dashboard
type Service struct {
	store Store
	users user.Store
}

func NewService(store Store, users user.Store) *Service {
	return &Service{store: store, users: users}
}

// Summary returns the caller's code, lifetime earnings and referral list
func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	refs, err := s.store.ListByReferrer(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Summary{
		ReferralCode:  u.ReferralCode,
		TotalEarnings: u.TotalEarnings,
		Referrals:     refs,
	}, nil
}
