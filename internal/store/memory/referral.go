package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reelboost/reelboost-api/internal/domain/referral"
)

type referralStore struct {
	s *Store
}

func (rs *referralStore) Create(ctx context.Context, ref *referral.Referral) error {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()
	if ref.ID == uuid.Nil {
		ref.ID = uuid.New()
	}
	ref.CommissionEarned = decimal.Zero
	ref.CreatedAt = time.Now()
	c := *ref
	rs.s.referrals[ref.ID] = &c
	return nil
}

func (rs *referralStore) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]referral.Referral, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()
	refs := []referral.Referral{}
	for _, ref := range rs.s.referrals {
		if ref.ReferrerID == referrerID {
			refs = append(refs, *ref)
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].CreatedAt.After(refs[j].CreatedAt)
	})
	return refs, nil
}
