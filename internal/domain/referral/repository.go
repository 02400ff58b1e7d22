package referral

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// Repository is the PostgreSQL referral store
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, ref *Referral) error {
	if ref.ID == uuid.Nil {
		ref.ID = uuid.New()
	}
	ref.CommissionEarned = decimal.Zero
	ref.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO referrals (id, referrer_id, referred_user_id, commission_earned, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		ref.ID, ref.ReferrerID, ref.ReferredUserID, ref.CommissionEarned, ref.CreatedAt,
	)
	return err
}

func (r *Repository) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]Referral, error) {
	refs := []Referral{}
	err := r.db.SelectContext(ctx, &refs, `
		SELECT id, referrer_id, referred_user_id, commission_earned, created_at
		FROM referrals
		WHERE referrer_id = $1
		ORDER BY created_at DESC`,
		referrerID,
	)
	return refs, err
}
