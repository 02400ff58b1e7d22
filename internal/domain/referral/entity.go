package referral

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Referral links a referrer to a user who signed up with their code.
// CommissionEarned accumulates as the referred user places orders.
type Referral struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	ReferrerID       uuid.UUID       `db:"referrer_id" json:"referrer_id"`
	ReferredUserID   uuid.UUID       `db:"referred_user_id" json:"referred_user_id"`
	CommissionEarned decimal.Decimal `db:"commission_earned" json:"commission_earned"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// Summary is the referral dashboard payload
type Summary struct {
	ReferralCode  string          `json:"referral_code"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
	Referrals     []Referral      `json:"referrals"`
}
