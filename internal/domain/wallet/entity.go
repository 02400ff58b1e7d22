package wallet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies ledger entries (matches transaction_type enum)
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeOrder      TransactionType = "order"
	TransactionTypeRefund     TransactionType = "refund"
	TransactionTypeCommission TransactionType = "referral_commission"
)

// Transaction is an append-only ledger entry. The balance_before /
// balance_after pair is the auditable record of every wallet mutation;
// rows are never updated or deleted.
type Transaction struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	UserID        uuid.UUID       `db:"user_id" json:"user_id"`
	Type          TransactionType `db:"type" json:"type"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	BalanceBefore decimal.Decimal `db:"balance_before" json:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after" json:"balance_after"`
	Description   *string         `db:"description" json:"description,omitempty"`
	OrderID       *uuid.UUID      `db:"order_id" json:"order_id,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// ProofStatus is the review state of a payment proof
type ProofStatus string

const (
	ProofStatusPending  ProofStatus = "pending"
	ProofStatusApproved ProofStatus = "approved"
	ProofStatusRejected ProofStatus = "rejected"
)

// PaymentProof is a user-submitted claim of an out-of-band UPI payment.
// Terminal once non-pending.
type PaymentProof struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	UserID        uuid.UUID       `db:"user_id" json:"user_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	UTRNumber     *string         `db:"utr_number" json:"utr_number,omitempty"`
	ScreenshotURL *string         `db:"screenshot_url" json:"screenshot_url,omitempty"`
	Status        ProofStatus     `db:"status" json:"status"`
	AdminNotes    *string         `db:"admin_notes" json:"admin_notes,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}
