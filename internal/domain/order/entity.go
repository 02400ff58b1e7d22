package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is an order's fulfillment state (matches order_status enum).
// The machine is a strict linear progression pending -> processing ->
// completed; failed and refunded are reachable only through admin
// override.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusRefunded   Status = "refunded"
)

// IsValidStatus checks a status string against the known states
func IsValidStatus(status string) bool {
	switch Status(status) {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// Order is a purchase of engagement units against a catalog service
type Order struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	UserID     uuid.UUID       `db:"user_id" json:"user_id"`
	ServiceID  uuid.UUID       `db:"service_id" json:"service_id"`
	TargetLink string          `db:"target_link" json:"target_link"`
	Quantity   int             `db:"quantity" json:"quantity"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	Status     Status          `db:"status" json:"status"`

	// Reserved for a real upstream supplier integration
	SupplierOrderID *string `db:"supplier_order_id" json:"supplier_order_id,omitempty"`
	StartCount      *int    `db:"start_count" json:"start_count,omitempty"`
	RemainingCount  *int    `db:"remaining_count" json:"remaining_count,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ConsentLog is an append-only compliance record captured at the moment
// of order placement.
type ConsentLog struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	IPAddress      string    `db:"ip_address" json:"ip_address"`
	ConsentVersion string    `db:"consent_version" json:"consent_version"`
	OrderID        uuid.UUID `db:"order_id" json:"order_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
