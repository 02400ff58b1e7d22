package admin

import (
	"github.com/shopspring/decimal"
)

type createUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Role      string `json:"role" validate:"required,role"`
}

type updateUserRequest struct {
	Role           *string          `json:"role" validate:"omitempty,role"`
	WalletBalance  *decimal.Decimal `json:"wallet_balance"`
	ResellerMarkup *decimal.Decimal `json:"reseller_markup"`
}

type serviceRequest struct {
	Platform          string          `json:"platform" validate:"required,platform"`
	Name              string          `json:"name" validate:"required,max=255"`
	Description       string          `json:"description" validate:"max=1000"`
	PricePerThousand  decimal.Decimal `json:"price_per_thousand" validate:"required"`
	MinQuantity       int             `json:"min_quantity" validate:"required,min=1"`
	MaxQuantity       int             `json:"max_quantity" validate:"required,min=1"`
	ETA               string          `json:"eta" validate:"max=100"`
	SupplierServiceID string          `json:"supplier_service_id" validate:"max=100"`
	IsActive          *bool           `json:"is_active"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,order_status"`
}

type reviewProofRequest struct {
	Status     string `json:"status" validate:"required,oneof=approved rejected"`
	AdminNotes string `json:"admin_notes" validate:"max=1000"`
}
