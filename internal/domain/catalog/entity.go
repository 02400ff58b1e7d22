package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Platform is a supported social network (matches the platform enum)
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
	PlatformTelegram  Platform = "telegram"
	PlatformTikTok    Platform = "tiktok"
)

// Service is a purchasable catalog item, priced per thousand units.
type Service struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	Platform         Platform        `db:"platform" json:"platform"`
	Name             string          `db:"name" json:"name"`
	Description      *string         `db:"description" json:"description,omitempty"`
	PricePerThousand decimal.Decimal `db:"price_per_thousand" json:"price_per_thousand"`
	MinQuantity      int             `db:"min_quantity" json:"min_quantity"`
	MaxQuantity      int             `db:"max_quantity" json:"max_quantity"`
	ETA              *string         `db:"eta" json:"eta,omitempty"`
	IsActive         int             `db:"is_active" json:"is_active"`

	// Reserved for a real upstream supplier integration
	SupplierServiceID *string `db:"supplier_service_id" json:"supplier_service_id,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Price returns the rounded cost of quantity units.
func (s *Service) Price(quantity int) decimal.Decimal {
	return s.PricePerThousand.
		Mul(decimal.NewFromInt(int64(quantity))).
		Div(decimal.NewFromInt(1000)).
		Round(2)
}

// AcceptsQuantity reports whether quantity is within the service bounds
func (s *Service) AcceptsQuantity(quantity int) bool {
	return quantity >= s.MinQuantity && quantity <= s.MaxQuantity
}
