package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role represents an account role (matches the user_role enum)
type Role string

const (
	RoleUser     Role = "user"
	RoleReseller Role = "reseller"
	RoleAdmin    Role = "admin"
)

// IsValidRole checks whether a role string is one of the known roles
func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleUser, RoleReseller, RoleAdmin:
		return true
	}
	return false
}

// User represents an account (matches the users table)
type User struct {
	ID           uuid.UUID      `db:"id"`
	Email        string         `db:"email"`
	PasswordHash sql.NullString `db:"password_hash"`
	FirstName    sql.NullString `db:"first_name"`
	LastName     sql.NullString `db:"last_name"`
	Role         Role           `db:"role"`

	// Wallet: the mutable current balance. History lives in the
	// transactions ledger; every mutation happens inside a store
	// transaction together with its ledger row.
	WalletBalance decimal.Decimal `db:"wallet_balance"`

	// Referral program
	ReferralCode string         `db:"referral_code"`
	ReferredBy   sql.NullString `db:"referred_by"`

	// Reseller API access
	APIKey         sql.NullString  `db:"api_key"`
	APIKeyEnabled  int             `db:"api_key_enabled"`
	ResellerMarkup decimal.Decimal `db:"reseller_markup"`

	TotalEarnings decimal.Decimal `db:"total_earnings"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsAdmin returns true if the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsReseller returns true if the user is a reseller
func (u *User) IsReseller() bool {
	return u.Role == RoleReseller
}

// HasAPIAccess reports whether the reseller API key is usable
func (u *User) HasAPIAccess() bool {
	return u.APIKey.Valid && u.APIKeyEnabled == 1
}

// Profile is the JSON shape returned to clients
type Profile struct {
	ID             uuid.UUID       `json:"id"`
	Email          string          `json:"email"`
	FirstName      string          `json:"first_name,omitempty"`
	LastName       string          `json:"last_name,omitempty"`
	Role           Role            `json:"role"`
	WalletBalance  decimal.Decimal `json:"wallet_balance"`
	ReferralCode   string          `json:"referral_code"`
	ReferredBy     string          `json:"referred_by,omitempty"`
	APIKeyEnabled  bool            `json:"api_key_enabled"`
	ResellerMarkup decimal.Decimal `json:"reseller_markup"`
	TotalEarnings  decimal.Decimal `json:"total_earnings"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToProfile converts a user row to its client-facing shape
func (u *User) ToProfile() Profile {
	return Profile{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName.String,
		LastName:       u.LastName.String,
		Role:           u.Role,
		WalletBalance:  u.WalletBalance,
		ReferralCode:   u.ReferralCode,
		ReferredBy:     u.ReferredBy.String,
		APIKeyEnabled:  u.APIKeyEnabled == 1,
		ResellerMarkup: u.ResellerMarkup,
		TotalEarnings:  u.TotalEarnings,
		CreatedAt:      u.CreatedAt,
	}
}
