package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const userColumns = `
	id, email, password_hash, first_name, last_name, role,
	wallet_balance, referral_code, referred_by,
	api_key, api_key_enabled, reseller_markup, total_earnings,
	created_at, updated_at
`

// Repository is the PostgreSQL-backed user store
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByReferralCode(ctx context.Context, code string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE referral_code = $1`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByAPIKey(ctx context.Context, apiKey string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `
		SELECT `+userColumns+`
		FROM users
		WHERE api_key = $1 AND api_key_enabled = 1
	`, apiKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) List(ctx context.Context) ([]User, error) {
	users := []User{}
	err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	return users, err
}

func (r *Repository) Create(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name, role,
			wallet_balance, referral_code, referred_by,
			api_key_enabled, reseller_markup, total_earnings
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $11)
	`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role,
		u.WalletBalance, u.ReferralCode, u.ReferredBy,
		u.ResellerMarkup, u.TotalEarnings,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrEmailExists
	}
	return err
}

func (r *Repository) UpdateRole(ctx context.Context, id uuid.UUID, role Role) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET role = $1, updated_at = now() WHERE id = $2`, role, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *Repository) SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET wallet_balance = $1, updated_at = now() WHERE id = $2`, balance, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *Repository) SetAPIKey(ctx context.Context, id uuid.UUID, apiKey string, enabled bool) error {
	enabledFlag := 0
	if enabled {
		enabledFlag = 1
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET api_key = $1, api_key_enabled = $2, updated_at = now() WHERE id = $3
	`, apiKey, enabledFlag, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *Repository) SetResellerMarkup(ctx context.Context, id uuid.UUID, markup decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET reseller_markup = $1, updated_at = now() WHERE id = $2`, markup, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
