package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const orderColumns = `
	id, user_id, service_id, target_link, quantity, amount, status,
	supplier_order_id, start_count, remaining_count, created_at, updated_at
`

// Repository is the PostgreSQL-backed order store
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Place commits the whole purchase in one transaction. The buyer's row
// is locked FOR UPDATE first, so two simultaneous purchases against the
// same wallet serialize and the second sees the debited balance.
func (r *Repository) Place(ctx context.Context, params PlaceParams) (*PlaceResult, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	buyer, err := lockUserWallet(ctx, tx, params.UserID)
	if err != nil {
		return nil, err
	}

	if buyer.Balance.LessThan(params.Amount) {
		return nil, ErrInsufficientFunds
	}

	orderID := uuid.New()
	var placed Order
	err = tx.GetContext(ctx, &placed, `
		INSERT INTO orders (id, user_id, service_id, target_link, quantity, amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING `+orderColumns+`
	`, orderID, params.UserID, params.ServiceID, params.TargetLink, params.Quantity, params.Amount)
	if err != nil {
		return nil, err
	}

	newBalance := buyer.Balance.Sub(params.Amount)
	if err := updateBalance(ctx, tx, params.UserID, newBalance); err != nil {
		return nil, err
	}
	if err := insertTransaction(ctx, tx, params.UserID, "order", params.Amount, buyer.Balance, newBalance, params.Description, &orderID); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO consent_logs (id, user_id, ip_address, consent_version, order_id)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New(), params.UserID, params.IPAddress, params.ConsentVersion, orderID); err != nil {
		return nil, err
	}

	if err := creditReferrer(ctx, tx, buyer, params, orderID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &PlaceResult{Order: &placed, NewBalance: newBalance}, nil
}

// creditReferrer pays the referral commission inside the placement
// transaction when the buyer signed up with a referral code.
func creditReferrer(ctx context.Context, tx *sqlx.Tx, buyer *lockedWallet, params PlaceParams, orderID uuid.UUID) error {
	if !params.CommissionRate.GreaterThan(decimal.Zero) || !buyer.ReferredBy.Valid || buyer.ReferredBy.String == "" {
		return nil
	}

	var referrer struct {
		ID      uuid.UUID       `db:"id"`
		Balance decimal.Decimal `db:"wallet_balance"`
	}
	err := tx.GetContext(ctx, &referrer, `
		SELECT id, wallet_balance FROM users WHERE referral_code = $1 FOR UPDATE
	`, buyer.ReferredBy.String)
	if errors.Is(err, sql.ErrNoRows) {
		// Stale code; the order itself is still valid
		return nil
	}
	if err != nil {
		return err
	}

	commission := params.Amount.Mul(params.CommissionRate).Round(2)
	if !commission.GreaterThan(decimal.Zero) {
		return nil
	}

	newBalance := referrer.Balance.Add(commission)
	if err := updateBalance(ctx, tx, referrer.ID, newBalance); err != nil {
		return err
	}

	description := fmt.Sprintf("Referral commission for order #%s", shortID(orderID))
	if err := insertTransaction(ctx, tx, referrer.ID, "referral_commission", commission, referrer.Balance, newBalance, description, &orderID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET total_earnings = total_earnings + $1 WHERE id = $2
	`, commission, referrer.ID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE referrals SET commission_earned = commission_earned + $1
		WHERE referrer_id = $2 AND referred_user_id = $3
	`, commission, referrer.ID, params.UserID)
	return err
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var o Order
	err := r.db.GetContext(ctx, &o, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	orders := []Order{}
	err := r.db.SelectContext(ctx, &orders, `
		SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	return orders, err
}

func (r *Repository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]Order, error) {
	orders := []Order{}
	err := r.db.SelectContext(ctx, &orders, `
		SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2
	`, userID, limit)
	return orders, err
}

func (r *Repository) ListAll(ctx context.Context) ([]Order, error) {
	orders := []Order{}
	err := r.db.SelectContext(ctx, &orders, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	return orders, err
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = now() WHERE id = $2 AND status <> 'refunded'
	`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Refund flips the order to refunded and credits the buyer in one
// transaction. The status guard makes a second refund a no-op error.
func (r *Repository) Refund(ctx context.Context, id uuid.UUID) (*RefundResult, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var o Order
	err = tx.GetContext(ctx, &o, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.Status == StatusRefunded {
		return nil, ErrAlreadyRefunded
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = 'refunded', updated_at = now() WHERE id = $1
	`, id); err != nil {
		return nil, err
	}

	wallet, err := lockUserWallet(ctx, tx, o.UserID)
	if err != nil {
		return nil, err
	}

	newBalance := wallet.Balance.Add(o.Amount)
	if err := updateBalance(ctx, tx, o.UserID, newBalance); err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Refund for order #%s", shortID(o.ID))
	if err := insertTransaction(ctx, tx, o.UserID, "refund", o.Amount, wallet.Balance, newBalance, description, &o.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	o.Status = StatusRefunded
	return &RefundResult{Order: &o, NewBalance: newBalance}, nil
}

func (r *Repository) AdvanceDuePending(ctx context.Context, cutoff time.Time) ([]Order, error) {
	orders := []Order{}
	err := r.db.SelectContext(ctx, &orders, `
		UPDATE orders SET status = 'processing', updated_at = now()
		WHERE status = 'pending' AND created_at <= $1
		RETURNING `+orderColumns+`
	`, cutoff)
	return orders, err
}

func (r *Repository) AdvanceDueProcessing(ctx context.Context, cutoff time.Time) ([]Order, error) {
	orders := []Order{}
	err := r.db.SelectContext(ctx, &orders, `
		UPDATE orders SET status = 'completed', updated_at = now()
		WHERE status = 'processing' AND updated_at <= $1
		RETURNING `+orderColumns+`
	`, cutoff)
	return orders, err
}

func (r *Repository) ListConsentLogs(ctx context.Context, userID uuid.UUID) ([]ConsentLog, error) {
	logs := []ConsentLog{}
	err := r.db.SelectContext(ctx, &logs, `
		SELECT id, user_id, ip_address, consent_version, order_id, created_at
		FROM consent_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	return logs, err
}

type lockedWallet struct {
	Balance    decimal.Decimal `db:"wallet_balance"`
	ReferredBy sql.NullString  `db:"referred_by"`
}

func lockUserWallet(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (*lockedWallet, error) {
	var w lockedWallet
	err := tx.GetContext(ctx, &w, `
		SELECT wallet_balance, referred_by FROM users WHERE id = $1 FOR UPDATE
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s not found", userID)
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func updateBalance(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, balance decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users SET wallet_balance = $1, updated_at = now() WHERE id = $2
	`, balance, userID)
	return err
}

func insertTransaction(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, txType string, amount, before, after decimal.Decimal, description string, orderID *uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, type, amount, balance_before, balance_after, description, order_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.New(), userID, txType, amount, before, after, description, orderID)
	return err
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
