package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const proofColumns = `
	id, user_id, amount, utr_number, screenshot_url, status, admin_notes,
	created_at, updated_at
`

// Repository is the PostgreSQL-backed wallet store
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListTransactions(ctx context.Context, userID uuid.UUID) ([]Transaction, error) {
	txs := []Transaction{}
	err := r.db.SelectContext(ctx, &txs, `
		SELECT id, user_id, type, amount, balance_before, balance_after,
		       description, order_id, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	return txs, err
}

func (r *Repository) CreateProof(ctx context.Context, p *PaymentProof) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payment_proofs (id, user_id, amount, utr_number, screenshot_url, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
	`, p.ID, p.UserID, p.Amount, p.UTRNumber, p.ScreenshotURL)
	return err
}

func (r *Repository) GetProof(ctx context.Context, id uuid.UUID) (*PaymentProof, error) {
	var p PaymentProof
	err := r.db.GetContext(ctx, &p, `SELECT `+proofColumns+` FROM payment_proofs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProofNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) ListProofs(ctx context.Context, userID uuid.UUID) ([]PaymentProof, error) {
	proofs := []PaymentProof{}
	err := r.db.SelectContext(ctx, &proofs, `
		SELECT `+proofColumns+` FROM payment_proofs WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	return proofs, err
}

func (r *Repository) ListAllProofs(ctx context.Context) ([]PaymentProof, error) {
	proofs := []PaymentProof{}
	err := r.db.SelectContext(ctx, &proofs, `
		SELECT `+proofColumns+` FROM payment_proofs ORDER BY created_at DESC
	`)
	return proofs, err
}

func (r *Repository) ApproveProof(ctx context.Context, id uuid.UUID, adminNotes string) (*ProofReview, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	proof, err := lockProof(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if proof.Status != ProofStatusPending {
		return nil, ErrProofAlreadyProcessed
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE payment_proofs SET status = 'approved', admin_notes = $1, updated_at = now() WHERE id = $2
	`, nullableString(adminNotes), id); err != nil {
		return nil, err
	}

	var balance decimal.Decimal
	err = tx.GetContext(ctx, &balance, `SELECT wallet_balance FROM users WHERE id = $1 FOR UPDATE`, proof.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("proof %s references missing user %s", id, proof.UserID)
	}
	if err != nil {
		return nil, err
	}

	newBalance := balance.Add(proof.Amount)
	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET wallet_balance = $1, updated_at = now() WHERE id = $2
	`, newBalance, proof.UserID); err != nil {
		return nil, err
	}

	description := "Wallet top-up via UPI"
	if proof.UTRNumber != nil && *proof.UTRNumber != "" {
		description = fmt.Sprintf("Wallet top-up via UPI (UTR: %s)", *proof.UTRNumber)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, type, amount, balance_before, balance_after, description)
		VALUES ($1, $2, 'deposit', $3, $4, $5, $6)
	`, uuid.New(), proof.UserID, proof.Amount, balance, newBalance, description); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	proof.Status = ProofStatusApproved
	if adminNotes != "" {
		proof.AdminNotes = &adminNotes
	}
	return &ProofReview{Proof: proof, NewBalance: newBalance}, nil
}

func (r *Repository) RejectProof(ctx context.Context, id uuid.UUID, adminNotes string) (*PaymentProof, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	proof, err := lockProof(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if proof.Status != ProofStatusPending {
		return nil, ErrProofAlreadyProcessed
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE payment_proofs SET status = 'rejected', admin_notes = $1, updated_at = now() WHERE id = $2
	`, nullableString(adminNotes), id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	proof.Status = ProofStatusRejected
	if adminNotes != "" {
		proof.AdminNotes = &adminNotes
	}
	return proof, nil
}

func lockProof(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*PaymentProof, error) {
	var p PaymentProof
	err := tx.GetContext(ctx, &p, `SELECT `+proofColumns+` FROM payment_proofs WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProofNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
