package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProofReview is the outcome of an approved proof: the terminal proof
// plus the credited balance, produced atomically by the store.
type ProofReview struct {
	Proof      *PaymentProof
	NewBalance decimal.Decimal
}

// Store is the persistence contract for the wallet ledger and payment
// proofs. Approval is a single transactional unit: proof flip, wallet
// credit and deposit ledger row commit or fail together.
type Store interface {
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]Transaction, error)

	CreateProof(ctx context.Context, p *PaymentProof) error
	GetProof(ctx context.Context, id uuid.UUID) (*PaymentProof, error)
	ListProofs(ctx context.Context, userID uuid.UUID) ([]PaymentProof, error)
	ListAllProofs(ctx context.Context) ([]PaymentProof, error)

	// ApproveProof flips a pending proof to approved and credits the
	// user in one transaction. Non-pending proofs return
	// ErrProofAlreadyProcessed and leave the balance untouched.
	ApproveProof(ctx context.Context, id uuid.UUID, adminNotes string) (*ProofReview, error)

	// RejectProof flips a pending proof to rejected. Never touches the
	// balance.
	RejectProof(ctx context.Context, id uuid.UUID, adminNotes string) (*PaymentProof, error)
}
