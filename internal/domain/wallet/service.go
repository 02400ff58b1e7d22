package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Notifier pushes live balance updates to connected clients
type Notifier interface {
	NotifyBalance(userID uuid.UUID, balance decimal.Decimal)
}

// Service owns the wallet read paths and the payment-proof lifecycle
type Service struct {
	store    Store
	notifier Notifier
}

func NewService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// Transactions returns the caller's ledger history, newest first
func (s *Service) Transactions(ctx context.Context, userID uuid.UUID) ([]Transaction, error) {
	return s.store.ListTransactions(ctx, userID)
}

// SubmitProof records a pending top-up claim. No wallet effect until an
// admin approves it.
func (s *Service) SubmitProof(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, utrNumber, screenshotURL string) (*PaymentProof, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if utrNumber == "" && screenshotURL == "" {
		return nil, ErrEvidenceRequired
	}

	proof := &PaymentProof{
		ID:     uuid.New(),
		UserID: userID,
		Amount: amount.Round(2),
		Status: ProofStatusPending,
	}
	if utrNumber != "" {
		proof.UTRNumber = &utrNumber
	}
	if screenshotURL != "" {
		proof.ScreenshotURL = &screenshotURL
	}

	if err := s.store.CreateProof(ctx, proof); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("proof_id", proof.ID.String()).
		Str("amount", amount.StringFixed(2)).
		Msg("payment proof submitted")
	return proof, nil
}

// Proofs returns the caller's submitted proofs, newest first
func (s *Service) Proofs(ctx context.Context, userID uuid.UUID) ([]PaymentProof, error) {
	return s.store.ListProofs(ctx, userID)
}

// AllProofs returns every proof in the system (admin view)
func (s *Service) AllProofs(ctx context.Context) ([]PaymentProof, error) {
	return s.store.ListAllProofs(ctx)
}

// ReviewProof applies an admin decision to a pending proof. Approval
// credits the wallet exactly once; a second review of the same proof
// fails with ErrProofAlreadyProcessed.
func (s *Service) ReviewProof(ctx context.Context, id uuid.UUID, status ProofStatus, adminNotes string) (*PaymentProof, error) {
	switch status {
	case ProofStatusApproved:
		review, err := s.store.ApproveProof(ctx, id, adminNotes)
		if err != nil {
			return nil, err
		}
		if s.notifier != nil {
			s.notifier.NotifyBalance(review.Proof.UserID, review.NewBalance)
		}
		log.Info().
			Str("proof_id", id.String()).
			Str("user_id", review.Proof.UserID.String()).
			Str("amount", review.Proof.Amount.StringFixed(2)).
			Msg("payment proof approved, wallet credited")
		return review.Proof, nil

	case ProofStatusRejected:
		proof, err := s.store.RejectProof(ctx, id, adminNotes)
		if err != nil {
			return nil, err
		}
		log.Info().Str("proof_id", id.String()).Msg("payment proof rejected")
		return proof, nil

	default:
		return nil, ErrInvalidProofStatus
	}
}
