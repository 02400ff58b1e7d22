package wallet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reelboost/reelboost-api/internal/domain/user"
	"github.com/reelboost/reelboost-api/internal/domain/wallet"
	"github.com/reelboost/reelboost-api/internal/store/memory"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func setup(t *testing.T) (*memory.Store, *wallet.Service, *user.User) {
	t.Helper()
	store := memory.NewStore()
	svc := wallet.NewService(store.Wallet(), nil)

	u := &user.User{
		ID:            uuid.New(),
		Email:         "wallet@example.com",
		Role:          user.RoleUser,
		WalletBalance: dec("50.00"),
		ReferralCode:  "WALLET01",
	}
	if err := store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return store, svc, u
}

func TestSubmitProofValidation(t *testing.T) {
	_, svc, u := setup(t)

	if _, err := svc.SubmitProof(context.Background(), u.ID, dec("0"), "UTR123", ""); !errors.Is(err, wallet.ErrInvalidAmount) {
		t.Errorf("zero amount err = %v, want ErrInvalidAmount", err)
	}
	if _, err := svc.SubmitProof(context.Background(), u.ID, dec("-5"), "UTR123", ""); !errors.Is(err, wallet.ErrInvalidAmount) {
		t.Errorf("negative amount err = %v, want ErrInvalidAmount", err)
	}
	if _, err := svc.SubmitProof(context.Background(), u.ID, dec("100"), "", ""); !errors.Is(err, wallet.ErrEvidenceRequired) {
		t.Errorf("no evidence err = %v, want ErrEvidenceRequired", err)
	}

	proof, err := svc.SubmitProof(context.Background(), u.ID, dec("100"), "UTR123", "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if proof.Status != wallet.ProofStatusPending {
		t.Errorf("status = %s, want pending", proof.Status)
	}
}

func TestApproveProofCreditsExactlyOnce(t *testing.T) {
	store, svc, u := setup(t)

	proof, err := svc.SubmitProof(context.Background(), u.ID, dec("100.00"), "UTR123", "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	reviewed, err := svc.ReviewProof(context.Background(), proof.ID, wallet.ProofStatusApproved, "verified")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if reviewed.Status != wallet.ProofStatusApproved {
		t.Errorf("status = %s, want approved", reviewed.Status)
	}

	after, _ := store.Users().GetByID(context.Background(), u.ID)
	if !after.WalletBalance.Equal(dec("150.00")) {
		t.Errorf("balance = %s, want 150.00", after.WalletBalance)
	}

	txs, _ := store.Wallet().ListTransactions(context.Background(), u.ID)
	if len(txs) != 1 || txs[0].Type != wallet.TransactionTypeDeposit {
		t.Fatalf("ledger = %+v", txs)
	}

	// Second review of the same proof must not credit again
	if _, err := svc.ReviewProof(context.Background(), proof.ID, wallet.ProofStatusApproved, ""); !errors.Is(err, wallet.ErrProofAlreadyProcessed) {
		t.Fatalf("double approve err = %v, want ErrProofAlreadyProcessed", err)
	}
	after, _ = store.Users().GetByID(context.Background(), u.ID)
	if !after.WalletBalance.Equal(dec("150.00")) {
		t.Errorf("balance after double approve = %s, want 150.00", after.WalletBalance)
	}
}

func TestRejectProofNeverCredits(t *testing.T) {
	store, svc, u := setup(t)

	proof, err := svc.SubmitProof(context.Background(), u.ID, dec("100.00"), "", "https://cdn.example.com/shot.png")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	rejected, err := svc.ReviewProof(context.Background(), proof.ID, wallet.ProofStatusRejected, "UTR not found")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != wallet.ProofStatusRejected {
		t.Errorf("status = %s, want rejected", rejected.Status)
	}
	if rejected.AdminNotes == nil || *rejected.AdminNotes != "UTR not found" {
		t.Errorf("admin notes = %v", rejected.AdminNotes)
	}

	after, _ := store.Users().GetByID(context.Background(), u.ID)
	if !after.WalletBalance.Equal(dec("50.00")) {
		t.Errorf("balance = %s, want 50.00", after.WalletBalance)
	}

	// A rejected proof is terminal; it cannot be approved later
	if _, err := svc.ReviewProof(context.Background(), proof.ID, wallet.ProofStatusApproved, ""); !errors.Is(err, wallet.ErrProofAlreadyProcessed) {
		t.Fatalf("approve after reject err = %v, want ErrProofAlreadyProcessed", err)
	}
}

func TestReviewProofRejectsUnknownStatus(t *testing.T) {
	_, svc, u := setup(t)

	proof, err := svc.SubmitProof(context.Background(), u.ID, dec("10.00"), "UTR9", "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.ReviewProof(context.Background(), proof.ID, "pending", ""); !errors.Is(err, wallet.ErrInvalidProofStatus) {
		t.Fatalf("err = %v, want ErrInvalidProofStatus", err)
	}
}
