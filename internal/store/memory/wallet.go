package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reelboost/reelboost-api/internal/domain/user"
	"github.com/reelboost/reelboost-api/internal/domain/wallet"
)

type walletStore struct {
	s *Store
}

// appendTransaction writes a ledger row; callers hold the write lock
func (s *Store) appendTransaction(userID uuid.UUID, txType wallet.TransactionType, amount, before, after decimal.Decimal, description string, orderID *uuid.UUID) {
	tx := wallet.Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		CreatedAt:     time.Now(),
	}
	if description != "" {
		d := description
		tx.Description = &d
	}
	if orderID != nil {
		id := *orderID
		tx.OrderID = &id
	}
	s.transactions = append(s.transactions, tx)
}

func (ws *walletStore) ListTransactions(ctx context.Context, userID uuid.UUID) ([]wallet.Transaction, error) {
	ws.s.mu.RLock()
	defer ws.s.mu.RUnlock()
	txs := []wallet.Transaction{}
	for _, tx := range ws.s.transactions {
		if tx.UserID == userID {
			txs = append(txs, tx)
		}
	}
	sort.Slice(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	return txs, nil
}

func (ws *walletStore) CreateProof(ctx context.Context, p *wallet.PaymentProof) error {
	ws.s.mu.Lock()
	defer ws.s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	c := *p
	ws.s.proofs[p.ID] = &c
	return nil
}

func (ws *walletStore) GetProof(ctx context.Context, id uuid.UUID) (*wallet.PaymentProof, error) {
	ws.s.mu.RLock()
	defer ws.s.mu.RUnlock()
	p, ok := ws.s.proofs[id]
	if !ok {
		return nil, wallet.ErrProofNotFound
	}
	c := *p
	return &c, nil
}

func (ws *walletStore) ListProofs(ctx context.Context, userID uuid.UUID) ([]wallet.PaymentProof, error) {
	ws.s.mu.RLock()
	defer ws.s.mu.RUnlock()
	return ws.collect(func(p *wallet.PaymentProof) bool { return p.UserID == userID }), nil
}

func (ws *walletStore) ListAllProofs(ctx context.Context) ([]wallet.PaymentProof, error) {
	ws.s.mu.RLock()
	defer ws.s.mu.RUnlock()
	return ws.collect(func(*wallet.PaymentProof) bool { return true }), nil
}

func (ws *walletStore) collect(match func(*wallet.PaymentProof) bool) []wallet.PaymentProof {
	proofs := []wallet.PaymentProof{}
	for _, p := range ws.s.proofs {
		if match(p) {
			proofs = append(proofs, *p)
		}
	}
	sort.Slice(proofs, func(i, j int) bool {
		return proofs[i].CreatedAt.After(proofs[j].CreatedAt)
	})
	return proofs
}

// ApproveProof mirrors the postgres transaction: the pending check, the
// status flip and the wallet credit happen under one lock hold.
func (ws *walletStore) ApproveProof(ctx context.Context, id uuid.UUID, adminNotes string) (*wallet.ProofReview, error) {
	ws.s.mu.Lock()
	defer ws.s.mu.Unlock()

	p, ok := ws.s.proofs[id]
	if !ok {
		return nil, wallet.ErrProofNotFound
	}
	if p.Status != wallet.ProofStatusPending {
		return nil, wallet.ErrProofAlreadyProcessed
	}

	u, ok := ws.s.users[p.UserID]
	if !ok {
		return nil, user.ErrNotFound
	}

	now := time.Now()
	p.Status = wallet.ProofStatusApproved
	p.UpdatedAt = now
	if adminNotes != "" {
		n := adminNotes
		p.AdminNotes = &n
	}

	before := u.WalletBalance
	u.WalletBalance = before.Add(p.Amount)
	u.UpdatedAt = now

	description := "Wallet top-up via UPI"
	if p.UTRNumber != nil {
		description = fmt.Sprintf("Wallet top-up via UPI (UTR: %s)", *p.UTRNumber)
	}
	ws.s.appendTransaction(p.UserID, wallet.TransactionTypeDeposit, p.Amount, before, u.WalletBalance, description, nil)

	c := *p
	return &wallet.ProofReview{Proof: &c, NewBalance: u.WalletBalance}, nil
}

func (ws *walletStore) RejectProof(ctx context.Context, id uuid.UUID, adminNotes string) (*wallet.PaymentProof, error) {
	ws.s.mu.Lock()
	defer ws.s.mu.Unlock()

	p, ok := ws.s.proofs[id]
	if !ok {
		return nil, wallet.ErrProofNotFound
	}
	if p.Status != wallet.ProofStatusPending {
		return nil, wallet.ErrProofAlreadyProcessed
	}

	p.Status = wallet.ProofStatusRejected
	p.UpdatedAt = time.Now()
	if adminNotes != "" {
		n := adminNotes
		p.AdminNotes = &n
	}

	c := *p
	return &c, nil
}
