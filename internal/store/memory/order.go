package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reelboost/reelboost-api/internal/domain/order"
	"github.com/reelboost/reelboost-api/internal/domain/user"
	"github.com/reelboost/reelboost-api/internal/domain/wallet"
)

type orderStore struct {
	s *Store
}

// Place mirrors the postgres transaction: everything happens under one
// lock hold, so a rejected purchase leaves no state behind.
func (os *orderStore) Place(ctx context.Context, params order.PlaceParams) (*order.PlaceResult, error) {
	os.s.mu.Lock()
	defer os.s.mu.Unlock()

	buyer, ok := os.s.users[params.UserID]
	if !ok {
		return nil, fmt.Errorf("user %s not found", params.UserID)
	}
	if buyer.WalletBalance.LessThan(params.Amount) {
		return nil, order.ErrInsufficientFunds
	}

	now := time.Now()
	o := &order.Order{
		ID:         uuid.New(),
		UserID:     params.UserID,
		ServiceID:  params.ServiceID,
		TargetLink: params.TargetLink,
		Quantity:   params.Quantity,
		Amount:     params.Amount,
		Status:     order.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	os.s.orders[o.ID] = o

	before := buyer.WalletBalance
	buyer.WalletBalance = before.Sub(params.Amount)
	buyer.UpdatedAt = now
	os.s.appendTransaction(params.UserID, wallet.TransactionTypeOrder, params.Amount, before, buyer.WalletBalance, params.Description, &o.ID)

	os.s.consentLogs = append(os.s.consentLogs, order.ConsentLog{
		ID:             uuid.New(),
		UserID:         params.UserID,
		IPAddress:      params.IPAddress,
		ConsentVersion: params.ConsentVersion,
		OrderID:        o.ID,
		CreatedAt:      now,
	})

	os.s.creditReferrer(buyer, params, o.ID)

	result := *o
	return &order.PlaceResult{Order: &result, NewBalance: buyer.WalletBalance}, nil
}

func (s *Store) creditReferrer(buyer *user.User, params order.PlaceParams, orderID uuid.UUID) {
	if !params.CommissionRate.GreaterThan(decimal.Zero) || !buyer.ReferredBy.Valid || buyer.ReferredBy.String == "" {
		return
	}

	var referrer *user.User
	for _, u := range s.users {
		if u.ReferralCode == buyer.ReferredBy.String {
			referrer = u
			break
		}
	}
	if referrer == nil {
		return
	}

	commission := params.Amount.Mul(params.CommissionRate).Round(2)
	if !commission.GreaterThan(decimal.Zero) {
		return
	}

	before := referrer.WalletBalance
	referrer.WalletBalance = before.Add(commission)
	referrer.TotalEarnings = referrer.TotalEarnings.Add(commission)
	referrer.UpdatedAt = time.Now()

	description := fmt.Sprintf("Referral commission for order #%s", orderID.String()[:8])
	s.appendTransaction(referrer.ID, wallet.TransactionTypeCommission, commission, before, referrer.WalletBalance, description, &orderID)

	for _, ref := range s.referrals {
		if ref.ReferrerID == referrer.ID && ref.ReferredUserID == buyer.ID {
			ref.CommissionEarned = ref.CommissionEarned.Add(commission)
			break
		}
	}
}

func (os *orderStore) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	os.s.mu.RLock()
	defer os.s.mu.RUnlock()
	o, ok := os.s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	c := *o
	return &c, nil
}

func (os *orderStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]order.Order, error) {
	os.s.mu.RLock()
	defer os.s.mu.RUnlock()
	return os.collect(func(o *order.Order) bool { return o.UserID == userID }, 0), nil
}

func (os *orderStore) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]order.Order, error) {
	os.s.mu.RLock()
	defer os.s.mu.RUnlock()
	return os.collect(func(o *order.Order) bool { return o.UserID == userID }, limit), nil
}

func (os *orderStore) ListAll(ctx context.Context) ([]order.Order, error) {
	os.s.mu.RLock()
	defer os.s.mu.RUnlock()
	return os.collect(func(*order.Order) bool { return true }, 0), nil
}

// collect returns matching orders newest first; callers hold the lock
func (os *orderStore) collect(match func(*order.Order) bool, limit int) []order.Order {
	orders := []order.Order{}
	for _, o := range os.s.orders {
		if match(o) {
			orders = append(orders, *o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders
}

func (os *orderStore) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	os.s.mu.Lock()
	defer os.s.mu.Unlock()
	o, ok := os.s.orders[id]
	if !ok || o.Status == order.StatusRefunded {
		return order.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

func (os *orderStore) Refund(ctx context.Context, id uuid.UUID) (*order.RefundResult, error) {
	os.s.mu.Lock()
	defer os.s.mu.Unlock()

	o, ok := os.s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	if o.Status == order.StatusRefunded {
		return nil, order.ErrAlreadyRefunded
	}

	buyer, ok := os.s.users[o.UserID]
	if !ok {
		return nil, user.ErrNotFound
	}

	now := time.Now()
	o.Status = order.StatusRefunded
	o.UpdatedAt = now

	before := buyer.WalletBalance
	buyer.WalletBalance = before.Add(o.Amount)
	buyer.UpdatedAt = now

	description := fmt.Sprintf("Refund for order #%s", o.ID.String()[:8])
	os.s.appendTransaction(o.UserID, wallet.TransactionTypeRefund, o.Amount, before, buyer.WalletBalance, description, &o.ID)

	c := *o
	return &order.RefundResult{Order: &c, NewBalance: buyer.WalletBalance}, nil
}

func (os *orderStore) AdvanceDuePending(ctx context.Context, cutoff time.Time) ([]order.Order, error) {
	os.s.mu.Lock()
	defer os.s.mu.Unlock()
	return os.advance(order.StatusPending, order.StatusProcessing, func(o *order.Order) time.Time { return o.CreatedAt }, cutoff), nil
}

func (os *orderStore) AdvanceDueProcessing(ctx context.Context, cutoff time.Time) ([]order.Order, error) {
	os.s.mu.Lock()
	defer os.s.mu.Unlock()
	return os.advance(order.StatusProcessing, order.StatusCompleted, func(o *order.Order) time.Time { return o.UpdatedAt }, cutoff), nil
}

func (os *orderStore) advance(from, to order.Status, stamp func(*order.Order) time.Time, cutoff time.Time) []order.Order {
	moved := []order.Order{}
	for _, o := range os.s.orders {
		if o.Status == from && !stamp(o).After(cutoff) {
			o.Status = to
			o.UpdatedAt = time.Now()
			moved = append(moved, *o)
		}
	}
	return moved
}

func (os *orderStore) ListConsentLogs(ctx context.Context, userID uuid.UUID) ([]order.ConsentLog, error) {
	os.s.mu.RLock()
	defer os.s.mu.RUnlock()
	logs := []order.ConsentLog{}
	for _, l := range os.s.consentLogs {
		if l.UserID == userID {
			logs = append(logs, l)
		}
	}
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].CreatedAt.After(logs[j].CreatedAt)
	})
	return logs, nil
}
