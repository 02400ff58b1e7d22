package order_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reelboost/reelboost-api/internal/domain/catalog"
	"github.com/reelboost/reelboost-api/internal/domain/order"
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

type fixture struct {
	store *memory.Store
	svc   *order.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	svc := order.NewService(store.Orders(), store.Services(), nil, order.Config{
		ConsentVersion: "v1.0",
		CommissionRate: dec("0.10"),
	})
	return &fixture{store: store, svc: svc}
}

func (f *fixture) addUser(t *testing.T, balance string) *user.User {
	t.Helper()
	u := &user.User{
		ID:            uuid.New(),
		Email:         uuid.New().String() + "@example.com",
		Role:          user.RoleUser,
		WalletBalance: dec(balance),
		ReferralCode:  uuid.New().String()[:8],
	}
	if err := f.store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) addService(t *testing.T, pricePerThousand string, min, max int) *catalog.Service {
	t.Helper()
	svc := &catalog.Service{
		ID:               uuid.New(),
		Platform:         catalog.PlatformInstagram,
		Name:             "Instagram Followers",
		PricePerThousand: dec(pricePerThousand),
		MinQuantity:      min,
		MaxQuantity:      max,
		IsActive:         1,
	}
	if err := f.store.Services().Create(context.Background(), svc); err != nil {
		t.Fatalf("create service: %v", err)
	}
	return svc
}

func placeReq(svc *catalog.Service, quantity int) order.PlaceRequest {
	return order.PlaceRequest{
		ServiceID:     svc.ID,
		TargetLink:    "https://instagram.com/p/abc123",
		Quantity:      quantity,
		ConsentAgreed: true,
	}
}

func TestPlaceDebitsWalletAndWritesLedger(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, "100.00")
	svc := f.addService(t, "5.00", 100, 10000)

	o, err := f.svc.Place(context.Background(), u.ID, placeReq(svc, 1000), "203.0.113.7")
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	if !o.Amount.Equal(dec("5.00")) {
		t.Errorf("amount = %s, want 5.00", o.Amount)
	}
	if o.Status != order.StatusPending {
		t.Errorf("status = %s, want pending", o.Status)
	}

	after, _ := f.store.Users().GetByID(context.Background(), u.ID)
	if !after.WalletBalance.Equal(dec("95.00")) {
		t.Errorf("balance = %s, want 95.00", after.WalletBalance)
	}

	txs, _ := f.store.Wallet().ListTransactions(context.Background(), u.ID)
	if len(txs) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txs))
	}
	tx := txs[0]
	if tx.Type != wallet.TransactionTypeOrder {
		t.Errorf("type = %s, want order", tx.Type)
	}
	if !tx.BalanceBefore.Equal(dec("100.00")) || !tx.BalanceAfter.Equal(dec("95.00")) {
		t.Errorf("balance trail = %s -> %s, want 100.00 -> 95.00", tx.BalanceBefore, tx.BalanceAfter)
	}

	logs, _ := f.store.Orders().ListConsentLogs(context.Background(), u.ID)
	if len(logs) != 1 {
		t.Fatalf("consent logs = %d, want 1", len(logs))
	}
	if logs[0].IPAddress != "203.0.113.7" || logs[0].ConsentVersion != "v1.0" {
		t.Errorf("consent log = %+v", logs[0])
	}
}

func TestPlaceInsufficientFundsLeavesNoSideEffects(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, "4.00")
	svc := f.addService(t, "5.00", 100, 10000)

	_, err := f.svc.Place(context.Background(), u.ID, placeReq(svc, 1000), "203.0.113.7")
	if !errors.Is(err, order.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	after, _ := f.store.Users().GetByID(context.Background(), u.ID)
	if !after.WalletBalance.Equal(dec("4.00")) {
		t.Errorf("balance changed to %s", after.WalletBalance)
	}
	orders, _ := f.store.Orders().ListByUser(context.Background(), u.ID)
	if len(orders) != 0 {
		t.Errorf("orders created: %d", len(orders))
	}
	txs, _ := f.store.Wallet().ListTransactions(context.Background(), u.ID)
	if len(txs) != 0 {
		t.Errorf("transactions created: %d", len(txs))
	}
}

func TestPlaceQuantityBounds(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, "1000.00")
	svc := f.addService(t, "5.00", 100, 10000)

	cases := []struct {
		name     string
		quantity int
		wantErr  bool
	}{
		{"at minimum", 100, false},
		{"at maximum", 10000, false},
		{"below minimum", 99, true},
		{"above maximum", 10001, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Place(context.Background(), u.ID, placeReq(svc, tc.quantity), "203.0.113.7")
			if tc.wantErr && !errors.Is(err, order.ErrQuantityOutOfRange) {
				t.Errorf("err = %v, want ErrQuantityOutOfRange", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("err = %v, want nil", err)
			}
		})
	}
}

func TestPlaceWithoutConsentLeavesNoSideEffects(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, "100.00")
	svc := f.addService(t, "5.00", 100, 10000)

	req := placeReq(svc, 1000)
	req.ConsentAgreed = false

	_, err := f.svc.Place(context.Background(), u.ID, req, "203.0.113.7")
	if !errors.Is(err, order.ErrConsentRequired) {
		t.Fatalf("err = %v, want ErrConsentRequired", err)
	}

	after, _ := f.store.Users().GetByID(context.Background(), u.ID)
	if !after.WalletBalance.Equal(dec("100.00")) {
		t.Errorf("balance changed to %s", after.WalletBalance)
	}
	logs, _ := f.store.Orders().ListConsentLogs(context.Background(), u.ID)
	if len(logs) != 0 {
		t.Errorf("consent logs written: %d", len(logs))
	}
}

func TestPlaceRejectsBadTargetLink(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, "100.00")
	svc := f.addService(t, "5.00", 100, 10000)

	for _, link := range []string{"", "not a url", "ftp://example.com/x", "http://"} {
		req := placeReq(svc, 1000)
		req.TargetLink = link
		if _, err := f.svc.Place(context.Background(), u.ID, req, "203.0.113.7"); !errors.Is(err, order.ErrInvalidTargetLink) {
			t.Errorf("link %q: err = %v, want ErrInvalidTargetLink", link, err)
		}
	}
}

func TestPlaceRejectsInactiveService(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, "100.00")
	svc := f.addService(t, "5.00", 100, 10000)
	svc.IsActive = 0
	if err := f.store.Services().Update(context.Background(), svc); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := f.svc.Place(context.Background(), u.ID, placeReq(svc, 1000), "203.0.113.7"); !errors.Is(err, catalog.ErrInactive) {
		t.Fatalf("err = %v, want ErrInactive", err)
	}
}

func TestPlacePaysReferralCommission(t *testing.T) {
	f := newFixture(t)
	referrer := f.addUser(t, "0.00")
	buyer := &user.User{
		ID:            uuid.New(),
		Email:         "buyer@example.com",
		Role:          user.RoleUser,
		WalletBalance: dec("100.00"),
		ReferralCode:  "BUYER001",
		ReferredBy:    sql.NullString{String: referrer.ReferralCode, Valid: true},
	}
	if err := f.store.Users().Create(context.Background(), buyer); err != nil {
		t.Fatalf("create buyer: %v", err)
	}

	svc := f.addService(t, "5.00", 100, 10000)
	if _, err := f.svc.Place(context.Background(), buyer.ID, placeReq(svc, 2000), "203.0.113.7"); err != nil {
		t.Fatalf("place: %v", err)
	}

	// 2000 units at 5.00/k = 10.00; 10% commission = 1.00
	ref, _ := f.store.Users().GetByID(context.Background(), referrer.ID)
	if !ref.WalletBalance.Equal(dec("1.00")) {
		t.Errorf("referrer balance = %s, want 1.00", ref.WalletBalance)
	}
	if !ref.TotalEarnings.Equal(dec("1.00")) {
		t.Errorf("total earnings = %s, want 1.00", ref.TotalEarnings)
	}

	txs, _ := f.store.Wallet().ListTransactions(context.Background(), referrer.ID)
	if len(txs) != 1 || txs[0].Type != wallet.TransactionTypeCommission {
		t.Fatalf("referrer ledger = %+v", txs)
	}
}

func TestConcurrentPlacementNeverOverspends(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, "10.00")
	svc := f.addService(t, "5.00", 100, 10000)

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Place(context.Background(), u.ID, placeReq(svc, 1000), "203.0.113.7")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	placed := 0
	for err := range errs {
		if err == nil {
			placed++
		} else if !errors.Is(err, order.ErrInsufficientFunds) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if placed != 2 {
		t.Errorf("placed = %d, want 2 (10.00 balance, 5.00 each)", placed)
	}

	after, _ := f.store.Users().GetByID(context.Background(), u.ID)
	if after.WalletBalance.IsNegative() {
		t.Errorf("balance went negative: %s", after.WalletBalance)
	}
}

func TestRefundCreditsOnce(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, "100.00")
	svc := f.addService(t, "5.00", 100, 10000)

	o, err := f.svc.Place(context.Background(), u.ID, placeReq(svc, 1000), "203.0.113.7")
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	if _, err := f.store.Orders().Refund(context.Background(), o.ID); err != nil {
		t.Fatalf("refund: %v", err)
	}
	after, _ := f.store.Users().GetByID(context.Background(), u.ID)
	if !after.WalletBalance.Equal(dec("100.00")) {
		t.Errorf("balance = %s, want 100.00", after.WalletBalance)
	}

	if _, err := f.store.Orders().Refund(context.Background(), o.ID); !errors.Is(err, order.ErrAlreadyRefunded) {
		t.Fatalf("second refund err = %v, want ErrAlreadyRefunded", err)
	}
	after, _ = f.store.Users().GetByID(context.Background(), u.ID)
	if !after.WalletBalance.Equal(dec("100.00")) {
		t.Errorf("balance after double refund = %s, want 100.00", after.WalletBalance)
	}
}

func TestGetScopedToOwner(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser(t, "100.00")
	other := f.addUser(t, "100.00")
	svc := f.addService(t, "5.00", 100, 10000)

	o, err := f.svc.Place(context.Background(), owner.ID, placeReq(svc, 1000), "203.0.113.7")
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	if _, err := f.svc.Get(context.Background(), other.ID, o.ID); !errors.Is(err, order.ErrNotFound) {
		t.Errorf("cross-user get err = %v, want ErrNotFound", err)
	}
	if _, err := f.svc.Get(context.Background(), owner.ID, o.ID); err != nil {
		t.Errorf("owner get err = %v", err)
	}
}
