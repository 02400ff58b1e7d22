package admin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reelboost/reelboost-api/internal/domain/admin"
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

type env struct {
	store    *memory.Store
	svc      *admin.Service
	orderSvc *order.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	catalogMgr := catalog.NewManager(store.Services(), catalog.NewCache(nil, 0))
	walletSvc := wallet.NewService(store.Wallet(), nil)
	orderSvc := order.NewService(store.Orders(), store.Services(), nil, order.Config{
		ConsentVersion: "v1.0",
		CommissionRate: dec("0.10"),
	})
	svc := admin.NewService(store.Users(), catalogMgr, store.Orders(), walletSvc, nil)
	return &env{store: store, svc: svc, orderSvc: orderSvc}
}

func (e *env) addUser(t *testing.T, balance string) *user.User {
	t.Helper()
	u := &user.User{
		ID:            uuid.New(),
		Email:         uuid.New().String() + "@example.com",
		Role:          user.RoleUser,
		WalletBalance: dec(balance),
		ReferralCode:  uuid.New().String()[:8],
	}
	if err := e.store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (e *env) placeOrder(t *testing.T, u *user.User) *order.Order {
	t.Helper()
	svc := &catalog.Service{
		ID:               uuid.New(),
		Platform:         catalog.PlatformYouTube,
		Name:             "YouTube Views",
		PricePerThousand: dec("2.00"),
		MinQuantity:      500,
		MaxQuantity:      100000,
		IsActive:         1,
	}
	if err := e.store.Services().Create(context.Background(), svc); err != nil {
		t.Fatalf("create service: %v", err)
	}

	o, err := e.orderSvc.Place(context.Background(), u.ID, order.PlaceRequest{
		ServiceID:     svc.ID,
		TargetLink:    "https://youtube.com/watch?v=abc",
		Quantity:      5000,
		ConsentAgreed: true,
	}, "203.0.113.9")
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	return o
}

func TestGenerateAPIKeyEnablesAccess(t *testing.T) {
	e := newEnv(t)
	u := e.addUser(t, "0.00")

	key, err := e.svc.GenerateAPIKey(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(key) < 10 || key[:3] != "rb_" {
		t.Errorf("key = %q", key)
	}

	found, err := e.store.Users().GetByAPIKey(context.Background(), key)
	if err != nil {
		t.Fatalf("lookup by key: %v", err)
	}
	if found.ID != u.ID {
		t.Errorf("key resolves to %s, want %s", found.ID, u.ID)
	}

	if _, err := e.svc.GenerateAPIKey(context.Background(), uuid.New()); !errors.Is(err, user.ErrNotFound) {
		t.Errorf("unknown user err = %v, want ErrNotFound", err)
	}
}

func TestSetOrderStatusRefundPathCreditsWallet(t *testing.T) {
	e := newEnv(t)
	u := e.addUser(t, "50.00")
	o := e.placeOrder(t, u) // 5000 at 2.00/k = 10.00

	after, _ := e.store.Users().GetByID(context.Background(), u.ID)
	if !after.WalletBalance.Equal(dec("40.00")) {
		t.Fatalf("balance after order = %s, want 40.00", after.WalletBalance)
	}

	refunded, err := e.svc.SetOrderStatus(context.Background(), o.ID, order.StatusRefunded)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if refunded.Status != order.StatusRefunded {
		t.Errorf("status = %s", refunded.Status)
	}

	after, _ = e.store.Users().GetByID(context.Background(), u.ID)
	if !after.WalletBalance.Equal(dec("50.00")) {
		t.Errorf("balance after refund = %s, want 50.00", after.WalletBalance)
	}

	// Refunded is terminal for the override path too
	if _, err := e.svc.SetOrderStatus(context.Background(), o.ID, order.StatusCompleted); !errors.Is(err, order.ErrNotFound) {
		t.Errorf("override after refund err = %v, want ErrNotFound", err)
	}
}

func TestDashboardAggregates(t *testing.T) {
	e := newEnv(t)
	u := e.addUser(t, "50.00")
	e.placeOrder(t, u)

	walletSvc := wallet.NewService(e.store.Wallet(), nil)
	if _, err := walletSvc.SubmitProof(context.Background(), u.ID, dec("25.00"), "UTR1", ""); err != nil {
		t.Fatalf("submit proof: %v", err)
	}

	stats, err := e.svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalUsers != 1 {
		t.Errorf("users = %d, want 1", stats.TotalUsers)
	}
	if stats.TotalOrders != 1 {
		t.Errorf("orders = %d, want 1", stats.TotalOrders)
	}
	if !stats.TotalRevenue.Equal(dec("10.00")) {
		t.Errorf("revenue = %s, want 10.00", stats.TotalRevenue)
	}
	if stats.OrdersByStatus["pending"] != 1 {
		t.Errorf("orders by status = %+v", stats.OrdersByStatus)
	}
	if stats.PendingProofs != 1 {
		t.Errorf("pending proofs = %d, want 1", stats.PendingProofs)
	}
	if stats.ActiveServices != 1 {
		t.Errorf("active services = %d, want 1", stats.ActiveServices)
	}
}
