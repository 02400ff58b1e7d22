package reseller_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reelboost/reelboost-api/internal/domain/catalog"
	"github.com/reelboost/reelboost-api/internal/domain/order"
	"github.com/reelboost/reelboost-api/internal/domain/reseller"
	"github.com/reelboost/reelboost-api/internal/domain/user"
	"github.com/reelboost/reelboost-api/internal/store/memory"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func setup(t *testing.T) (*memory.Store, http.Handler, *user.User) {
	t.Helper()
	store := memory.NewStore()

	account := &user.User{
		ID:             uuid.New(),
		Email:          "reseller@example.com",
		Role:           user.RoleReseller,
		WalletBalance:  dec("100.00"),
		ReferralCode:   "RESELL01",
		APIKey:         sql.NullString{String: "rb_testkey", Valid: true},
		APIKeyEnabled:  1,
		ResellerMarkup: dec("20"),
	}
	if err := store.Users().Create(context.Background(), account); err != nil {
		t.Fatalf("create account: %v", err)
	}

	svc := &catalog.Service{
		ID:               uuid.New(),
		Platform:         catalog.PlatformInstagram,
		Name:             "Instagram Followers",
		PricePerThousand: dec("5.00"),
		MinQuantity:      100,
		MaxQuantity:      10000,
		IsActive:         1,
	}
	if err := store.Services().Create(context.Background(), svc); err != nil {
		t.Fatalf("create service: %v", err)
	}

	catalogMgr := catalog.NewManager(store.Services(), catalog.NewCache(nil, 0))
	orderSvc := order.NewService(store.Orders(), store.Services(), nil, order.Config{
		ConsentVersion: "v1.0",
		CommissionRate: dec("0.10"),
	})
	handler := reseller.NewHandler(catalogMgr, orderSvc, store.Users())
	return store, handler.Routes(), account
}

func TestAPIKeyRequired(t *testing.T) {
	_, router, _ := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/services", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/services", nil)
	req.Header.Set("X-API-Key", "rb_wrong")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad key: status = %d, want 401", rec.Code)
	}
}

func TestServicesCarryMarkup(t *testing.T) {
	_, router, _ := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/services", nil)
	req.Header.Set("X-API-Key", "rb_testkey")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data []struct {
			PricePerThousand decimal.Decimal `json:"price_per_thousand"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("services = %d, want 1", len(envelope.Data))
	}
	// 5.00 base with 20% markup
	if !envelope.Data[0].PricePerThousand.Equal(dec("6.00")) {
		t.Errorf("price = %s, want 6.00", envelope.Data[0].PricePerThousand)
	}
}

func TestPlaceOrderChargesMarkedUpPrice(t *testing.T) {
	store, router, account := setup(t)

	services, _ := store.Services().ListActive(context.Background())
	body := `{"service_id":"` + services[0].ID.String() + `","target_link":"https://instagram.com/p/x","quantity":1000}`

	req := httptest.NewRequest(http.MethodPost, "/order", strings.NewReader(body))
	req.Header.Set("X-API-Key", "rb_testkey")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	after, _ := store.Users().GetByID(context.Background(), account.ID)
	// 1000 units at the 6.00 marked-up rate
	if !after.WalletBalance.Equal(dec("94.00")) {
		t.Errorf("balance = %s, want 94.00", after.WalletBalance)
	}
}
