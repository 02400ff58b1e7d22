package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reelboost/reelboost-api/internal/domain/catalog"
	"github.com/reelboost/reelboost-api/internal/store/memory"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newManager(t *testing.T) *catalog.Manager {
	t.Helper()
	store := memory.NewStore()
	// nil redis client: cache is a read-through no-op
	return catalog.NewManager(store.Services(), catalog.NewCache(nil, 0))
}

func item(name string, active int) *catalog.Service {
	return &catalog.Service{
		ID:               uuid.New(),
		Platform:         catalog.PlatformInstagram,
		Name:             name,
		PricePerThousand: dec("5.00"),
		MinQuantity:      100,
		MaxQuantity:      10000,
		IsActive:         active,
	}
}

func TestListActiveFiltersInactive(t *testing.T) {
	mgr := newManager(t)

	if err := mgr.Create(context.Background(), item("Active Followers", 1)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mgr.Create(context.Background(), item("Retired Followers", 0)); err != nil {
		t.Fatalf("create: %v", err)
	}

	active, err := mgr.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Active Followers" {
		t.Fatalf("active = %+v", active)
	}

	all, err := mgr.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all = %d, want 2", len(all))
	}
}

func TestCreateValidation(t *testing.T) {
	mgr := newManager(t)

	bad := item("Bad Quantities", 1)
	bad.MinQuantity = 1000
	bad.MaxQuantity = 100
	if err := mgr.Create(context.Background(), bad); !errors.Is(err, catalog.ErrInvalidQuantity) {
		t.Errorf("err = %v, want ErrInvalidQuantity", err)
	}

	free := item("Free Followers", 1)
	free.PricePerThousand = decimal.Zero
	if err := mgr.Create(context.Background(), free); !errors.Is(err, catalog.ErrInvalidPrice) {
		t.Errorf("err = %v, want ErrInvalidPrice", err)
	}
}

func TestPriceRounding(t *testing.T) {
	svc := item("Priced", 1)
	svc.PricePerThousand = dec("1.99")

	cases := []struct {
		quantity int
		want     string
	}{
		{1000, "1.99"},
		{500, "1.00"},  // 0.995 rounds up
		{100, "0.20"},  // 0.199 rounds up
		{2500, "4.98"}, // 4.975 rounds up
	}
	for _, tc := range cases {
		if got := svc.Price(tc.quantity); !got.Equal(dec(tc.want)) {
			t.Errorf("Price(%d) = %s, want %s", tc.quantity, got, tc.want)
		}
	}
}

func TestUpdateMissingService(t *testing.T) {
	mgr := newManager(t)
	if err := mgr.Update(context.Background(), item("Ghost", 1)); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
