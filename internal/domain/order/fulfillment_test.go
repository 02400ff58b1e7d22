package order_test

import (
	"context"
	"testing"
	"time"

	"github.com/reelboost/reelboost-api/internal/domain/order"
)

func TestFulfillerAdvancesDueOrders(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, "100.00")
	svc := f.addService(t, "5.00", 100, 10000)

	o, err := f.svc.Place(context.Background(), u.ID, placeReq(svc, 1000), "203.0.113.7")
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	fulfiller := order.NewFulfiller(f.store.Orders(), nil, order.FulfillerConfig{
		Interval:        time.Millisecond,
		ProcessingDelay: time.Hour,
		CompletionDelay: time.Hour,
	})

	// Delay not reached: the order stays pending
	fulfiller.Tick(context.Background())
	got, _ := f.store.Orders().GetByID(context.Background(), o.ID)
	if got.Status != order.StatusPending {
		t.Fatalf("status = %s, want pending", got.Status)
	}

	// Zero delays: pending advances to processing, then to completed
	fulfiller = order.NewFulfiller(f.store.Orders(), nil, order.FulfillerConfig{
		Interval:        time.Millisecond,
		ProcessingDelay: 0,
		CompletionDelay: 0,
	})
	fulfiller.Tick(context.Background())
	got, _ = f.store.Orders().GetByID(context.Background(), o.ID)
	if got.Status != order.StatusProcessing {
		t.Fatalf("status = %s, want processing", got.Status)
	}

	fulfiller.Tick(context.Background())
	got, _ = f.store.Orders().GetByID(context.Background(), o.ID)
	if got.Status != order.StatusCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}
}

func TestFulfillerSkipsTerminalStates(t *testing.T) {
	f := newFixture(t)
	store := f.store
	u := f.addUser(t, "100.00")
	svc := f.addService(t, "5.00", 100, 10000)

	o, err := f.svc.Place(context.Background(), u.ID, placeReq(svc, 1000), "203.0.113.7")
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if _, err := store.Orders().Refund(context.Background(), o.ID); err != nil {
		t.Fatalf("refund: %v", err)
	}

	fulfiller := order.NewFulfiller(store.Orders(), nil, order.FulfillerConfig{
		Interval: time.Millisecond,
	})
	fulfiller.Tick(context.Background())

	got, _ := store.Orders().GetByID(context.Background(), o.ID)
	if got.Status != order.StatusRefunded {
		t.Fatalf("status = %s, want refunded", got.Status)
	}
}
