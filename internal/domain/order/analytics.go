package order

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserAnalytics aggregates a user's purchase history for the dashboard
type UserAnalytics struct {
	TotalOrders     int                  `json:"total_orders"`
	TotalSpent      decimal.Decimal      `json:"total_spent"`
	OrdersByStatus  map[string]int       `json:"orders_by_status"`
	PopularServices []PopularService     `json:"popular_services"`
	SpendingTrend   []SpendingTrendPoint `json:"spending_trend"`
}

// PopularService is a service ranked by the user's order count
type PopularService struct {
	ServiceID uuid.UUID `json:"service_id"`
	Name      string    `json:"name"`
	Count     int       `json:"count"`
}

// SpendingTrendPoint is one day of the 30-day spending series
type SpendingTrendPoint struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// Analytics computes the caller's order aggregates on read. Refunded
// orders count toward order totals but not toward spend.
func (s *Service) Analytics(ctx context.Context, userID uuid.UUID) (*UserAnalytics, error) {
	orders, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	services, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(services))
	for _, svc := range services {
		names[svc.ID] = svc.Name
	}

	out := &UserAnalytics{
		TotalOrders:    len(orders),
		TotalSpent:     decimal.Zero,
		OrdersByStatus: map[string]int{},
	}

	counts := make(map[uuid.UUID]int)
	trendStart := time.Now().AddDate(0, 0, -30)
	byDay := make(map[string]decimal.Decimal)

	for _, o := range orders {
		out.OrdersByStatus[string(o.Status)]++
		counts[o.ServiceID]++
		if o.Status == StatusRefunded {
			continue
		}
		out.TotalSpent = out.TotalSpent.Add(o.Amount)
		if o.CreatedAt.After(trendStart) {
			day := o.CreatedAt.Format("2006-01-02")
			byDay[day] = byDay[day].Add(o.Amount)
		}
	}

	for id, n := range counts {
		out.PopularServices = append(out.PopularServices, PopularService{
			ServiceID: id,
			Name:      names[id],
			Count:     n,
		})
	}
	sort.Slice(out.PopularServices, func(i, j int) bool {
		if out.PopularServices[i].Count != out.PopularServices[j].Count {
			return out.PopularServices[i].Count > out.PopularServices[j].Count
		}
		return out.PopularServices[i].Name < out.PopularServices[j].Name
	})
	if len(out.PopularServices) > 5 {
		out.PopularServices = out.PopularServices[:5]
	}

	for day, amount := range byDay {
		out.SpendingTrend = append(out.SpendingTrend, SpendingTrendPoint{Date: day, Amount: amount})
	}
	sort.Slice(out.SpendingTrend, func(i, j int) bool {
		return out.SpendingTrend[i].Date < out.SpendingTrend[j].Date
	})

	return out, nil
}
