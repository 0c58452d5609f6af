package admins

import (
	"context"
	"testing"

	"github.com/nengoo-market/nengoo-backend/internal/orders"
)

type stubStatsSource struct {
	stats *orders.Stats
}

func (s *stubStatsSource) Stats(ctx context.Context) (*orders.Stats, error) {
	return s.stats, nil
}

func TestDashboardComputesAverages(t *testing.T) {
	source := &stubStatsSource{stats: &orders.Stats{
		TotalOrders:     10,
		TotalRevenue:    94500,
		DeliveredOrders: 6,
		PendingOrders:   2,
		CancelledOrders: 3,
		OrdersByStatus:  map[string]int64{"delivered": 6, "pending": 2, "cancelled": 3},
	}}
	svc, err := NewStatsService(source)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dashboard, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	// 94500 XAF over 7 billable orders.
	if dashboard.AverageOrderValue != "13500" {
		t.Fatalf("expected average 13500, got %s", dashboard.AverageOrderValue)
	}
	if dashboard.DeliveryRate != "60" {
		t.Fatalf("expected delivery rate 60, got %s", dashboard.DeliveryRate)
	}
}

func TestDashboardHandlesEmptyPlatform(t *testing.T) {
	source := &stubStatsSource{stats: &orders.Stats{OrdersByStatus: map[string]int64{}}}
	svc, err := NewStatsService(source)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dashboard, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dashboard.AverageOrderValue != "0" || dashboard.DeliveryRate != "0" {
		t.Fatalf("expected zeroed ratios, got %+v", dashboard)
	}
}
