package admins

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nengoo-market/nengoo-backend/internal/orders"
	pkgerrors "github.com/nengoo-market/nengoo-backend/pkg/errors"
)

// Dashboard is the platform-wide summary served to the admin console.
type Dashboard struct {
	TotalOrders       int64            `json:"total_orders"`
	TotalRevenue      int64            `json:"total_revenue"`
	DeliveredOrders   int64            `json:"delivered_orders"`
	PendingOrders     int64            `json:"pending_orders"`
	CancelledOrders   int64            `json:"cancelled_orders"`
	OrdersByStatus    map[string]int64 `json:"orders_by_status"`
	AverageOrderValue string           `json:"average_order_value"`
	DeliveryRate      string           `json:"delivery_rate"`
}

type orderStatsSource interface {
	Stats(ctx context.Context) (*orders.Stats, error)
}

// StatsService aggregates order metrics for the admin dashboard.
type StatsService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type statsService struct {
	orders orderStatsSource
}

// NewStatsService builds the dashboard aggregation service.
func NewStatsService(source orderStatsSource) (StatsService, error) {
	if source == nil {
		return nil, fmt.Errorf("order stats source required")
	}
	return &statsService{orders: source}, nil
}

func (s *statsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	stats, err := s.orders.Stats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order stats")
	}

	dashboard := &Dashboard{
		TotalOrders:       stats.TotalOrders,
		TotalRevenue:      stats.TotalRevenue,
		DeliveredOrders:   stats.DeliveredOrders,
		PendingOrders:     stats.PendingOrders,
		CancelledOrders:   stats.CancelledOrders,
		OrdersByStatus:    stats.OrdersByStatus,
		AverageOrderValue: "0",
		DeliveryRate:      "0",
	}

	// Cancelled orders are excluded from revenue, so the average divides by
	// the billable order count.
	billable := stats.TotalOrders - stats.CancelledOrders
	if billable > 0 {
		average := decimal.NewFromInt(stats.TotalRevenue).
			Div(decimal.NewFromInt(billable)).
			Round(2)
		dashboard.AverageOrderValue = average.String()
	}
	if stats.TotalOrders > 0 {
		rate := decimal.NewFromInt(stats.DeliveredOrders).
			Div(decimal.NewFromInt(stats.TotalOrders)).
			Mul(decimal.NewFromInt(100)).
			Round(1)
		dashboard.DeliveryRate = rate.String()
	}
	return dashboard, nil
}
