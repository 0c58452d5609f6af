package orders

import (
	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	"github.com/nengoo-market/nengoo-backend/pkg/enums"
)

// ListFilters describe the inputs supported by the order lists.
type ListFilters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// Stats aggregates platform-wide order figures for the admin dashboard.
type Stats struct {
	TotalOrders     int64            `json:"total_orders"`
	TotalRevenue    int64            `json:"total_revenue"`
	DeliveredOrders int64            `json:"delivered_orders"`
	PendingOrders   int64            `json:"pending_orders"`
	CancelledOrders int64            `json:"cancelled_orders"`
	OrdersByStatus  map[string]int64 `json:"orders_by_status"`
}

// UpdateInput is the partial lifecycle update accepted by the controller.
// Nil fields are left untouched.
type UpdateInput struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	PickupStatus  *enums.PickupStatus
}

// IsEmpty reports whether the update carries no fields at all.
func (u UpdateInput) IsEmpty() bool {
	return u.Status == nil && u.PaymentStatus == nil && u.PickupStatus == nil
}
