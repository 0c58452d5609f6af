package payloads

import "github.com/google/uuid"

// OrderCreatedEvent is emitted once per materialized order at checkout.
type OrderCreatedEvent struct {
	OrderID     uuid.UUID          `json:"order_id"`
	BuyerID     uuid.UUID          `json:"buyer_id"`
	SellerID    uuid.UUID          `json:"seller_id"`
	TotalAmount int64              `json:"total_amount"`
	ItemCount   int                `json:"item_count"`
	Lines       []OrderLineSummary `json:"lines"`
}

// OrderLineSummary carries the minimum a consumer needs to render an email.
type OrderLineSummary struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Qty       int       `json:"qty"`
	UnitPrice int64     `json:"unit_price"`
}

// OrderStatusChangedEvent is emitted only when the status value changed.
type OrderStatusChangedEvent struct {
	OrderID        uuid.UUID          `json:"order_id"`
	BuyerID        uuid.UUID          `json:"buyer_id"`
	SellerID       uuid.UUID          `json:"seller_id"`
	PreviousStatus string             `json:"previous_status"`
	NewStatus      string             `json:"new_status"`
	Delivered      bool               `json:"delivered"`
	Lines          []OrderLineSummary `json:"lines"`
}

// ProductLowStockEvent fires when a delivery decrement lands a product's
// stock on exactly the configured threshold.
type ProductLowStockEvent struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	SellerID    uuid.UUID `json:"seller_id"`
	Stock       int       `json:"stock"`
	Threshold   int       `json:"threshold"`
}
