package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem snapshots one cart line at order creation. Price and
// quantity are immutable afterwards; the referenced product may later be
// deleted or repriced without touching historical lines.
type OrderLineItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Name      string    `gorm:"column:name;not null"`
	Image     *string   `gorm:"column:image"`
	Qty       int       `gorm:"column:qty;not null"`
	UnitPrice int64     `gorm:"column:unit_price;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// LineTotal is the frozen unit price times quantity.
func (l OrderLineItem) LineTotal() int64 {
	return l.UnitPrice * int64(l.Qty)
}
