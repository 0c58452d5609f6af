package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nengoo-market/nengoo-backend/pkg/enums"
)

// Order is always single-seller by construction: checkout materializes one
// order per seller group. Buyer and seller names are frozen at creation, as
// are all line prices. Version guards concurrent lifecycle updates.
type Order struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID        uuid.UUID            `gorm:"column:buyer_id;type:uuid;not null"`
	BuyerName      string               `gorm:"column:buyer_name;not null"`
	BuyerPhone     string               `gorm:"column:buyer_phone;not null"`
	SellerID       uuid.UUID            `gorm:"column:seller_id;type:uuid;not null"`
	SellerName     string               `gorm:"column:seller_name;not null"`
	ShippingFee    int64                `gorm:"column:shipping_fee;not null;default:0"`
	TotalAmount    int64                `gorm:"column:total_amount;not null"`
	Status         enums.OrderStatus    `gorm:"column:status;not null;default:'pending'"`
	PaymentStatus  enums.PaymentStatus  `gorm:"column:payment_status;not null;default:'unpaid'"`
	PaymentMethod  enums.PaymentMethod  `gorm:"column:payment_method;not null"`
	DeliveryOption enums.DeliveryOption `gorm:"column:delivery_option;not null"`
	PickupPointID  *uuid.UUID           `gorm:"column:pickup_point_id;type:uuid"`
	PickupStatus   enums.PickupStatus   `gorm:"column:pickup_status;not null;default:'not_applicable'"`
	Version        int                  `gorm:"column:version;not null;default:0"`
	OrderedAt      time.Time            `gorm:"column:ordered_at;not null"`
	Items          []OrderLineItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
