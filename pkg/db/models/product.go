package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/nengoo-market/nengoo-backend/pkg/enums"
)

// Product is a seller listing. SellerName is denormalized at write time so
// catalog reads avoid a join. Stock is only mutated through the atomic
// repository helpers and never goes below zero.
type Product struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID    uuid.UUID           `gorm:"column:seller_id;type:uuid;not null"`
	SellerName  string              `gorm:"column:seller_name;not null"`
	Name        string              `gorm:"column:name;not null"`
	Description *string             `gorm:"column:description"`
	Category    string              `gorm:"column:category;not null"`
	Price       int64               `gorm:"column:price;not null"`
	PromoPrice  *int64              `gorm:"column:promo_price"`
	OldPrice    *int64              `gorm:"column:old_price"`
	Stock       int                 `gorm:"column:stock;not null;default:0"`
	Status      enums.ProductStatus `gorm:"column:status;not null;default:'pending'"`
	Images      pq.StringArray      `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePrice resolves the unit price used at checkout: the promotional
// price wins when present and positive.
func (p Product) EffectivePrice() int64 {
	if p.PromoPrice != nil && *p.PromoPrice > 0 {
		return *p.PromoPrice
	}
	return p.Price
}

// FirstImage returns the lead image URL, if any.
func (p Product) FirstImage() *string {
	if len(p.Images) == 0 {
		return nil
	}
	img := p.Images[0]
	return &img
}
