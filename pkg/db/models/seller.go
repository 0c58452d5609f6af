package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/nengoo-market/nengoo-backend/pkg/enums"
)

// Seller is a registered vendor. DeliveryPrice is a pointer because an
// explicit zero (free delivery) is meaningfully different from unset.
type Seller struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Whatsapp      string              `gorm:"column:whatsapp;not null;uniqueIndex"`
	Name          string              `gorm:"column:name;not null"`
	BusinessName  string              `gorm:"column:business_name;not null"`
	Email         string              `gorm:"column:email;not null"`
	City          *string             `gorm:"column:city"`
	Region        *string             `gorm:"column:region"`
	Categories    pq.StringArray      `gorm:"column:categories;type:text[];not null;default:ARRAY[]::text[]"`
	Status        enums.AccountStatus `gorm:"column:status;not null;default:'pending'"`
	DeliveryPrice *int64              `gorm:"column:delivery_price"`
	PasswordHash  string              `gorm:"column:password_hash;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
