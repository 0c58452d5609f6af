package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nengoo-market/nengoo-backend/pkg/enums"
)

// Buyer is a customer account. The phone number doubles as the guest
// checkout identity key, so PasswordHash stays empty for provisioned guests.
type Buyer struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Phone        string              `gorm:"column:phone;not null;uniqueIndex"`
	Name         string              `gorm:"column:name;not null"`
	Email        *string             `gorm:"column:email"`
	City         *string             `gorm:"column:city"`
	Status       enums.AccountStatus `gorm:"column:status;not null;default:'active'"`
	PasswordHash *string             `gorm:"column:password_hash"`
	TotalOrders  int                 `gorm:"column:total_orders;not null;default:0"`
	TotalSpent   int64               `gorm:"column:total_spent;not null;default:0"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
