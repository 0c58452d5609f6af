package models

import (
	"time"

	"github.com/google/uuid"
)

// PickupPoint is a physical collection location managed by platform staff.
type PickupPoint struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	City      string    `gorm:"column:city;not null"`
	Address   string    `gorm:"column:address;not null"`
	Phone     *string   `gorm:"column:phone"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
