package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nengoo-market/nengoo-backend/pkg/enums"
)

// Admin is a platform staff account (support or super admin).
type Admin struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string          `gorm:"column:email;not null;uniqueIndex"`
	Name         string          `gorm:"column:name;not null"`
	Role         enums.ActorRole `gorm:"column:role;not null;default:'support'"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	Active       bool            `gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
