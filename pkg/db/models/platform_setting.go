package models

import "time"

// PlatformSetting is a key-value row for platform-wide configuration, such
// as the default shipping price applied when a seller has none configured.
type PlatformSetting struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// SettingDefaultShippingPrice keys the global shipping fallback (XAF).
const SettingDefaultShippingPrice = "default_shipping_price"
