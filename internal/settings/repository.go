package settings

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
)

// Repository reads platform-wide key-value settings.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	DefaultShippingPrice(ctx context.Context, fallback int64) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, key string) (string, error) {
	var setting models.PlatformSetting
	if err := r.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		return "", err
	}
	return setting.Value, nil
}

// DefaultShippingPrice resolves the platform shipping fallback. A missing or
// malformed row falls back to the configured default rather than failing
// checkout.
func (r *repository) DefaultShippingPrice(ctx context.Context, fallback int64) (int64, error) {
	value, err := r.Get(ctx, models.SettingDefaultShippingPrice)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fallback, nil
		}
		return 0, err
	}
	price, err := strconv.ParseInt(value, 10, 64)
	if err != nil || price < 0 {
		return fallback, nil
	}
	return price, nil
}
