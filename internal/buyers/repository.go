package buyers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
)

// Repository defines persistence operations over buyer accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Buyer, error)
	FindByPhone(ctx context.Context, phone string) (*models.Buyer, error)
	Create(ctx context.Context, buyer *models.Buyer) (*models.Buyer, error)
	IncrementCounters(ctx context.Context, id uuid.UUID, orders int, spent int64) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a buyers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Buyer, error) {
	var buyer models.Buyer
	if err := r.db.WithContext(ctx).First(&buyer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (r *repository) FindByPhone(ctx context.Context, phone string) (*models.Buyer, error) {
	var buyer models.Buyer
	if err := r.db.WithContext(ctx).First(&buyer, "phone = ?", phone).Error; err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (r *repository) Create(ctx context.Context, buyer *models.Buyer) (*models.Buyer, error) {
	if err := r.db.WithContext(ctx).Create(buyer).Error; err != nil {
		return nil, err
	}
	return buyer, nil
}

// IncrementCounters bumps the aggregate order counters in one atomic update.
func (r *repository) IncrementCounters(ctx context.Context, id uuid.UUID, orders int, spent int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Buyer{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_orders": gorm.Expr("total_orders + ?", orders),
			"total_spent":  gorm.Expr("total_spent + ?", spent),
		}).Error
}

func (r *repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.Buyer{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}
