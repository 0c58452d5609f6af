package pickup

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
)

// Repository exposes persistence helpers for pickup points.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.PickupPoint, error)
	ListActive(ctx context.Context, city string) ([]models.PickupPoint, error)
	Create(ctx context.Context, point *models.PickupPoint) (*models.PickupPoint, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a pickup point repository bound to the database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PickupPoint, error) {
	var point models.PickupPoint
	if err := r.db.WithContext(ctx).First(&point, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &point, nil
}

func (r *repository) ListActive(ctx context.Context, city string) ([]models.PickupPoint, error) {
	query := r.db.WithContext(ctx).Where("active = TRUE")
	if city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}

	var points []models.PickupPoint
	if err := query.Order("city ASC, name ASC").Find(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}

func (r *repository) Create(ctx context.Context, point *models.PickupPoint) (*models.PickupPoint, error) {
	if err := r.db.WithContext(ctx).Create(point).Error; err != nil {
		return nil, err
	}
	return point, nil
}

func (r *repository) SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PickupPoint{}).
		Where("id = ?", id).
		Update("active", active)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
