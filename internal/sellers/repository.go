package sellers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
)

// Repository defines persistence operations over seller accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Seller, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Seller, error)
	FindByWhatsapp(ctx context.Context, whatsapp string) (*models.Seller, error)
	Create(ctx context.Context, seller *models.Seller) (*models.Seller, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a sellers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Seller, error) {
	var seller models.Seller
	if err := r.db.WithContext(ctx).First(&seller, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &seller, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Seller, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var sellers []models.Seller
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&sellers).Error
	if err != nil {
		return nil, err
	}
	return sellers, nil
}

func (r *repository) FindByWhatsapp(ctx context.Context, whatsapp string) (*models.Seller, error) {
	var seller models.Seller
	if err := r.db.WithContext(ctx).First(&seller, "whatsapp = ?", whatsapp).Error; err != nil {
		return nil, err
	}
	return &seller, nil
}

func (r *repository) Create(ctx context.Context, seller *models.Seller) (*models.Seller, error) {
	if err := r.db.WithContext(ctx).Create(seller).Error; err != nil {
		return nil, err
	}
	return seller, nil
}

func (r *repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.Seller{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}
