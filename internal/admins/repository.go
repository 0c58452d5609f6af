package admins

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	"github.com/nengoo-market/nengoo-backend/pkg/enums"
)

// Repository defines persistence operations over platform staff accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	ListActiveSuperAdmins(ctx context.Context) ([]models.Admin, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an admins repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *repository) ListActiveSuperAdmins(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	err := r.db.WithContext(ctx).
		Where("role = ? AND active = ?", enums.ActorRoleSuperAdmin, true).
		Find(&admins).Error
	if err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}
