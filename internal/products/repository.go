package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	"github.com/nengoo-market/nengoo-backend/pkg/pagination"
)

// Repository defines persistence operations over product listings, including
// the atomic stock mutations used by the order lifecycle.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductList, error)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (int, error)
	IncrementStock(ctx context.Context, id uuid.UUID, qty int) (int, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("status IN ?", sellableStatuses())

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.SellerID != nil {
		query = query.Where("seller_id = ?", *filters.SellerID)
	}
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("name ILIKE ?", pattern)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Product
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &ProductList{}
	if len(rows) > limit {
		last := rows[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		rows = rows[:limit]
	}
	list.Products = rows
	return list, nil
}

// DecrementStock atomically subtracts qty without driving stock below zero,
// then re-reads the resulting value. A decrement larger than the remaining
// stock clamps to zero rather than failing the lifecycle update.
func (r *repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (int, error) {
	if qty <= 0 {
		return r.readStock(ctx, id)
	}

	tx := r.db.WithContext(ctx)
	res := tx.Exec(`
		UPDATE products
		SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?
	`, qty, id, qty)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		clamp := tx.Exec(`
			UPDATE products
			SET stock = 0, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, id)
		if clamp.Error != nil {
			return 0, clamp.Error
		}
		if clamp.RowsAffected == 0 {
			return 0, gorm.ErrRecordNotFound
		}
	}

	return r.readStock(ctx, id)
}

// IncrementStock atomically adds qty back and re-reads the resulting value.
func (r *repository) IncrementStock(ctx context.Context, id uuid.UUID, qty int) (int, error) {
	if qty <= 0 {
		return r.readStock(ctx, id)
	}

	res := r.db.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, id)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	return r.readStock(ctx, id)
}

func (r *repository) readStock(ctx context.Context, id uuid.UUID) (int, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Select("stock").
		First(&product, "id = ?", id).Error
	if err != nil {
		return 0, err
	}
	return product.Stock, nil
}
