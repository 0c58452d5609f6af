package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	"github.com/nengoo-market/nengoo-backend/pkg/pagination"
)

// Repository defines persistence operations over orders and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListForBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error)
	ListForSeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error)
	UpdateVersioned(ctx context.Context, id uuid.UUID, version int, updates map[string]any) (bool, error)
	Stats(ctx context.Context) (*Stats, error)
}
