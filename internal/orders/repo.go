package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	"github.com/nengoo-market/nengoo-backend/pkg/enums"
	"github.com/nengoo-market/nengoo-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListForBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error) {
	return r.list(ctx, "buyer_id = ?", buyerID, params, filters)
}

func (r *repository) ListForSeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error) {
	return r.list(ctx, "seller_id = ?", sellerID, params, filters)
}

func (r *repository) list(ctx context.Context, ownerClause string, ownerID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Items").
		Where(ownerClause, ownerID)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filters.PaymentStatus)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &OrderList{}
	if len(rows) > limit {
		last := rows[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		rows = rows[:limit]
	}
	list.Orders = rows
	return list, nil
}

// UpdateVersioned applies updates only when the stored version still matches,
// bumping the version in the same statement. Returns false when another
// writer got there first.
func (r *repository) UpdateVersioned(ctx context.Context, id uuid.UUID, version int, updates map[string]any) (bool, error) {
	if len(updates) == 0 {
		return true, nil
	}
	merged := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		merged[k] = v
	}
	merged["version"] = gorm.Expr("version + 1")

	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND version = ?", id, version).
		Updates(merged)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{OrdersByStatus: map[string]int64{}}

	type statusRow struct {
		Status string
		Count  int64
	}
	var rows []statusRow
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.OrdersByStatus[row.Status] = row.Count
		stats.TotalOrders += row.Count
	}
	stats.DeliveredOrders = stats.OrdersByStatus[string(enums.OrderStatusDelivered)]
	stats.PendingOrders = stats.OrdersByStatus[string(enums.OrderStatusPending)]
	stats.CancelledOrders = stats.OrdersByStatus[string(enums.OrderStatusCancelled)]

	var revenue *int64
	err = r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("SUM(total_amount)").
		Where("status <> ?", enums.OrderStatusCancelled).
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	if revenue != nil {
		stats.TotalRevenue = *revenue
	}
	return stats, nil
}
