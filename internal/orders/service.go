package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nengoo-market/nengoo-backend/internal/products"
	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	"github.com/nengoo-market/nengoo-backend/pkg/enums"
	pkgerrors "github.com/nengoo-market/nengoo-backend/pkg/errors"
	"github.com/nengoo-market/nengoo-backend/pkg/metrics"
	"github.com/nengoo-market/nengoo-backend/pkg/outbox"
	"github.com/nengoo-market/nengoo-backend/pkg/outbox/payloads"
	"github.com/nengoo-market/nengoo-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Actor identifies the authenticated caller of a lifecycle operation.
type Actor struct {
	ID   uuid.UUID
	Role enums.ActorRole
}

// Service exposes order reads and the lifecycle update.
type Service interface {
	Update(ctx context.Context, actor Actor, orderID uuid.UUID, input UpdateInput) (*UpdateResult, error)
	Get(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, actor Actor, params pagination.Params, filters ListFilters) (*OrderList, error)
}

// UpdateResult carries the reloaded order plus what the update changed, so
// callers never need a racy pre-read to learn the prior status.
type UpdateResult struct {
	Order          *models.Order
	PreviousStatus enums.OrderStatus
	StatusChanged  bool
}

type service struct {
	repo              Repository
	productRepo       products.Repository
	tx                txRunner
	outbox            outboxPublisher
	metrics           *metrics.OrderMetrics
	lowStockThreshold int
}

// NewService builds an orders service with the required dependencies.
// Metrics may be nil; recording is skipped.
func NewService(
	repo Repository,
	productRepo products.Repository,
	tx txRunner,
	publisher outboxPublisher,
	orderMetrics *metrics.OrderMetrics,
	lowStockThreshold int,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if lowStockThreshold <= 0 {
		lowStockThreshold = 3
	}
	return &service{
		repo:              repo,
		productRepo:       productRepo,
		tx:                tx,
		outbox:            publisher,
		metrics:           orderMetrics,
		lowStockThreshold: lowStockThreshold,
	}, nil
}

// Update applies a partial lifecycle update. Stock side effects run only when
// the status value actually changes, and only after the version-checked write
// succeeds, so a double-submitted update cannot decrement twice.
func (s *service) Update(ctx context.Context, actor Actor, orderID uuid.UUID, input UpdateInput) (*UpdateResult, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "update body is empty")
	}
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	var result *UpdateResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if err := authorizeOrderWrite(actor, order); err != nil {
			return err
		}

		statusChanged := input.Status != nil && *input.Status != order.Status
		previousStatus := order.Status

		updates := map[string]any{}
		if statusChanged {
			updates["status"] = *input.Status
		}
		if input.PaymentStatus != nil && *input.PaymentStatus != order.PaymentStatus {
			updates["payment_status"] = *input.PaymentStatus
		}
		if input.PickupStatus != nil && *input.PickupStatus != order.PickupStatus {
			updates["pickup_status"] = *input.PickupStatus
		}

		if len(updates) == 0 {
			// Same-value update: succeeds with no side effects.
			result = &UpdateResult{Order: order, PreviousStatus: order.Status}
			return nil
		}

		ok, err := repo.UpdateVersioned(ctx, order.ID, order.Version, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order was modified concurrently")
		}

		if statusChanged {
			if err := s.applyStockEffects(ctx, tx, productRepo, order, *input.Status); err != nil {
				return err
			}
			if err := s.emitStatusChanged(ctx, tx, actor, order, previousStatus, *input.Status); err != nil {
				return err
			}
		}

		updated, err := repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		result = &UpdateResult{
			Order:          updated,
			PreviousStatus: previousStatus,
			StatusChanged:  statusChanged,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyStockEffects decrements each line's product stock on a transition to
// delivered, and restocks on a transition away from delivered. After each
// decrement the product's stock is re-read; landing on exactly the threshold
// fires a low stock event.
func (s *service) applyStockEffects(
	ctx context.Context,
	tx *gorm.DB,
	productRepo products.Repository,
	order *models.Order,
	newStatus enums.OrderStatus,
) error {
	switch {
	case newStatus == enums.OrderStatusDelivered:
		for _, item := range order.Items {
			stock, err := productRepo.DecrementStock(ctx, item.ProductID, item.Qty)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					// Product deleted since ordering; nothing to decrement.
					continue
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if stock == s.lowStockThreshold {
				if err := s.emitLowStock(ctx, tx, productRepo, item, stock); err != nil {
					return err
				}
			}
		}
	case order.Status == enums.OrderStatusDelivered:
		for _, item := range order.Items {
			if _, err := productRepo.IncrementStock(ctx, item.ProductID, item.Qty); err != nil {
				if err == gorm.ErrRecordNotFound {
					continue
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restock")
			}
		}
	}
	return nil
}

func (s *service) emitLowStock(
	ctx context.Context,
	tx *gorm.DB,
	productRepo products.Repository,
	item models.OrderLineItem,
	stock int,
) error {
	product, err := productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product for low stock alert")
	}
	event := outbox.DomainEvent{
		EventType:     enums.EventProductLowStock,
		AggregateType: enums.AggregateProduct,
		AggregateID:   product.ID,
		Version:       1,
		Data: payloads.ProductLowStockEvent{
			ProductID:   product.ID,
			ProductName: product.Name,
			SellerID:    product.SellerID,
			Stock:       stock,
			Threshold:   s.lowStockThreshold,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return err
	}
	s.metrics.IncLowStockAlert()
	return nil
}

func (s *service) emitStatusChanged(
	ctx context.Context,
	tx *gorm.DB,
	actor Actor,
	order *models.Order,
	previous, next enums.OrderStatus,
) error {
	lines := make([]payloads.OrderLineSummary, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, payloads.OrderLineSummary{
			ProductID: item.ProductID,
			Name:      item.Name,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
		})
	}
	event := outbox.DomainEvent{
		EventType:     enums.EventOrderStatusChanged,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Version:       1,
		Actor: &outbox.ActorRef{
			ActorID: actor.ID,
			Role:    actor.Role,
		},
		Data: payloads.OrderStatusChangedEvent{
			OrderID:        order.ID,
			BuyerID:        order.BuyerID,
			SellerID:       order.SellerID,
			PreviousStatus: string(previous),
			NewStatus:      string(next),
			Delivered:      next == enums.OrderStatusDelivered,
			Lines:          lines,
		},
	}
	return s.outbox.Emit(ctx, tx, event)
}

func (s *service) Get(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if err := authorizeOrderRead(actor, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) List(ctx context.Context, actor Actor, params pagination.Params, filters ListFilters) (*OrderList, error) {
	if actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	var (
		list *OrderList
		err  error
	)
	switch actor.Role {
	case enums.ActorRoleBuyer:
		list, err = s.repo.ListForBuyer(ctx, actor.ID, params, filters)
	case enums.ActorRoleSeller:
		list, err = s.repo.ListForSeller(ctx, actor.ID, params, filters)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot list orders")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func authorizeOrderWrite(actor Actor, order *models.Order) error {
	if actor.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if actor.Role.IsSupportOrHigher() {
		return nil
	}
	if actor.Role == enums.ActorRoleSeller && actor.ID == order.SellerID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "caller may not update this order")
}

func authorizeOrderRead(actor Actor, order *models.Order) error {
	if actor.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if actor.Role.IsSupportOrHigher() {
		return nil
	}
	if actor.Role == enums.ActorRoleSeller && actor.ID == order.SellerID {
		return nil
	}
	if actor.Role == enums.ActorRoleBuyer && actor.ID == order.BuyerID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "caller may not view this order")
}

func validateUpdate(input UpdateInput) error {
	if input.Status != nil && !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if input.PaymentStatus != nil && !input.PaymentStatus.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}
	if input.PickupStatus != nil && !input.PickupStatus.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid pickup status")
	}
	return nil
}
