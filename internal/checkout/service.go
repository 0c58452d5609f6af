package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nengoo-market/nengoo-backend/internal/admins"
	"github.com/nengoo-market/nengoo-backend/internal/buyers"
	"github.com/nengoo-market/nengoo-backend/internal/orders"
	"github.com/nengoo-market/nengoo-backend/internal/products"
	"github.com/nengoo-market/nengoo-backend/internal/sellers"
	"github.com/nengoo-market/nengoo-backend/internal/settings"
	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	"github.com/nengoo-market/nengoo-backend/pkg/enums"
	pkgerrors "github.com/nengoo-market/nengoo-backend/pkg/errors"
	"github.com/nengoo-market/nengoo-backend/pkg/outbox"
	"github.com/nengoo-market/nengoo-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service converts a cart submission into one persisted order per seller.
type Service interface {
	Execute(ctx context.Context, input Input) ([]models.Order, error)
}

type service struct {
	tx              txRunner
	buyerRepo       buyers.Repository
	productRepo     products.Repository
	sellerRepo      sellers.Repository
	adminRepo       admins.Repository
	settingsRepo    settings.Repository
	orderRepo       orders.Repository
	outbox          outboxPublisher
	shippingDefault int64
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	buyerRepo buyers.Repository,
	productRepo products.Repository,
	sellerRepo sellers.Repository,
	adminRepo admins.Repository,
	settingsRepo settings.Repository,
	orderRepo orders.Repository,
	publisher outboxPublisher,
	shippingDefault int64,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if buyerRepo == nil {
		return nil, fmt.Errorf("buyers repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if sellerRepo == nil {
		return nil, fmt.Errorf("sellers repository required")
	}
	if adminRepo == nil {
		return nil, fmt.Errorf("admins repository required")
	}
	if settingsRepo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:              tx,
		buyerRepo:       buyerRepo,
		productRepo:     productRepo,
		sellerRepo:      sellerRepo,
		adminRepo:       adminRepo,
		settingsRepo:    settingsRepo,
		orderRepo:       orderRepo,
		outbox:          publisher,
		shippingDefault: shippingDefault,
	}, nil
}

func (s *service) Execute(ctx context.Context, input Input) ([]models.Order, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	defaultShipping, err := s.settingsRepo.DefaultShippingPrice(ctx, s.shippingDefault)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve default shipping price")
	}

	var created []models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		buyerRepo := s.buyerRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		sellerRepo := s.sellerRepo.WithTx(tx)
		adminRepo := s.adminRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		groups, err := partition(ctx, productRepo, sellerRepo, adminRepo, input.Lines)
		if err != nil {
			return err
		}

		buyer, err := s.resolveBuyer(ctx, buyerRepo, input.Contact)
		if err != nil {
			return err
		}

		now := time.Now()
		created = make([]models.Order, 0, len(groups))
		for _, group := range groups {
			order, err := s.materializeOrder(ctx, tx, orderRepo, buyerRepo, buyer, group, input, defaultShipping, now)
			if err != nil {
				return err
			}
			created = append(created, *order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// resolveBuyer looks the buyer up by phone, provisioning a minimal guest
// record when no account exists yet.
func (s *service) resolveBuyer(ctx context.Context, repo buyers.Repository, contact BuyerContact) (*models.Buyer, error) {
	buyer, err := repo.FindByPhone(ctx, contact.Phone)
	if err == nil {
		return buyer, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load buyer")
	}

	guest := &models.Buyer{
		Phone:  contact.Phone,
		Name:   contact.Name,
		Email:  contact.Email,
		City:   contact.City,
		Status: enums.AccountStatusActive,
	}
	createdBuyer, err := repo.Create(ctx, guest)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "provision guest buyer")
	}
	return createdBuyer, nil
}

func (s *service) materializeOrder(
	ctx context.Context,
	tx *gorm.DB,
	orderRepo orders.Repository,
	buyerRepo buyers.Repository,
	buyer *models.Buyer,
	group SellerGroup,
	input Input,
	defaultShipping int64,
	now time.Time,
) (*models.Order, error) {
	shipping := defaultShipping
	if group.DeliveryPrice != nil {
		// An explicit zero means the seller offers free delivery.
		shipping = *group.DeliveryPrice
	}

	subtotal := group.Subtotal()
	total := subtotal + shipping

	var pickupPointID *uuid.UUID
	if input.DeliveryOption == enums.DeliveryOptionPickup {
		pickupPointID = input.PickupPointID
	}

	items := make([]models.OrderLineItem, 0, len(group.Lines))
	for _, line := range group.Lines {
		items = append(items, models.OrderLineItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
		})
	}

	order := &models.Order{
		BuyerID:        buyer.ID,
		BuyerName:      buyer.Name,
		BuyerPhone:     buyer.Phone,
		SellerID:       group.SellerID,
		SellerName:     group.SellerName,
		ShippingFee:    shipping,
		TotalAmount:    total,
		Status:         enums.OrderStatusPending,
		PaymentStatus:  input.PaymentMethod.InitialPaymentStatus(),
		PaymentMethod:  input.PaymentMethod,
		DeliveryOption: input.DeliveryOption,
		PickupPointID:  pickupPointID,
		PickupStatus:   input.DeliveryOption.InitialPickupStatus(),
		OrderedAt:      now,
		Items:          items,
	}

	createdOrder, err := orderRepo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	if err := buyerRepo.IncrementCounters(ctx, buyer.ID, 1, total); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment buyer counters")
	}

	if err := s.emitOrderCreated(ctx, tx, createdOrder); err != nil {
		return nil, err
	}
	return createdOrder, nil
}

func (s *service) emitOrderCreated(ctx context.Context, tx *gorm.DB, order *models.Order) error {
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
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Version:       1,
		Actor: &outbox.ActorRef{
			ActorID: order.BuyerID,
			Role:    enums.ActorRoleBuyer,
		},
		Data: payloads.OrderCreatedEvent{
			OrderID:     order.ID,
			BuyerID:     order.BuyerID,
			SellerID:    order.SellerID,
			TotalAmount: order.TotalAmount,
			ItemCount:   len(order.Items),
			Lines:       lines,
		},
	}
	return s.outbox.Emit(ctx, tx, event)
}

func validateInput(input Input) error {
	if input.Contact.Phone == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "buyer phone required")
	}
	if input.Contact.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "buyer name required")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if !input.DeliveryOption.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery option")
	}
	if input.DeliveryOption == enums.DeliveryOptionPickup && input.PickupPointID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "pickup point required for pickup delivery")
	}
	if len(input.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}
	return nil
}
