package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/nengoo-market/nengoo-backend/internal/mailer"
	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	"github.com/nengoo-market/nengoo-backend/pkg/enums"
	"github.com/nengoo-market/nengoo-backend/pkg/logger"
	"github.com/nengoo-market/nengoo-backend/pkg/outbox"
	"github.com/nengoo-market/nengoo-backend/pkg/outbox/idempotency"
	"github.com/nengoo-market/nengoo-backend/pkg/outbox/payloads"
)

const orderNotificationConsumer = "order-notifications"

type notificationCreator interface {
	Create(ctx context.Context, notification *models.Notification) error
}

type buyerLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Buyer, error)
}

type sellerLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Seller, error)
}

type adminLookup interface {
	ListActiveSuperAdmins(ctx context.Context) ([]models.Admin, error)
}

// Consumer turns domain events into per-recipient notifications and
// transactional emails.
type Consumer struct {
	repo         notificationCreator
	buyers       buyerLookup
	sellers      sellerLookup
	admins       adminLookup
	mail         mailer.Mailer
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds the order notification consumer.
func NewConsumer(
	repo notificationCreator,
	buyers buyerLookup,
	sellers sellerLookup,
	admins adminLookup,
	mail mailer.Mailer,
	subscription *pubsub.Subscriber,
	manager *idempotency.Manager,
	logg *logger.Logger,
) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if buyers == nil {
		return nil, fmt.Errorf("buyers lookup required")
	}
	if sellers == nil {
		return nil, fmt.Errorf("sellers lookup required")
	}
	if admins == nil {
		return nil, fmt.Errorf("admins lookup required")
	}
	if mail == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		buyers:       buyers,
		sellers:      sellers,
		admins:       admins,
		mail:         mail,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if c.process(ctx, msg) {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// process handles one message and reports whether it should be redelivered.
func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) (retry bool) {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": string(eventType),
	})

	if !c.handles(eventType) {
		c.logg.Info(logCtx, "skipping unhandled event")
		return false
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return false
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return false
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, orderNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return true
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return false
	}

	if err := c.dispatch(ctx, eventType, envelope.Data, logCtx); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, orderNotificationConsumer, eventID)
		return true
	}
	return false
}

func (c *Consumer) handles(eventType enums.OutboxEventType) bool {
	switch eventType {
	case enums.EventOrderCreated, enums.EventOrderStatusChanged, enums.EventProductLowStock:
		return true
	default:
		return false
	}
}

func (c *Consumer) dispatch(ctx context.Context, eventType enums.OutboxEventType, data json.RawMessage, logCtx context.Context) error {
	switch eventType {
	case enums.EventOrderCreated:
		var payload payloads.OrderCreatedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse order created payload: %w", err)
		}
		return c.handleOrderCreated(ctx, payload, logCtx)
	case enums.EventOrderStatusChanged:
		var payload payloads.OrderStatusChangedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse status changed payload: %w", err)
		}
		return c.handleStatusChanged(ctx, payload, logCtx)
	case enums.EventProductLowStock:
		var payload payloads.ProductLowStockEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse low stock payload: %w", err)
		}
		return c.handleLowStock(ctx, payload, logCtx)
	default:
		return nil
	}
}

func (c *Consumer) handleOrderCreated(ctx context.Context, payload payloads.OrderCreatedEvent, logCtx context.Context) error {
	if payload.OrderID == uuid.Nil {
		return fmt.Errorf("order id missing")
	}
	orderRef := shortOrderRef(payload.OrderID)

	var errs error
	errs = multierr.Append(errs, c.repo.Create(ctx, &models.Notification{
		RecipientID:   payload.SellerID,
		RecipientType: c.sellerRecipientType(ctx, payload.SellerID),
		Type:          enums.NotificationTypeOrderCreated,
		Title:         "New order received",
		Message:       fmt.Sprintf("Order %s: %d item(s) for %d XAF.", orderRef, payload.ItemCount, payload.TotalAmount),
		Link:          stringPtr(fmt.Sprintf("/seller/orders/%s", payload.OrderID)),
	}))
	errs = multierr.Append(errs, c.repo.Create(ctx, &models.Notification{
		RecipientID:   payload.BuyerID,
		RecipientType: enums.RecipientTypeBuyer,
		Type:          enums.NotificationTypeOrderCreated,
		Title:         "Order placed",
		Message:       fmt.Sprintf("Your order %s has been placed. Total: %d XAF.", orderRef, payload.TotalAmount),
		Link:          stringPtr(fmt.Sprintf("/orders/%s", payload.OrderID)),
	}))
	if errs != nil {
		return errs
	}

	c.emailBuyer(ctx, payload.BuyerID, mailer.Message{
		Subject: fmt.Sprintf("Nengoo order %s confirmed", orderRef),
		Body: fmt.Sprintf("Thank you for shopping on Nengoo. Your order %s (%d item(s), %d XAF) was received and is pending confirmation.",
			orderRef, payload.ItemCount, payload.TotalAmount),
	}, logCtx)
	c.emailSeller(ctx, payload.SellerID, mailer.Message{
		Subject: fmt.Sprintf("New Nengoo order %s", orderRef),
		Body: fmt.Sprintf("You received a new order %s with %d item(s) totalling %d XAF. Log in to confirm it.",
			orderRef, payload.ItemCount, payload.TotalAmount),
	}, logCtx)
	c.emailSuperAdmins(ctx, mailer.Message{
		Subject: fmt.Sprintf("Nengoo order %s placed", orderRef),
		Body: fmt.Sprintf("Order %s was placed: %d item(s), %d XAF total.",
			orderRef, payload.ItemCount, payload.TotalAmount),
	}, logCtx)

	c.logg.Info(logCtx, "order created notifications stored")
	return nil
}

func (c *Consumer) handleStatusChanged(ctx context.Context, payload payloads.OrderStatusChangedEvent, logCtx context.Context) error {
	if payload.OrderID == uuid.Nil {
		return fmt.Errorf("order id missing")
	}
	orderRef := shortOrderRef(payload.OrderID)

	if err := c.repo.Create(ctx, &models.Notification{
		RecipientID:   payload.BuyerID,
		RecipientType: enums.RecipientTypeBuyer,
		Type:          enums.NotificationTypeOrderStatus,
		Title:         "Order update",
		Message:       fmt.Sprintf("Your order %s is now %s.", orderRef, payload.NewStatus),
		Link:          stringPtr(fmt.Sprintf("/orders/%s", payload.OrderID)),
	}); err != nil {
		return err
	}

	c.emailBuyer(ctx, payload.BuyerID, mailer.Message{
		Subject: fmt.Sprintf("Nengoo order %s update", orderRef),
		Body:    fmt.Sprintf("Your order %s is now %s.", orderRef, payload.NewStatus),
	}, logCtx)

	if payload.Delivered {
		c.emailBuyer(ctx, payload.BuyerID, mailer.Message{
			Subject: fmt.Sprintf("How was your Nengoo order %s?", orderRef),
			Body:    reviewRequestBody(orderRef, payload.Lines),
		}, logCtx)
	}

	c.logg.Info(logCtx, "status change notification stored")
	return nil
}

func reviewRequestBody(orderRef string, lines []payloads.OrderLineSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your order %s has been delivered. Please review your purchase:\n", orderRef)
	for _, line := range lines {
		fmt.Fprintf(&b, "- %s (x%d)\n", line.Name, line.Qty)
	}
	return b.String()
}

func (c *Consumer) handleLowStock(ctx context.Context, payload payloads.ProductLowStockEvent, logCtx context.Context) error {
	if payload.ProductID == uuid.Nil {
		return fmt.Errorf("product id missing")
	}

	if err := c.repo.Create(ctx, &models.Notification{
		RecipientID:   payload.SellerID,
		RecipientType: c.sellerRecipientType(ctx, payload.SellerID),
		Type:          enums.NotificationTypeLowStock,
		Title:         "Low stock alert",
		Message:       fmt.Sprintf("%s is down to %d unit(s). Restock soon to keep it sellable.", payload.ProductName, payload.Stock),
		Link:          stringPtr(fmt.Sprintf("/seller/products/%s", payload.ProductID)),
	}); err != nil {
		return err
	}

	c.emailSeller(ctx, payload.SellerID, mailer.Message{
		Subject: fmt.Sprintf("Low stock: %s", payload.ProductName),
		Body:    fmt.Sprintf("Stock for %s dropped to %d unit(s) after the latest delivery.", payload.ProductName, payload.Stock),
	}, logCtx)

	c.logg.Info(logCtx, "low stock notification stored")
	return nil
}

// sellerRecipientType resolves whether a seller id belongs to a registered
// seller or to a platform admin listing products directly.
func (c *Consumer) sellerRecipientType(ctx context.Context, sellerID uuid.UUID) enums.RecipientType {
	if _, err := c.sellers.FindByID(ctx, sellerID); err == gorm.ErrRecordNotFound {
		return enums.RecipientTypeAdmin
	}
	return enums.RecipientTypeSeller
}

// Emails are best effort. A bounced or failed send never blocks the in-app
// notification nor nacks the message.
func (c *Consumer) emailBuyer(ctx context.Context, buyerID uuid.UUID, msg mailer.Message, logCtx context.Context) {
	buyer, err := c.buyers.FindByID(ctx, buyerID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			c.logg.Error(logCtx, "buyer lookup for email failed", err)
		}
		return
	}
	if buyer.Email == nil || *buyer.Email == "" {
		return
	}
	msg.To = *buyer.Email
	msg.ToName = buyer.Name
	if err := c.mail.Send(ctx, msg); err != nil {
		c.logg.Error(logCtx, "buyer email failed", err)
	}
}

func (c *Consumer) emailSuperAdmins(ctx context.Context, msg mailer.Message, logCtx context.Context) {
	admins, err := c.admins.ListActiveSuperAdmins(ctx)
	if err != nil {
		c.logg.Error(logCtx, "super admin lookup for email failed", err)
		return
	}
	for _, admin := range admins {
		if admin.Email == "" {
			continue
		}
		out := msg
		out.To = admin.Email
		out.ToName = admin.Name
		if err := c.mail.Send(ctx, out); err != nil {
			c.logg.Error(logCtx, "admin email failed", err)
		}
	}
}

func (c *Consumer) emailSeller(ctx context.Context, sellerID uuid.UUID, msg mailer.Message, logCtx context.Context) {
	seller, err := c.sellers.FindByID(ctx, sellerID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			c.logg.Error(logCtx, "seller lookup for email failed", err)
		}
		return
	}
	if seller.Email == "" {
		return
	}
	msg.To = seller.Email
	msg.ToName = seller.BusinessName
	if err := c.mail.Send(ctx, msg); err != nil {
		c.logg.Error(logCtx, "seller email failed", err)
	}
}

func shortOrderRef(id uuid.UUID) string {
	return "#" + id.String()[:8]
}

func stringPtr(value string) *string {
	return &value
}
