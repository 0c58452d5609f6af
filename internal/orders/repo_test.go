package orders

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	"github.com/nengoo-market/nengoo-backend/pkg/enums"
	"github.com/nengoo-market/nengoo-backend/pkg/pagination"
)

func beginTestTx(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("NENGOO_DB_DSN")
	if dsn == "" {
		t.Skip("NENGOO_DB_DSN is not set")
	}
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})
	return tx
}

func mustCreateTestBuyer(t *testing.T, tx *gorm.DB) *models.Buyer {
	t.Helper()
	buyer := &models.Buyer{
		ID:     uuid.New(),
		Phone:  fmt.Sprintf("+2376%s", uuid.NewString()[:8]),
		Name:   "Repo Buyer",
		Status: enums.AccountStatusActive,
	}
	if err := tx.Create(buyer).Error; err != nil {
		t.Fatalf("create buyer: %v", err)
	}
	return buyer
}

func mustCreateTestOrder(t *testing.T, tx *gorm.DB, buyer *models.Buyer, sellerID uuid.UUID) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:             uuid.New(),
		BuyerID:        buyer.ID,
		BuyerName:      buyer.Name,
		BuyerPhone:     buyer.Phone,
		SellerID:       sellerID,
		SellerName:     "Repo Boutique",
		ShippingFee:    2500,
		TotalAmount:    12500,
		Status:         enums.OrderStatusPending,
		PaymentStatus:  enums.PaymentStatusUnpaid,
		PaymentMethod:  enums.PaymentMethodCashOnDelivery,
		DeliveryOption: enums.DeliveryOptionHome,
		PickupStatus:   enums.PickupStatusNotApplicable,
		OrderedAt:      time.Now(),
		Items: []models.OrderLineItem{
			{ProductID: uuid.New(), Name: "Blender", Qty: 1, UnitPrice: 10000},
		},
	}
	if err := tx.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func TestUpdateVersionedAdvancesVersion(t *testing.T) {
	tx := beginTestTx(t)
	repo := NewRepository(tx)
	ctx := context.Background()

	buyer := mustCreateTestBuyer(t, tx)
	order := mustCreateTestOrder(t, tx, buyer, uuid.New())

	ok, err := repo.UpdateVersioned(ctx, order.ID, order.Version, map[string]any{
		"status": enums.OrderStatusProcessing,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !ok {
		t.Fatal("expected versioned update to land")
	}

	reloaded, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != enums.OrderStatusProcessing {
		t.Fatalf("expected processing, got %s", reloaded.Status)
	}
	if reloaded.Version != order.Version+1 {
		t.Fatalf("expected version %d, got %d", order.Version+1, reloaded.Version)
	}
}

func TestUpdateVersionedRejectsStaleVersion(t *testing.T) {
	tx := beginTestTx(t)
	repo := NewRepository(tx)
	ctx := context.Background()

	buyer := mustCreateTestBuyer(t, tx)
	order := mustCreateTestOrder(t, tx, buyer, uuid.New())

	ok, err := repo.UpdateVersioned(ctx, order.ID, order.Version, map[string]any{
		"status": enums.OrderStatusProcessing,
	})
	if err != nil || !ok {
		t.Fatalf("first update: ok=%v err=%v", ok, err)
	}

	// Second writer still carries the original version and must lose.
	ok, err = repo.UpdateVersioned(ctx, order.ID, order.Version, map[string]any{
		"status": enums.OrderStatusCancelled,
	})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if ok {
		t.Fatal("expected stale version to be rejected")
	}

	reloaded, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != enums.OrderStatusProcessing {
		t.Fatalf("expected processing preserved, got %s", reloaded.Status)
	}
}

func TestFindByIDPreloadsLineItems(t *testing.T) {
	tx := beginTestTx(t)
	repo := NewRepository(tx)
	ctx := context.Background()

	buyer := mustCreateTestBuyer(t, tx)
	order := mustCreateTestOrder(t, tx, buyer, uuid.New())

	reloaded, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(reloaded.Items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(reloaded.Items))
	}
	if reloaded.Items[0].Name != "Blender" {
		t.Fatalf("unexpected line item %+v", reloaded.Items[0])
	}
}

func TestListForSellerFiltersAndPaginates(t *testing.T) {
	tx := beginTestTx(t)
	repo := NewRepository(tx)
	ctx := context.Background()

	buyer := mustCreateTestBuyer(t, tx)
	sellerID := uuid.New()
	for i := 0; i < 3; i++ {
		mustCreateTestOrder(t, tx, buyer, sellerID)
	}
	mustCreateTestOrder(t, tx, buyer, uuid.New())

	page, err := repo.ListForSeller(ctx, sellerID, pagination.Params{Limit: 2}, ListFilters{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Orders) != 2 {
		t.Fatalf("expected first page of 2, got %d", len(page.Orders))
	}
	if page.NextCursor == "" {
		t.Fatal("expected next cursor")
	}

	rest, err := repo.ListForSeller(ctx, sellerID, pagination.Params{Limit: 2, Cursor: page.NextCursor}, ListFilters{})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(rest.Orders) != 1 {
		t.Fatalf("expected final page of 1, got %d", len(rest.Orders))
	}
	if rest.NextCursor != "" {
		t.Fatal("expected exhausted cursor")
	}

	pending := enums.OrderStatusPending
	filtered, err := repo.ListForSeller(ctx, sellerID, pagination.Params{Limit: 10}, ListFilters{Status: &pending})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered.Orders) != 3 {
		t.Fatalf("expected 3 pending orders, got %d", len(filtered.Orders))
	}
}
