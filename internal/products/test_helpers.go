package products

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	"github.com/nengoo-market/nengoo-backend/pkg/enums"
)

func mustCreateTestSeller(t *testing.T, tx *gorm.DB) *models.Seller {
	t.Helper()
	seller := &models.Seller{
		ID:           uuid.New(),
		Whatsapp:     fmt.Sprintf("+2376%s", uuid.NewString()[:8]),
		Name:         "Repo Seller",
		BusinessName: "Repo Boutique",
		Email:        fmt.Sprintf("seller_%s@example.com", uuid.NewString()[:8]),
		Categories:   pq.StringArray{"electronics"},
		Status:       enums.AccountStatusApproved,
		PasswordHash: "hash",
	}
	if err := tx.Create(seller).Error; err != nil {
		t.Fatalf("create seller: %v", err)
	}
	return seller
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, sellerID uuid.UUID, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		SellerID:   sellerID,
		SellerName: "Repo Boutique",
		Name:       fmt.Sprintf("Test Product %s", uuid.NewString()[:8]),
		Category:   "electronics",
		Price:      10000,
		Stock:      stock,
		Status:     enums.ProductStatusActive,
		Images:     pq.StringArray{"https://cdn.example.com/p.jpg"},
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
