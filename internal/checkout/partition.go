package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nengoo-market/nengoo-backend/internal/admins"
	"github.com/nengoo-market/nengoo-backend/internal/products"
	"github.com/nengoo-market/nengoo-backend/internal/sellers"
	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	pkgerrors "github.com/nengoo-market/nengoo-backend/pkg/errors"
)

// partition groups cart lines by their resolved seller, preserving the order
// in which each seller first appears. Any missing product or unresolvable
// seller fails the whole checkout.
func partition(
	ctx context.Context,
	productRepo products.Repository,
	sellerRepo sellers.Repository,
	adminRepo admins.Repository,
	lines []CartLine,
) ([]SellerGroup, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}
	for _, line := range lines {
		if line.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("quantity must be positive for product %s", line.ProductID))
		}
	}

	productIDs := distinctIDs(lines)
	loaded, err := productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	productByID := make(map[uuid.UUID]models.Product, len(loaded))
	for _, product := range loaded {
		productByID[product.ID] = product
	}
	for _, id := range productIDs {
		if _, ok := productByID[id]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("product %s not found", id))
		}
	}

	sellerIDs := make([]uuid.UUID, 0, len(productByID))
	seenSeller := map[uuid.UUID]bool{}
	for _, id := range productIDs {
		sid := productByID[id].SellerID
		if !seenSeller[sid] {
			seenSeller[sid] = true
			sellerIDs = append(sellerIDs, sid)
		}
	}
	loadedSellers, err := sellerRepo.FindByIDs(ctx, sellerIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sellers")
	}
	sellerByID := make(map[uuid.UUID]models.Seller, len(loadedSellers))
	for _, seller := range loadedSellers {
		sellerByID[seller.ID] = seller
	}

	groups := make([]SellerGroup, 0, len(sellerIDs))
	groupIndex := map[uuid.UUID]int{}

	for _, line := range lines {
		product := productByID[line.ProductID]

		idx, ok := groupIndex[product.SellerID]
		if !ok {
			group, err := resolveSellerGroup(ctx, adminRepo, sellerByID, product)
			if err != nil {
				return nil, err
			}
			idx = len(groups)
			groups = append(groups, group)
			groupIndex[product.SellerID] = idx
		}

		groups[idx].Lines = append(groups[idx].Lines, ResolvedLine{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.FirstImage(),
			Qty:       line.Qty,
			UnitPrice: product.EffectivePrice(),
		})
	}

	return groups, nil
}

// resolveSellerGroup maps a product to its seller. A product whose seller id
// points at a platform staff account instead of a registered seller groups
// under that account as a pseudo-seller with free delivery.
func resolveSellerGroup(
	ctx context.Context,
	adminRepo admins.Repository,
	sellerByID map[uuid.UUID]models.Seller,
	product models.Product,
) (SellerGroup, error) {
	if seller, ok := sellerByID[product.SellerID]; ok {
		return SellerGroup{
			SellerID:      seller.ID,
			SellerName:    seller.BusinessName,
			DeliveryPrice: seller.DeliveryPrice,
		}, nil
	}

	admin, err := adminRepo.FindByID(ctx, product.SellerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return SellerGroup{}, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("product %q has no valid seller", product.Name))
		}
		return SellerGroup{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve pseudo seller")
	}

	zero := int64(0)
	name := product.SellerName
	if name == "" {
		name = admin.Name
	}
	return SellerGroup{
		SellerID:      admin.ID,
		SellerName:    name,
		DeliveryPrice: &zero,
	}, nil
}

func distinctIDs(lines []CartLine) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := map[uuid.UUID]bool{}
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	return ids
}
