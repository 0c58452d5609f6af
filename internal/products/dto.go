package products

import (
	"github.com/google/uuid"

	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	"github.com/nengoo-market/nengoo-backend/pkg/enums"
)

// ListFilters describe the inputs supported by the catalog list.
type ListFilters struct {
	Category string
	SellerID *uuid.UUID
	Query    string
}

// ProductList wraps the paginated products plus the next page cursor.
type ProductList struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

func sellableStatuses() []enums.ProductStatus {
	return []enums.ProductStatus{
		enums.ProductStatusActive,
		enums.ProductStatusApproved,
	}
}
