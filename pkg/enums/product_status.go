package enums

import "fmt"

// ProductStatus is the listing moderation state.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusApproved ProductStatus = "approved"
	ProductStatusPending  ProductStatus = "pending"
	ProductStatusRejected ProductStatus = "rejected"
)

var validProductStatuses = []ProductStatus{
	ProductStatusActive,
	ProductStatusApproved,
	ProductStatusPending,
	ProductStatusRejected,
}

// IsValid reports whether the value is a known ProductStatus.
func (p ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsSellable reports whether the listing can appear in checkout.
func (p ProductStatus) IsSellable() bool {
	return p == ProductStatusActive || p == ProductStatusApproved
}

// ParseProductStatus converts the raw string to ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}
