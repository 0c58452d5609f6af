package checkout

import (
	"github.com/google/uuid"

	"github.com/nengoo-market/nengoo-backend/pkg/enums"
)

// CartLine is one {product, quantity} pair submitted at checkout.
type CartLine struct {
	ProductID uuid.UUID
	Qty       int
}

// BuyerContact carries the buyer-identifying payload. Phone is the guest
// checkout identity key.
type BuyerContact struct {
	Name  string
	Phone string
	Email *string
	City  *string
}

// Input is the full checkout submission.
type Input struct {
	Contact        BuyerContact
	PaymentMethod  enums.PaymentMethod
	DeliveryOption enums.DeliveryOption
	PickupPointID  *uuid.UUID
	Lines          []CartLine
}

// ResolvedLine is a cart line with its price frozen at partition time.
type ResolvedLine struct {
	ProductID uuid.UUID
	Name      string
	Image     *string
	Qty       int
	UnitPrice int64
}

// SellerGroup is the subset of cart lines belonging to one seller; each group
// materializes into exactly one order. DeliveryPrice is nil when the seller
// has no configured price (platform default applies); the pseudo-seller
// carries an explicit zero.
type SellerGroup struct {
	SellerID      uuid.UUID
	SellerName    string
	DeliveryPrice *int64
	Lines         []ResolvedLine
}

// Subtotal is the sum of frozen line prices times quantities.
func (g SellerGroup) Subtotal() int64 {
	var subtotal int64
	for _, line := range g.Lines {
		subtotal += line.UnitPrice * int64(line.Qty)
	}
	return subtotal
}
