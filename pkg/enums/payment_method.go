package enums

import "fmt"

// PaymentMethod is the buyer-selected payment channel at checkout.
type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodMTNMomo        PaymentMethod = "mtn_momo"
	PaymentMethodOrangeMoney    PaymentMethod = "orange_money"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCashOnDelivery,
	PaymentMethodMTNMomo,
	PaymentMethodOrangeMoney,
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// InitialPaymentStatus returns the payment status a new order starts with.
// Cash on delivery begins unpaid; mobile money begins pending confirmation.
func (p PaymentMethod) InitialPaymentStatus() PaymentStatus {
	if p == PaymentMethodCashOnDelivery {
		return PaymentStatusUnpaid
	}
	return PaymentStatusPending
}

// ParsePaymentMethod converts the raw string to PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
