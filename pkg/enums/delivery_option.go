package enums

import "fmt"

// DeliveryOption selects home delivery versus pickup-point collection.
type DeliveryOption string

const (
	DeliveryOptionHome   DeliveryOption = "home"
	DeliveryOptionPickup DeliveryOption = "pickup"
)

var validDeliveryOptions = []DeliveryOption{
	DeliveryOptionHome,
	DeliveryOptionPickup,
}

// IsValid reports whether the value is a known DeliveryOption.
func (d DeliveryOption) IsValid() bool {
	for _, candidate := range validDeliveryOptions {
		if candidate == d {
			return true
		}
	}
	return false
}

// InitialPickupStatus returns the pickup sub-status a new order starts with.
func (d DeliveryOption) InitialPickupStatus() PickupStatus {
	if d == DeliveryOptionPickup {
		return PickupStatusPendingPickup
	}
	return PickupStatusNotApplicable
}

// ParseDeliveryOption converts the raw string to DeliveryOption.
func ParseDeliveryOption(value string) (DeliveryOption, error) {
	for _, candidate := range validDeliveryOptions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery option %q", value)
}
