package enums

import "fmt"

// PickupStatus tracks hand-off at a pickup point, independent of OrderStatus.
type PickupStatus string

const (
	PickupStatusNotApplicable PickupStatus = "not_applicable"
	PickupStatusPendingPickup PickupStatus = "pending_pickup"
	PickupStatusInTransit     PickupStatus = "in_transit"
	PickupStatusCollected     PickupStatus = "collected"
)

var validPickupStatuses = []PickupStatus{
	PickupStatusNotApplicable,
	PickupStatusPendingPickup,
	PickupStatusInTransit,
	PickupStatusCollected,
}

// IsValid reports whether the value is a known PickupStatus.
func (p PickupStatus) IsValid() bool {
	for _, candidate := range validPickupStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePickupStatus converts the raw string to PickupStatus.
func ParsePickupStatus(value string) (PickupStatus, error) {
	for _, candidate := range validPickupStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pickup status %q", value)
}
