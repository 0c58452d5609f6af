package enums

import "fmt"

// NotificationType classifies in-app notifications.
type NotificationType string

const (
	NotificationTypeOrderCreated NotificationType = "order_created"
	NotificationTypeOrderStatus  NotificationType = "order_status"
	NotificationTypeLowStock     NotificationType = "low_stock"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeOrderCreated,
	NotificationTypeOrderStatus,
	NotificationTypeLowStock,
}

// IsValid reports whether the value is a known NotificationType.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// RecipientType identifies which account table a notification targets.
type RecipientType string

const (
	RecipientTypeBuyer  RecipientType = "buyer"
	RecipientTypeSeller RecipientType = "seller"
	RecipientTypeAdmin  RecipientType = "admin"
)

var validRecipientTypes = []RecipientType{
	RecipientTypeBuyer,
	RecipientTypeSeller,
	RecipientTypeAdmin,
}

// IsValid reports whether the value is a known RecipientType.
func (r RecipientType) IsValid() bool {
	for _, candidate := range validRecipientTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRecipientType converts the raw string to RecipientType.
func ParseRecipientType(value string) (RecipientType, error) {
	for _, candidate := range validRecipientTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid recipient type %q", value)
}
