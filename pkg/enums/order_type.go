package enums

import "fmt"

// OrderType distinguishes dine-in tables from takeaway and delivery orders.
type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDelivery OrderType = "delivery"
)

var validOrderTypes = []OrderType{
	OrderTypeDineIn,
	OrderTypeTakeaway,
	OrderTypeDelivery,
}

// IsValid reports whether the value matches the canonical order type enum.
func (o OrderType) IsValid() bool {
	for _, candidate := range validOrderTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderType converts the raw string to OrderType.
func ParseOrderType(value string) (OrderType, error) {
	for _, candidate := range validOrderTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order type %q", value)
}
