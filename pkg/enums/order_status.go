package enums

import (
	"fmt"
	"strings"
)

// OrderStatus is the normalized lifecycle state of a backend order.
type OrderStatus string

const (
	OrderStatusActive    OrderStatus = "active"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusActive,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// cancelledAliases lists the spellings the backend has been observed to send
// for cancelled orders. They are folded into OrderStatusCancelled at the
// boundary; see NormalizeOrderStatus.
var cancelledAliases = map[string]struct{}{
	"cancle":    {},
	"cancel":    {},
	"canceled":  {},
	"cancelled": {},
}

// IsValid reports whether the value matches the canonical order status enum.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// NormalizeOrderStatus maps a raw backend status string, including the known
// misspellings of "cancelled", to the canonical enum.
func NormalizeOrderStatus(value string) (OrderStatus, error) {
	raw := strings.ToLower(strings.TrimSpace(value))
	if _, ok := cancelledAliases[raw]; ok {
		return OrderStatusCancelled, nil
	}
	for _, candidate := range validOrderStatuses {
		if string(candidate) == raw {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
