package enums

import "fmt"

// PaymentMethod is the settlement instrument recorded when an order is paid.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodUPI  PaymentMethod = "upi"
	PaymentMethodCard PaymentMethod = "card"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodUPI,
	PaymentMethodCard,
}

// IsValid reports whether the value matches the canonical payment method enum.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
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
