package enums

import "fmt"

// PaymentStatus is the wire value the order API accepts in its is_paid field.
// Paid and complementary are mutually exclusive.
type PaymentStatus string

const (
	PaymentStatusPaid          PaymentStatus = "paid"
	PaymentStatusUnpaid        PaymentStatus = "unpaid"
	PaymentStatusComplementary PaymentStatus = "complementary"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPaid,
	PaymentStatusUnpaid,
	PaymentStatusComplementary,
}

// IsValid reports whether the value matches the canonical payment status enum.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStatus converts the raw string to PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
