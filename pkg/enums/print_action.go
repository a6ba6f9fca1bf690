package enums

import "fmt"

// PrintAction is the user intent behind a print request.
type PrintAction string

const (
	// PrintActionPrintAndSave prints a full receipt and saves the order.
	PrintActionPrintAndSave PrintAction = "print_and_save"
	// PrintActionKOT prints a kitchen order ticket only.
	PrintActionKOT PrintAction = "kot"
	// PrintActionKOTAndSave prints a KOT plus a receipt and saves the order.
	PrintActionKOTAndSave PrintAction = "kot_and_save"
	// PrintActionSettle prints a receipt and marks the order paid/closed.
	PrintActionSettle PrintAction = "settle"
)

var validPrintActions = []PrintAction{
	PrintActionPrintAndSave,
	PrintActionKOT,
	PrintActionKOTAndSave,
	PrintActionSettle,
}

// IsValid reports whether the value matches the canonical print action enum.
func (p PrintAction) IsValid() bool {
	for _, candidate := range validPrintActions {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePrintAction converts the raw string to PrintAction.
func ParsePrintAction(value string) (PrintAction, error) {
	for _, candidate := range validPrintActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid print action %q", value)
}

// NeedsReceipt reports whether the action produces a customer receipt.
func (p PrintAction) NeedsReceipt() bool {
	return p == PrintActionPrintAndSave || p == PrintActionKOTAndSave || p == PrintActionSettle
}

// NeedsKOT reports whether the action produces a kitchen ticket.
func (p PrintAction) NeedsKOT() bool {
	return p == PrintActionKOT || p == PrintActionKOTAndSave
}
