package orchestrator

import (
	"github.com/shopspring/decimal"

	"github.com/tableserve/captain/internal/pricing"
	"github.com/tableserve/captain/pkg/enums"
)

// CustomerInput is the optional customer block on a print request.
type CustomerInput struct {
	Name   string
	Mobile string
}

// PaymentInput captures how the order is being settled.
type PaymentInput struct {
	Status enums.PaymentStatus
	Method enums.PaymentMethod
}

// PrintRequest is one user action against the live cart. OrderID is empty
// for orders that have never been saved.
type PrintRequest struct {
	Action          enums.PrintAction
	OrderID         string
	BillNumber      string
	OrderType       enums.OrderType
	Table           string
	Customer        CustomerInput
	Lines           []pricing.CartLine
	SpecialDiscount decimal.Decimal
	ExtraCharges    decimal.Decimal
	Tip             decimal.Decimal
	Payment         PaymentInput
}

// QuoteRequest asks for the running total without printing or saving.
type QuoteRequest struct {
	OrderID         string
	Lines           []pricing.CartLine
	SpecialDiscount decimal.Decimal
	ExtraCharges    decimal.Decimal
	Tip             decimal.Decimal
}

// PrintResult reports what a print action accomplished. When no printer was
// reachable, Fallback carries a rendered HTML document and Printed is false.
// A saved order keeps its identifiers even when the print step fails.
type PrintResult struct {
	OrderID     string
	OrderNumber string
	Saved       bool
	Printed     bool
	Fallback    []byte
	Breakdown   pricing.Breakdown
}
