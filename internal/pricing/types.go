package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/tableserve/captain/pkg/enums"
)

// CartLine is one menu item on the live cart. OriginalQuantity is the
// quantity on the last confirmed order and drives KOT diffing; it is zero
// for lines that were never confirmed.
type CartLine struct {
	MenuID           int64
	Name             string
	Portion          enums.Portion
	UnitPrice        decimal.Decimal
	Quantity         int
	OfferPercent     decimal.Decimal
	IsNewItem        bool
	OriginalQuantity int
	Comment          string
}

// TotalPrice is unit price times quantity, before any discount.
func (l CartLine) TotalPrice() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Adjustments are the order-level pricing inputs applied after per-line
// offers. The percent rates come from the outlet config for new orders and
// from the order's locked-in rates when editing an existing order.
type Adjustments struct {
	SpecialDiscount      decimal.Decimal
	ExtraCharges         decimal.Decimal
	Tip                  decimal.Decimal
	ServiceChargePercent decimal.Decimal
	GSTPercent           decimal.Decimal
}

// Breakdown is the ordered pricing result. Every stage is derived from the
// previous one in a fixed order: menu discount, special discount, extra
// charges, service charge, GST, tip. All values are rounded to 2 decimals.
type Breakdown struct {
	Subtotal                  decimal.Decimal
	MenuDiscountAmount        decimal.Decimal
	MenuDiscountPercent       decimal.Decimal
	TotalAfterMenuDiscount    decimal.Decimal
	TotalAfterSpecialDiscount decimal.Decimal
	TotalAfterExtraCharges    decimal.Decimal
	ServiceChargeAmount       decimal.Decimal
	TotalAfterService         decimal.Decimal
	GSTAmount                 decimal.Decimal
	GrandTotal                decimal.Decimal
}
