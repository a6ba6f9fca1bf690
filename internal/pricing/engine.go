package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Compute turns the cart and the order-level adjustments into the pricing
// breakdown. It is pure and deterministic; callers own input validation.
//
// Each stage is rounded to 2 decimals before the next stage consumes it so
// the printed intermediate totals add up exactly to the grand total. The
// stage order is load-bearing: reordering discounts, service charge and GST
// changes the grand total.
func Compute(lines []CartLine, adj Adjustments) Breakdown {
	zero := decimal.Zero

	subtotal := zero
	menuDiscount := zero
	offerSum := zero
	for _, line := range lines {
		lineTotal := line.TotalPrice()
		subtotal = subtotal.Add(lineTotal)
		menuDiscount = menuDiscount.Add(lineTotal.Mul(line.OfferPercent).Div(hundred))
		// Raw sum of per-line offer percentages: a display-only aggregate
		// the legacy receipts show, kept for compatibility. It can exceed
		// 100 and is never used in the amount math.
		offerSum = offerSum.Add(line.OfferPercent)
	}
	subtotal = subtotal.Round(2)
	menuDiscount = menuDiscount.Round(2)

	afterMenu := subtotal.Sub(menuDiscount).Round(2)

	afterSpecial := afterMenu.Sub(adj.SpecialDiscount).Round(2)
	if afterSpecial.IsNegative() {
		afterSpecial = zero
	}

	afterExtra := afterSpecial.Add(adj.ExtraCharges).Round(2)

	serviceCharge := afterExtra.Mul(adj.ServiceChargePercent).Div(hundred).Round(2)
	afterService := afterExtra.Add(serviceCharge).Round(2)

	gst := afterService.Mul(adj.GSTPercent).Div(hundred).Round(2)

	grand := afterService.Add(gst).Add(adj.Tip).Round(2)
	if grand.IsNegative() {
		grand = zero
	}

	return Breakdown{
		Subtotal:                  subtotal,
		MenuDiscountAmount:        menuDiscount,
		MenuDiscountPercent:       offerSum,
		TotalAfterMenuDiscount:    afterMenu,
		TotalAfterSpecialDiscount: afterSpecial,
		TotalAfterExtraCharges:    afterExtra,
		ServiceChargeAmount:       serviceCharge,
		TotalAfterService:         afterService,
		GSTAmount:                 gst,
		GrandTotal:                grand,
	}
}
