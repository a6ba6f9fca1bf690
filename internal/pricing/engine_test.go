package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tableserve/captain/pkg/enums"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", value, err)
	}
	return d
}

func line(t *testing.T, price string, qty int, offer string) CartLine {
	t.Helper()
	return CartLine{
		MenuID:       1,
		Name:         "Paneer Tikka",
		Portion:      enums.PortionFull,
		UnitPrice:    dec(t, price),
		Quantity:     qty,
		OfferPercent: dec(t, offer),
	}
}

func assertField(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if got.StringFixed(2) != want {
		t.Fatalf("%s = %s, want %s", name, got.StringFixed(2), want)
	}
}

func TestComputeFixedStageOrder(t *testing.T) {
	t.Parallel()

	// price 100 x2 with a 10% offer, 5% service, 5% GST.
	lines := []CartLine{line(t, "100", 2, "10")}
	adj := Adjustments{
		ServiceChargePercent: dec(t, "5"),
		GSTPercent:           dec(t, "5"),
	}

	got := Compute(lines, adj)

	assertField(t, "Subtotal", got.Subtotal, "200.00")
	assertField(t, "MenuDiscountAmount", got.MenuDiscountAmount, "20.00")
	assertField(t, "TotalAfterMenuDiscount", got.TotalAfterMenuDiscount, "180.00")
	assertField(t, "TotalAfterSpecialDiscount", got.TotalAfterSpecialDiscount, "180.00")
	assertField(t, "TotalAfterExtraCharges", got.TotalAfterExtraCharges, "180.00")
	assertField(t, "ServiceChargeAmount", got.ServiceChargeAmount, "9.00")
	assertField(t, "TotalAfterService", got.TotalAfterService, "189.00")
	assertField(t, "GSTAmount", got.GSTAmount, "9.45")
	assertField(t, "GrandTotal", got.GrandTotal, "198.45")
}

func TestComputeEmptyCartIsAllZero(t *testing.T) {
	t.Parallel()

	got := Compute(nil, Adjustments{})

	if !got.Subtotal.IsZero() || !got.GrandTotal.IsZero() || !got.GSTAmount.IsZero() {
		t.Fatalf("expected zero breakdown, got %+v", got)
	}
}

func TestComputeSingleLineNoRatesEqualsSubtotal(t *testing.T) {
	t.Parallel()

	got := Compute([]CartLine{line(t, "249.50", 1, "0")}, Adjustments{})

	if !got.GrandTotal.Equal(got.Subtotal) {
		t.Fatalf("grand total %s should equal subtotal %s", got.GrandTotal, got.Subtotal)
	}
	assertField(t, "GrandTotal", got.GrandTotal, "249.50")
}

func TestComputeClampsSpecialDiscountAtZero(t *testing.T) {
	t.Parallel()

	adj := Adjustments{SpecialDiscount: dec(t, "500")}
	got := Compute([]CartLine{line(t, "100", 2, "0")}, adj)

	assertField(t, "TotalAfterSpecialDiscount", got.TotalAfterSpecialDiscount, "0.00")
	if got.GrandTotal.IsNegative() {
		t.Fatalf("grand total must never be negative, got %s", got.GrandTotal)
	}
}

func TestComputeGrandTotalNeverNegative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		adj  Adjustments
	}{
		{"huge special discount", Adjustments{SpecialDiscount: dec(t, "9999")}},
		{"discount with tip", Adjustments{SpecialDiscount: dec(t, "9999"), Tip: dec(t, "5")}},
		{"all rates", Adjustments{
			SpecialDiscount:      dec(t, "50"),
			ExtraCharges:         dec(t, "30"),
			Tip:                  dec(t, "20"),
			ServiceChargePercent: dec(t, "10"),
			GSTPercent:           dec(t, "18"),
		}},
	}
	for _, tt := range tests {
		got := Compute([]CartLine{line(t, "120", 3, "15")}, tt.adj)
		if got.GrandTotal.IsNegative() {
			t.Fatalf("%s: grand total negative: %s", tt.name, got.GrandTotal)
		}
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	t.Parallel()

	lines := []CartLine{
		line(t, "99.99", 3, "12.5"),
		line(t, "45.45", 7, "0"),
	}
	adj := Adjustments{
		SpecialDiscount:      dec(t, "13.33"),
		ExtraCharges:         dec(t, "7.77"),
		Tip:                  dec(t, "11"),
		ServiceChargePercent: dec(t, "7.5"),
		GSTPercent:           dec(t, "18"),
	}

	first := Compute(lines, adj)
	second := Compute(lines, adj)

	if first.GrandTotal.String() != second.GrandTotal.String() {
		t.Fatalf("compute not deterministic: %s vs %s", first.GrandTotal, second.GrandTotal)
	}
	if first.Subtotal.String() != second.Subtotal.String() {
		t.Fatalf("compute not deterministic: %s vs %s", first.Subtotal, second.Subtotal)
	}
}

// Applying GST before the service charge must produce a different grand total
// for at least one cart; the stage order is part of the contract.
func TestComputeStageOrderMatters(t *testing.T) {
	t.Parallel()

	lines := []CartLine{line(t, "100", 2, "10")}
	adj := Adjustments{
		SpecialDiscount:      dec(t, "10"),
		ServiceChargePercent: dec(t, "5"),
		GSTPercent:           dec(t, "5"),
	}

	got := Compute(lines, adj)
	assertField(t, "GrandTotal", got.GrandTotal, "187.43")

	// Reordered by hand: special discount applied after service charge and
	// GST instead of before them.
	afterMenu := dec(t, "180") // 200 - 20 menu discount
	service := afterMenu.Mul(dec(t, "5")).Div(hundred).Round(2)
	afterService := afterMenu.Add(service)
	gst := afterService.Mul(dec(t, "5")).Div(hundred).Round(2)
	reordered := afterService.Add(gst).Sub(dec(t, "10")).Round(2)

	if got.GrandTotal.Equal(reordered) {
		t.Fatalf("reordered stages produced the same total %s; expected a difference", reordered)
	}
}

func TestComputeMenuDiscountPercentIsRawSum(t *testing.T) {
	t.Parallel()

	lines := []CartLine{
		line(t, "100", 1, "60"),
		line(t, "100", 1, "70"),
	}

	got := Compute(lines, Adjustments{})

	// Display aggregate: 60 + 70 = 130, deliberately allowed past 100.
	assertField(t, "MenuDiscountPercent", got.MenuDiscountPercent, "130.00")
	assertField(t, "MenuDiscountAmount", got.MenuDiscountAmount, "130.00")
}

func TestComputeRoundsEachStage(t *testing.T) {
	t.Parallel()

	// 33.33 x 3 = 99.99 with a 3.5% offer -> 3.49965 rounds to 3.50 before
	// the next stage consumes it.
	lines := []CartLine{line(t, "33.33", 3, "3.5")}
	got := Compute(lines, Adjustments{})

	assertField(t, "MenuDiscountAmount", got.MenuDiscountAmount, "3.50")
	assertField(t, "TotalAfterMenuDiscount", got.TotalAfterMenuDiscount, "96.49")
}
