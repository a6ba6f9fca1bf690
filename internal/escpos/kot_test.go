package escpos

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tableserve/captain/internal/kot"
	"github.com/tableserve/captain/internal/pricing"
)

func TestEncodeKOTIncrementalTicket(t *testing.T) {
	t.Parallel()

	doc := KOTDocument{
		Outlet:     Outlet{Name: "Spice Route"},
		BillNumber: "104",
		Table:      "T4",
		Timestamp:  time.Date(2026, 8, 30, 20, 15, 0, 0, time.UTC),
		Diff: kot.Diff{
			Lines: []kot.DiffLine{
				{
					Line:               pricing.CartLine{Name: "Paneer Tikka", UnitPrice: decimal.NewFromInt(100)},
					EffectiveQuantity:  1,
					IsQuantityIncrease: true,
				},
				{
					Line:              pricing.CartLine{Name: "Garlic Naan", Comment: "no butter", UnitPrice: decimal.NewFromInt(40)},
					EffectiveQuantity: 2,
					IsNew:             true,
				},
			},
			TotalQuantity: 3,
		},
	}

	got := EncodeKOT(doc)

	if !bytes.HasPrefix(got, []byte{0x1B, 0x40}) {
		t.Fatal("KOT must start with ESC @")
	}
	if !bytes.HasSuffix(got, []byte{0x1D, 0x56, 0x42, 0x40}) {
		t.Fatal("KOT must end with a paper cut")
	}
	for _, want := range []string{"KOT", "Bill No: 104", "Table: T4", "Paneer Tikka", "ADD", "Garlic Naan", "NEW", "no butter", "Total Items"} {
		if !bytes.Contains(got, []byte(want)) {
			t.Fatalf("KOT missing %q", want)
		}
	}
	if bytes.Contains(got, []byte("REPRINT")) {
		t.Fatal("incremental ticket must not carry the reprint banner")
	}
	if bytes.Contains(got, []byte("100.00")) {
		t.Fatal("kitchen tickets must not show prices")
	}
}

func TestEncodeKOTReprintBanner(t *testing.T) {
	t.Parallel()

	doc := KOTDocument{
		Outlet: Outlet{Name: "Spice Route"},
		Diff: kot.Diff{
			Lines: []kot.DiffLine{
				{Line: pricing.CartLine{Name: "Masala Dosa"}, EffectiveQuantity: 2},
			},
			TotalQuantity: 2,
			Reprint:       true,
		},
	}

	got := EncodeKOT(doc)

	if !bytes.Contains(got, []byte("** REPRINT **")) {
		t.Fatal("reprint ticket must carry the banner")
	}
}

func TestEncodeKOTQuantityColumn(t *testing.T) {
	t.Parallel()

	doc := KOTDocument{
		Diff: kot.Diff{
			Lines:         []kot.DiffLine{{Line: pricing.CartLine{Name: "Tea"}, EffectiveQuantity: 12}},
			TotalQuantity: 12,
		},
	}

	got := EncodeKOT(doc)

	if !bytes.Contains(got, []byte(" x12")) {
		t.Fatalf("expected right-justified quantity column, got %q", got)
	}
}
