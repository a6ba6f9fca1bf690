package kot

import "github.com/tableserve/captain/internal/pricing"

// DiffLine is one ticket row: the cart line plus the quantity the kitchen
// should actually prepare.
type DiffLine struct {
	Line               pricing.CartLine
	EffectiveQuantity  int
	IsNew              bool
	IsQuantityIncrease bool
}

// Diff is the kitchen order ticket content. Reprint marks tickets where
// nothing incremental existed and all live lines were included instead.
type Diff struct {
	Lines         []DiffLine
	TotalQuantity int
	Reprint       bool
}

// Compose computes the minimal incremental ticket for the live cart against
// the last confirmed order. Only brand-new lines and quantity increases are
// included so repeat orders never make the kitchen over-prepare. When the
// incremental set comes out empty (pure removals or no change) the full
// cart is reprinted instead, so the kitchen always gets a complete ticket.
// A nil baseline means a new order: everything prints at full quantity.
func Compose(live []pricing.CartLine, baseline []pricing.CartLine) Diff {
	if baseline == nil {
		return fullTicket(live, false)
	}

	var out Diff
	for _, line := range live {
		switch {
		case line.IsNewItem:
			out.Lines = append(out.Lines, DiffLine{
				Line:              line,
				EffectiveQuantity: line.Quantity,
				IsNew:             true,
			})
			out.TotalQuantity += line.Quantity
		case line.Quantity > line.OriginalQuantity:
			added := line.Quantity - line.OriginalQuantity
			out.Lines = append(out.Lines, DiffLine{
				Line:               line,
				EffectiveQuantity:  added,
				IsQuantityIncrease: true,
			})
			out.TotalQuantity += added
		}
	}

	if len(out.Lines) == 0 {
		return fullTicket(live, true)
	}
	return out
}

func fullTicket(lines []pricing.CartLine, reprint bool) Diff {
	out := Diff{Reprint: reprint}
	for _, line := range lines {
		out.Lines = append(out.Lines, DiffLine{
			Line:              line,
			EffectiveQuantity: line.Quantity,
		})
		out.TotalQuantity += line.Quantity
	}
	return out
}
