package escpos

import (
	"strconv"
	"strings"
)

// KOT item table: a wider name column and a small quantity/tag pair, still
// 32 columns total.
const (
	kotNameWidth = 24
	kotQtyWidth  = 4
	kotTagWidth  = 4
)

// EncodeKOT renders a kitchen ticket. Incremental tickets tag added lines
// so the kitchen can tell a top-up from a fresh order; reprints carry a
// banner instead.
func EncodeKOT(doc KOTDocument) []byte {
	var b Buffer
	b.Init()

	b.Align(AlignCenter)
	b.Size(SizeDouble).Line("KOT").Size(SizeNormal)
	if doc.Outlet.Name != "" {
		b.Line(doc.Outlet.Name)
	}
	b.Align(AlignLeft)
	b.Line(separator())

	if doc.BillNumber != "" {
		b.Line("Bill No: " + doc.BillNumber)
	}
	if doc.Table != "" {
		b.Line("Table: " + doc.Table)
	}
	if !doc.Timestamp.IsZero() {
		b.Line("Time: " + doc.Timestamp.Format("02/01/2006 15:04"))
	}
	if doc.Diff.Reprint {
		b.Size(SizeEmphasized).Line("** REPRINT **").Size(SizeNormal)
	}
	b.Line(separator())

	for _, diffLine := range doc.Diff.Lines {
		name := diffLine.Line.Name
		if diffLine.Line.Portion != "" {
			name += " (" + string(diffLine.Line.Portion) + ")"
		}

		tag := ""
		switch {
		case diffLine.IsNew:
			tag = "NEW"
		case diffLine.IsQuantityIncrease:
			tag = "ADD"
		}

		chunks := wrapText(printable(name), kotNameWidth)
		if len(chunks) == 0 {
			chunks = []string{""}
		}
		first := padRight(chunks[0], kotNameWidth) +
			padLeft("x"+strconv.Itoa(diffLine.EffectiveQuantity), kotQtyWidth) +
			padLeft(tag, kotTagWidth)
		b.Line(first)
		for _, chunk := range chunks[1:] {
			b.Line(strings.Repeat(" ", wrapIndent) + chunk)
		}

		if comment := diffLine.Line.Comment; comment != "" {
			for _, row := range wrapText("> "+printable(comment), paperWidth-wrapIndent) {
				b.Line(strings.Repeat(" ", wrapIndent) + row)
			}
		}
	}

	b.Line(separator())
	b.Line(amountRowInt("Total Items", doc.Diff.TotalQuantity))
	b.Feed(3).Cut()
	return b.Bytes()
}

func amountRowInt(label string, value int) string {
	text := strconv.Itoa(value)
	pad := paperWidth - len(label) - len(text)
	if pad < 1 {
		pad = 1
	}
	return label + strings.Repeat(" ", pad) + text
}
