package escpos

import (
	"strings"

	"github.com/shopspring/decimal"
)

// 32-column paper layout. The item table splits into a 16-char name column,
// 3-char quantity, 6-char rate and 7-char amount, all widths fixed so the
// printed table lines up without tabs.
const (
	paperWidth  = 32
	nameWidth   = 16
	qtyWidth    = 3
	rateWidth   = 6
	amountWidth = 7

	wrapIndent = 2
)

func separator() string {
	return strings.Repeat("-", paperWidth)
}

// printable degrades text to the ASCII subset the printer renders, one '?'
// per unsupported rune, so the column math below measures exactly what
// Buffer.Text will emit.
func printable(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 0x20 || r > 0x7E {
			b.WriteByte('?')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// itemRows renders one cart line into fixed-width rows. Names longer than
// the name column wrap onto continuation lines indented under the name,
// without repeating the numeric columns.
func itemRows(name string, qty string, rate, amount decimal.Decimal) []string {
	chunks := wrapText(printable(name), nameWidth)
	if len(chunks) == 0 {
		chunks = []string{""}
	}

	first := padRight(chunks[0], nameWidth) +
		padLeft(qty, qtyWidth) +
		padLeft(rate.StringFixed(2), rateWidth) +
		padLeft(amount.StringFixed(2), amountWidth)

	rows := []string{first}
	for _, chunk := range chunks[1:] {
		rows = append(rows, strings.Repeat(" ", wrapIndent)+chunk)
	}
	return rows
}

// itemHeaderRow is the column header above the item table.
func itemHeaderRow() string {
	return padRight("Item", nameWidth) +
		padLeft("Qty", qtyWidth) +
		padLeft("Rate", rateWidth) +
		padLeft("Amount", amountWidth)
}

// amountRow lays out a totals row: label on the left, the value
// right-justified to the paper edge. An optional sign prefixes charge and
// discount amounts.
func amountRow(label string, amount decimal.Decimal, sign string) string {
	label = printable(label)
	value := sign + amount.StringFixed(2)
	pad := paperWidth - len(label) - len(value)
	if pad < 1 {
		pad = 1
	}
	return label + strings.Repeat(" ", pad) + value
}

// wrapText splits text into chunks of at most width columns, breaking on
// spaces where one fits in the window. Callers pass printable text, so a
// byte is a column.
func wrapText(text string, width int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	for len(text) > width {
		cut := strings.LastIndex(text[:width+1], " ")
		if cut <= 0 {
			cut = width
		}
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
