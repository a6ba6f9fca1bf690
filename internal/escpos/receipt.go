package escpos

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tableserve/captain/pkg/enums"
)

// EncodeReceipt renders the receipt document into an ESC/POS byte stream.
// Missing optional fields simply produce fewer rows; encoding never fails.
func EncodeReceipt(doc ReceiptDocument) []byte {
	var b Buffer
	b.Init()

	encodeOutletHeader(&b, doc.Outlet)
	b.Line(separator())

	encodeBillMeta(&b, doc)
	b.Line(separator())

	b.Line(itemHeaderRow())
	b.Line(separator())
	for _, line := range doc.Lines {
		name := line.Name
		if line.Portion == enums.PortionHalf {
			name += " (half)"
		}
		qty := strconv.Itoa(line.Quantity)
		for _, row := range itemRows(name, qty, line.UnitPrice, line.TotalPrice()) {
			b.Line(row)
		}
	}
	b.Line(separator())

	encodeTotals(&b, doc)
	b.Line(separator())

	encodePaymentBlock(&b, doc)

	if doc.Outlet.Footer != "" {
		b.Align(AlignCenter).Line(doc.Outlet.Footer).Align(AlignLeft)
	}

	b.Feed(3).Cut()
	return b.Bytes()
}

func encodeOutletHeader(b *Buffer, outlet Outlet) {
	b.Align(AlignCenter)
	b.Size(SizeDouble).Line(outlet.Name).Size(SizeNormal)
	if outlet.Address != "" {
		for _, row := range wrapText(printable(outlet.Address), paperWidth) {
			b.Line(row)
		}
	}
	if outlet.Phone != "" {
		b.Line("Ph: " + outlet.Phone)
	}
	if outlet.GSTIN != "" {
		b.Line("GSTIN: " + outlet.GSTIN)
	}
	b.Align(AlignLeft)
}

func encodeBillMeta(b *Buffer, doc ReceiptDocument) {
	if doc.BillNumber != "" {
		b.Line("Bill No: " + doc.BillNumber)
	}
	if doc.OrderType != "" {
		b.Line("Order: " + orderTypeLabel(doc.OrderType))
	}
	if doc.Table != "" {
		b.Line("Table: " + doc.Table)
	}
	if !doc.Timestamp.IsZero() {
		b.Line("Date: " + doc.Timestamp.Format("02/01/2006 15:04"))
	}
	if doc.Customer.Name != "" {
		b.Line("Customer: " + doc.Customer.Name)
	}
	if doc.Customer.Mobile != "" {
		b.Line("Mobile: " + doc.Customer.Mobile)
	}
}

func encodeTotals(b *Buffer, doc ReceiptDocument) {
	br := doc.Breakdown
	adj := doc.Adjustments

	b.Line(amountRow("Subtotal", br.Subtotal, ""))

	// Zero-amount optional rows are omitted entirely, not printed as 0.00.
	if !br.MenuDiscountAmount.IsZero() {
		label := fmt.Sprintf("Discount (%s%%)", br.MenuDiscountPercent.StringFixed(0))
		b.Line(amountRow(label, br.MenuDiscountAmount, "-"))
	}
	if !adj.SpecialDiscount.IsZero() {
		b.Line(amountRow("Special Discount", adj.SpecialDiscount, "-"))
	}
	if !adj.ExtraCharges.IsZero() {
		b.Line(amountRow("Extra Charges", adj.ExtraCharges, "+"))
	}
	if !br.ServiceChargeAmount.IsZero() {
		label := fmt.Sprintf("Service (%s%%)", adj.ServiceChargePercent.StringFixed(0))
		b.Line(amountRow(label, br.ServiceChargeAmount, "+"))
	}
	if !br.GSTAmount.IsZero() {
		label := fmt.Sprintf("GST (%s%%)", adj.GSTPercent.StringFixed(0))
		b.Line(amountRow(label, br.GSTAmount, "+"))
	}
	if !adj.Tip.IsZero() {
		b.Line(amountRow("Tip", adj.Tip, "+"))
	}

	b.Size(SizeEmphasized)
	b.Line(amountRow("TOTAL", br.GrandTotal, ""))
	b.Size(SizeNormal)
}

func encodePaymentBlock(b *Buffer, doc ReceiptDocument) {
	switch doc.Payment.Status {
	case enums.PaymentStatusComplementary:
		b.Align(AlignCenter).Line("COMPLEMENTARY").Align(AlignLeft)
		return
	case enums.PaymentStatusPaid:
		b.Align(AlignCenter).Line("PAID - " + strings.ToUpper(string(doc.Payment.Method))).Align(AlignLeft)
		return
	}

	// Unpaid: offer the UPI QR when the outlet has a UPI id.
	if uri := BuildUPIURI(doc.Outlet.UPIID, doc.Outlet.Name, doc.Breakdown.GrandTotal); uri != "" {
		b.Align(AlignCenter)
		b.Line("Scan to pay")
		b.QR(uri, 6)
		b.Feed(1)
		b.Align(AlignLeft)
	}
}

func orderTypeLabel(orderType enums.OrderType) string {
	switch orderType {
	case enums.OrderTypeDineIn:
		return "Dine In"
	case enums.OrderTypeTakeaway:
		return "Takeaway"
	case enums.OrderTypeDelivery:
		return "Delivery"
	default:
		return string(orderType)
	}
}
