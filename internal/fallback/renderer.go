// Package fallback renders receipts and kitchen tickets as self-contained
// HTML for when no printer is reachable. The output embeds the payment QR
// as a data URI so it can be shared or shown on screen as-is.
package fallback

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/tableserve/captain/internal/escpos"
	"github.com/tableserve/captain/pkg/enums"
	pkgerrors "github.com/tableserve/captain/pkg/errors"
)

const qrImageSize = 256

// Renderer holds the parsed templates.
type Renderer struct {
	receipt *template.Template
	kot     *template.Template
}

// NewRenderer parses the built-in templates.
func NewRenderer() (*Renderer, error) {
	receipt, err := template.New("receipt").Parse(receiptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing receipt template: %w", err)
	}
	kot, err := template.New("kot").Parse(kotTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing kot template: %w", err)
	}
	return &Renderer{receipt: receipt, kot: kot}, nil
}

// RenderReceipt produces the HTML equivalent of a printed receipt.
func (r *Renderer) RenderReceipt(doc escpos.ReceiptDocument) ([]byte, error) {
	view, err := buildReceiptView(doc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := r.receipt.Execute(&buf, view); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeEncoding, err, "render receipt html")
	}
	return buf.Bytes(), nil
}

// RenderKOT produces the HTML equivalent of a kitchen ticket.
func (r *Renderer) RenderKOT(doc escpos.KOTDocument) ([]byte, error) {
	view := buildKOTView(doc)

	var buf bytes.Buffer
	if err := r.kot.Execute(&buf, view); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeEncoding, err, "render kot html")
	}
	return buf.Bytes(), nil
}

type receiptView struct {
	Outlet     escpos.Outlet
	BillNumber string
	OrderType  string
	Table      string
	Timestamp  string
	Customer   escpos.Customer
	Rows       []receiptRow
	Totals     []totalRow
	GrandTotal string
	Payment    string
	ShowQR     bool
	QRDataURI  template.URL
}

type receiptRow struct {
	Name   string
	Qty    int
	Rate   string
	Amount string
}

type totalRow struct {
	Label  string
	Amount string
}

func buildReceiptView(doc escpos.ReceiptDocument) (receiptView, error) {
	view := receiptView{
		Outlet:     doc.Outlet,
		BillNumber: doc.BillNumber,
		OrderType:  string(doc.OrderType),
		Table:      doc.Table,
		Timestamp:  doc.Timestamp.Format("02/01/2006 15:04"),
		Customer:   doc.Customer,
		GrandTotal: doc.Breakdown.GrandTotal.StringFixed(2),
	}

	for _, line := range doc.Lines {
		name := line.Name
		if line.Portion == enums.PortionHalf {
			name += " (H)"
		}
		view.Rows = append(view.Rows, receiptRow{
			Name:   name,
			Qty:    line.Quantity,
			Rate:   line.UnitPrice.StringFixed(2),
			Amount: line.TotalPrice().StringFixed(2),
		})
	}

	view.Totals = buildTotalRows(doc)

	switch doc.Payment.Status {
	case enums.PaymentStatusComplementary:
		view.Payment = "COMPLEMENTARY"
	case enums.PaymentStatusPaid:
		view.Payment = fmt.Sprintf("PAID - %s", doc.Payment.Method)
	default:
		view.Payment = "Scan to pay"
		uri := escpos.BuildUPIURI(doc.Outlet.UPIID, doc.Outlet.Name, doc.Breakdown.GrandTotal)
		if uri != "" {
			png, err := qrcode.Encode(uri, qrcode.Medium, qrImageSize)
			if err != nil {
				return receiptView{}, pkgerrors.Wrap(pkgerrors.CodeEncoding, err, "encode payment qr")
			}
			view.ShowQR = true
			view.QRDataURI = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
		}
	}

	return view, nil
}

func buildTotalRows(doc escpos.ReceiptDocument) []totalRow {
	b := doc.Breakdown
	rows := []totalRow{{Label: "Subtotal", Amount: b.Subtotal.StringFixed(2)}}

	appendRow := func(label string, amount decimal.Decimal, negative bool) {
		if amount.IsZero() {
			return
		}
		value := amount.StringFixed(2)
		if negative {
			value = "-" + value
		}
		rows = append(rows, totalRow{Label: label, Amount: value})
	}

	appendRow(fmt.Sprintf("Discount (%s%%)", b.MenuDiscountPercent.StringFixed(0)), b.MenuDiscountAmount, true)
	appendRow("Special Discount", doc.Adjustments.SpecialDiscount, true)
	appendRow("Extra Charges", doc.Adjustments.ExtraCharges, false)
	appendRow(fmt.Sprintf("Service (%s%%)", doc.Adjustments.ServiceChargePercent.StringFixed(0)), b.ServiceChargeAmount, false)
	appendRow(fmt.Sprintf("GST (%s%%)", doc.Adjustments.GSTPercent.StringFixed(0)), b.GSTAmount, false)
	appendRow("Tip", doc.Adjustments.Tip, false)
	return rows
}

type kotView struct {
	Outlet     string
	BillNumber string
	Table      string
	Timestamp  string
	Reprint    bool
	Rows       []kotRow
	TotalItems int
}

type kotRow struct {
	Name    string
	Qty     int
	Tag     string
	Comment string
}

func buildKOTView(doc escpos.KOTDocument) kotView {
	view := kotView{
		Outlet:     doc.Outlet.Name,
		BillNumber: doc.BillNumber,
		Table:      doc.Table,
		Timestamp:  doc.Timestamp.Format("02/01/2006 15:04"),
		Reprint:    doc.Diff.Reprint,
		TotalItems: doc.Diff.TotalQuantity,
	}
	for _, line := range doc.Diff.Lines {
		tag := ""
		if line.IsNew {
			tag = "NEW"
		} else if line.IsQuantityIncrease {
			tag = "ADD"
		}
		name := line.Line.Name
		if line.Line.Portion == enums.PortionHalf {
			name += " (H)"
		}
		view.Rows = append(view.Rows, kotRow{
			Name:    name,
			Qty:     line.EffectiveQuantity,
			Tag:     tag,
			Comment: line.Line.Comment,
		})
	}
	return view
}
