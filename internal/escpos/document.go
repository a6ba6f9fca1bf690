package escpos

import (
	"time"

	"github.com/tableserve/captain/internal/kot"
	"github.com/tableserve/captain/internal/pricing"
	"github.com/tableserve/captain/pkg/enums"
)

// Outlet is the restaurant identity block printed at the top of every
// document. All fields except Name are optional.
type Outlet struct {
	Name    string
	Address string
	Phone   string
	UPIID   string
	GSTIN   string
	Footer  string
}

// Customer is the optional customer block on a receipt.
type Customer struct {
	Name   string
	Mobile string
}

// ReceiptDocument is the immutable input for one receipt print. It is built
// once per print from the cart, the computed breakdown and the order meta.
type ReceiptDocument struct {
	Outlet      Outlet
	BillNumber  string
	OrderType   enums.OrderType
	Table       string
	Timestamp   time.Time
	Customer    Customer
	Lines       []pricing.CartLine
	Adjustments pricing.Adjustments
	Breakdown   pricing.Breakdown
	Payment     Payment
}

// Payment captures how (and whether) the order was settled.
type Payment struct {
	Status enums.PaymentStatus
	Method enums.PaymentMethod
}

// KOTDocument is the input for one kitchen ticket print.
type KOTDocument struct {
	Outlet     Outlet
	BillNumber string
	Table      string
	Timestamp  time.Time
	Diff       kot.Diff
}
