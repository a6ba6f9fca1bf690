// Package orchestrator sequences pricing, document encoding and the printer
// transport for one user action, and owns the save-then-print contract: an
// order that reached the backend is never rolled back by a print failure.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tableserve/captain/internal/escpos"
	"github.com/tableserve/captain/internal/kot"
	"github.com/tableserve/captain/internal/orders"
	"github.com/tableserve/captain/internal/pricing"
	"github.com/tableserve/captain/internal/printer"
	"github.com/tableserve/captain/internal/store"
	"github.com/tableserve/captain/pkg/config"
	"github.com/tableserve/captain/pkg/enums"
	pkgerrors "github.com/tableserve/captain/pkg/errors"
	"github.com/tableserve/captain/pkg/logger"
	"github.com/tableserve/captain/pkg/metrics"
)

type printerTransport interface {
	Status() printer.Snapshot
	Send(ctx context.Context, payload []byte) error
}

type orderWriter interface {
	CreateOrder(ctx context.Context, req orders.OrderRequest) (orders.OrderResult, error)
	UpdateOrder(ctx context.Context, req orders.OrderRequest) (orders.OrderResult, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status enums.OrderStatus) error
}

type snapshotStore interface {
	Save(ctx context.Context, snapshot store.OrderSnapshot) error
	Get(ctx context.Context, orderID string) (store.OrderSnapshot, bool, error)
	Delete(ctx context.Context, orderID string) error
}

type fallbackRenderer interface {
	RenderReceipt(doc escpos.ReceiptDocument) ([]byte, error)
	RenderKOT(doc escpos.KOTDocument) ([]byte, error)
}

// Service executes print actions against the live cart.
type Service interface {
	Print(ctx context.Context, req PrintRequest) (*PrintResult, error)
	Quote(ctx context.Context, req QuoteRequest) (pricing.Breakdown, error)
	TestPrint(ctx context.Context) error
}

type service struct {
	transport printerTransport
	orders    orderWriter
	snapshots snapshotStore
	renderer  fallbackRenderer
	outlet    escpos.Outlet
	rates     pricing.Adjustments
	logg      *logger.Logger
	metrics   *metrics.PrintMetrics
	now       func() time.Time
}

// NewService builds the orchestrator.
func NewService(
	transport printerTransport,
	orderClient orderWriter,
	snapshots snapshotStore,
	renderer fallbackRenderer,
	cfg config.OutletConfig,
	logg *logger.Logger,
	m *metrics.PrintMetrics,
) (Service, error) {
	if transport == nil {
		return nil, fmt.Errorf("printer transport required")
	}
	if orderClient == nil {
		return nil, fmt.Errorf("order client required")
	}
	if snapshots == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("fallback renderer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	servicePercent, err := decimal.NewFromString(cfg.ServiceChargePercent)
	if err != nil {
		return nil, fmt.Errorf("invalid service charge percent %q: %w", cfg.ServiceChargePercent, err)
	}
	gstPercent, err := decimal.NewFromString(cfg.GSTPercent)
	if err != nil {
		return nil, fmt.Errorf("invalid gst percent %q: %w", cfg.GSTPercent, err)
	}

	return &service{
		transport: transport,
		orders:    orderClient,
		snapshots: snapshots,
		renderer:  renderer,
		outlet: escpos.Outlet{
			Name:    cfg.Name,
			Address: cfg.Address,
			Phone:   cfg.Phone,
			UPIID:   cfg.UPIID,
			GSTIN:   cfg.GSTIN,
			Footer:  cfg.FooterMessage,
		},
		rates: pricing.Adjustments{
			ServiceChargePercent: servicePercent,
			GSTPercent:           gstPercent,
		},
		logg:    logg,
		metrics: m,
		now:     time.Now,
	}, nil
}

// Print runs one action end to end. The order is persisted before the
// payload is transmitted; a print failure after a successful save returns
// the error together with the saved identifiers in the result.
func (s *service) Print(ctx context.Context, req PrintRequest) (*PrintResult, error) {
	start := s.now()
	ctx = s.logg.WithAction(ctx, string(req.Action))

	if err := validateRequest(req); err != nil {
		s.metrics.ObserveJob(string(req.Action), "rejected", s.now().Sub(start))
		return nil, err
	}

	adj, baseline, err := s.resolveAdjustments(ctx, req.OrderID, req.SpecialDiscount, req.ExtraCharges, req.Tip)
	if err != nil {
		return nil, err
	}
	breakdown := pricing.Compute(req.Lines, adj)

	var kotDoc *escpos.KOTDocument
	var receiptDoc *escpos.ReceiptDocument
	var payload []byte
	if req.Action.NeedsKOT() {
		doc := s.buildKOTDocument(req, kot.Compose(req.Lines, baseline))
		kotDoc = &doc
		payload = append(payload, escpos.EncodeKOT(doc)...)
	}
	if req.Action.NeedsReceipt() {
		doc := s.buildReceiptDocument(req, adj, breakdown)
		receiptDoc = &doc
		payload = append(payload, escpos.EncodeReceipt(doc)...)
	}

	result := &PrintResult{Breakdown: breakdown}

	if req.Action != enums.PrintActionKOT {
		if err := s.saveOrder(ctx, req, adj, result); err != nil {
			s.metrics.ObserveJob(string(req.Action), "save_failed", s.now().Sub(start))
			return nil, err
		}
	}

	if !s.transport.Status().IsConnected {
		fallback, err := s.renderFallback(req.Action, kotDoc, receiptDoc)
		if err != nil {
			s.metrics.ObserveJob(string(req.Action), "fallback_failed", s.now().Sub(start))
			return result, err
		}
		result.Fallback = fallback
		s.metrics.ObserveJob(string(req.Action), "fallback", s.now().Sub(start))
		s.logg.Info(ctx, "no printer connected, rendered fallback document")
		return result, nil
	}

	if err := s.transport.Send(ctx, payload); err != nil {
		s.metrics.ObserveJob(string(req.Action), "print_failed", s.now().Sub(start))
		s.logg.Error(ctx, "print transmission failed", err)
		// The saved order stands; the caller retries the print alone.
		return result, err
	}

	result.Printed = true
	s.metrics.ObserveJob(string(req.Action), "printed", s.now().Sub(start))
	return result, nil
}

// Quote computes the breakdown for the live cart without side effects. An
// existing order keeps its locked-in rates.
func (s *service) Quote(ctx context.Context, req QuoteRequest) (pricing.Breakdown, error) {
	adj, _, err := s.resolveAdjustments(ctx, req.OrderID, req.SpecialDiscount, req.ExtraCharges, req.Tip)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	return pricing.Compute(req.Lines, adj), nil
}

// TestPrint sends a short self-test ticket.
func (s *service) TestPrint(ctx context.Context) error {
	if !s.transport.Status().IsConnected {
		return pkgerrors.New(pkgerrors.CodeConnection, "no printer connected")
	}

	var buf escpos.Buffer
	payload := buf.Init().
		Align(escpos.AlignCenter).
		Size(escpos.SizeEmphasized).
		Line("PRINTER TEST").
		Size(escpos.SizeNormal).
		Line(s.outlet.Name).
		Line(s.now().Format("02/01/2006 15:04:05")).
		Feed(3).
		Cut().
		Bytes()

	return s.transport.Send(ctx, payload)
}

func (s *service) resolveAdjustments(ctx context.Context, orderID string, special, charges, tip decimal.Decimal) (pricing.Adjustments, []pricing.CartLine, error) {
	adj := pricing.Adjustments{
		SpecialDiscount:      special,
		ExtraCharges:         charges,
		Tip:                  tip,
		ServiceChargePercent: s.rates.ServiceChargePercent,
		GSTPercent:           s.rates.GSTPercent,
	}
	if orderID == "" {
		return adj, nil, nil
	}

	snapshot, ok, err := s.snapshots.Get(ctx, orderID)
	if err != nil {
		return pricing.Adjustments{}, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order snapshot")
	}
	if !ok {
		return adj, nil, nil
	}

	// Re-printing an old order must not pick up rate changes made since.
	adj.ServiceChargePercent = snapshot.Adjustments.ServiceChargePercent
	adj.GSTPercent = snapshot.Adjustments.GSTPercent
	return adj, snapshot.Lines, nil
}

func (s *service) buildReceiptDocument(req PrintRequest, adj pricing.Adjustments, breakdown pricing.Breakdown) escpos.ReceiptDocument {
	return escpos.ReceiptDocument{
		Outlet:     s.outlet,
		BillNumber: req.BillNumber,
		OrderType:  req.OrderType,
		Table:      req.Table,
		Timestamp:  s.now(),
		Customer: escpos.Customer{
			Name:   req.Customer.Name,
			Mobile: req.Customer.Mobile,
		},
		Lines:       req.Lines,
		Adjustments: adj,
		Breakdown:   breakdown,
		Payment: escpos.Payment{
			Status: req.Payment.Status,
			Method: req.Payment.Method,
		},
	}
}

func (s *service) buildKOTDocument(req PrintRequest, diff kot.Diff) escpos.KOTDocument {
	return escpos.KOTDocument{
		Outlet:     s.outlet,
		BillNumber: req.BillNumber,
		Table:      req.Table,
		Timestamp:  s.now(),
		Diff:       diff,
	}
}

func (s *service) saveOrder(ctx context.Context, req PrintRequest, adj pricing.Adjustments, result *PrintResult) error {
	orderReq := buildOrderRequest(req)

	var saved orders.OrderResult
	var err error
	if req.OrderID == "" {
		saved, err = s.orders.CreateOrder(ctx, orderReq)
	} else {
		saved, err = s.orders.UpdateOrder(ctx, orderReq)
	}
	if err != nil {
		return err
	}

	result.OrderID = saved.OrderID
	result.OrderNumber = saved.OrderNumber
	result.Saved = true

	if req.Action == enums.PrintActionSettle {
		if err := s.orders.UpdateOrderStatus(ctx, saved.OrderID, enums.OrderStatusCompleted); err != nil {
			return err
		}
		if err := s.snapshots.Delete(ctx, saved.OrderID); err != nil {
			s.logg.Warn(s.logg.WithOrderID(ctx, saved.OrderID), "failed to drop settled order snapshot")
		}
		return nil
	}

	// The resolved adjustments carry the rates this order was opened with;
	// persisting them keeps re-saves from absorbing later config changes.
	snapshot := store.OrderSnapshot{
		OrderID:     saved.OrderID,
		BillNumber:  req.BillNumber,
		Lines:       confirmedLines(req.Lines),
		Adjustments: adj,
	}
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		s.logg.Warn(s.logg.WithOrderID(ctx, saved.OrderID), "failed to persist order snapshot")
	}
	return nil
}

func (s *service) renderFallback(action enums.PrintAction, kotDoc *escpos.KOTDocument, receiptDoc *escpos.ReceiptDocument) ([]byte, error) {
	// The receipt is the document worth keeping around; a KOT-only action
	// falls back to the ticket itself.
	if action.NeedsReceipt() && receiptDoc != nil {
		return s.renderer.RenderReceipt(*receiptDoc)
	}
	if kotDoc != nil {
		return s.renderer.RenderKOT(*kotDoc)
	}
	return nil, pkgerrors.New(pkgerrors.CodeEncoding, "nothing to render")
}

// confirmedLines is the baseline the next KOT diff runs against: every live
// quantity becomes the confirmed quantity.
func confirmedLines(lines []pricing.CartLine) []pricing.CartLine {
	confirmed := make([]pricing.CartLine, len(lines))
	for i, line := range lines {
		line.OriginalQuantity = line.Quantity
		line.IsNewItem = false
		confirmed[i] = line
	}
	return confirmed
}

func buildOrderRequest(req PrintRequest) orders.OrderRequest {
	items := make([]orders.OrderItem, 0, len(req.Lines))
	for _, line := range req.Lines {
		items = append(items, orders.OrderItem{
			MenuID:     line.MenuID,
			Quantity:   line.Quantity,
			HalfOrFull: line.Portion,
			Price:      line.UnitPrice,
			TotalPrice: line.TotalPrice(),
			Comment:    line.Comment,
		})
	}

	return orders.OrderRequest{
		OrderID:         req.OrderID,
		OrderType:       req.OrderType,
		TableNumber:     req.Table,
		Items:           items,
		IsPaid:          req.Payment.Status,
		PaymentMethod:   req.Payment.Method,
		SpecialDiscount: req.SpecialDiscount,
		Charges:         req.ExtraCharges,
		Tip:             req.Tip,
		CustomerName:    req.Customer.Name,
		CustomerMobile:  req.Customer.Mobile,
	}
}
