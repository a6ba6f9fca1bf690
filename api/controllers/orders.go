package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tableserve/captain/api/responses"
	"github.com/tableserve/captain/api/validators"
	"github.com/tableserve/captain/internal/orchestrator"
	"github.com/tableserve/captain/internal/pricing"
	"github.com/tableserve/captain/pkg/enums"
	pkgerrors "github.com/tableserve/captain/pkg/errors"
	"github.com/tableserve/captain/pkg/logger"
)

type orderItemDTO struct {
	MenuID           int64           `json:"menu_id" validate:"required"`
	Name             string          `json:"name" validate:"required"`
	Portion          string          `json:"half_or_full" validate:"omitempty,oneof=full half"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Quantity         int             `json:"quantity" validate:"required,min=1,max=20"`
	OfferPercent     decimal.Decimal `json:"offer_percent"`
	IsNewItem        bool            `json:"is_new_item"`
	OriginalQuantity int             `json:"original_quantity" validate:"min=0"`
	Comment          string          `json:"comment"`
}

type printRequestDTO struct {
	Action          string          `json:"action" validate:"required,oneof=print_and_save kot kot_and_save settle"`
	OrderID         string          `json:"order_id"`
	BillNumber      string          `json:"bill_number"`
	OrderType       string          `json:"order_type" validate:"omitempty,oneof=dine_in takeaway delivery"`
	TableNumber     string          `json:"table_number"`
	CustomerName    string          `json:"customer_name"`
	CustomerMobile  string          `json:"customer_mobile" validate:"omitempty,mobile"`
	Items           []orderItemDTO  `json:"items" validate:"required,min=1,dive"`
	SpecialDiscount decimal.Decimal `json:"special_discount"`
	ExtraCharges    decimal.Decimal `json:"extra_charges"`
	Tip             decimal.Decimal `json:"tip"`
	IsPaid          string          `json:"is_paid" validate:"omitempty,oneof=paid unpaid complementary"`
	PaymentMethod   string          `json:"payment_method" validate:"omitempty,oneof=cash upi card"`
}

type quoteRequestDTO struct {
	OrderID         string          `json:"order_id"`
	Items           []orderItemDTO  `json:"items" validate:"required,min=1,dive"`
	SpecialDiscount decimal.Decimal `json:"special_discount"`
	ExtraCharges    decimal.Decimal `json:"extra_charges"`
	Tip             decimal.Decimal `json:"tip"`
}

type breakdownDTO struct {
	Subtotal                  string `json:"subtotal"`
	MenuDiscountAmount        string `json:"menu_discount_amount"`
	MenuDiscountPercent       string `json:"menu_discount_percent"`
	TotalAfterMenuDiscount    string `json:"total_after_menu_discount"`
	TotalAfterSpecialDiscount string `json:"total_after_special_discount"`
	TotalAfterExtraCharges    string `json:"total_after_extra_charges"`
	ServiceChargeAmount       string `json:"service_charge_amount"`
	TotalAfterService         string `json:"total_after_service"`
	GSTAmount                 string `json:"gst_amount"`
	GrandTotal                string `json:"grand_total"`
}

type printResponseDTO struct {
	OrderID      string       `json:"order_id,omitempty"`
	OrderNumber  string       `json:"order_number,omitempty"`
	Saved        bool         `json:"saved"`
	Printed      bool         `json:"printed"`
	FallbackHTML string       `json:"fallback_html,omitempty"`
	Breakdown    breakdownDTO `json:"breakdown"`
}

// OrdersPrint executes one print action.
func OrdersPrint(svc orchestrator.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orchestrator unavailable"))
			return
		}

		var payload printRequestDTO
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Print(r.Context(), toPrintRequest(payload))
		if err != nil {
			// A failed print after a successful save still tells the
			// caller which order it created.
			if result != nil && result.Saved {
				if typed := pkgerrors.As(err); typed != nil {
					err = typed.WithDetails(map[string]any{
						"order_id":     result.OrderID,
						"order_number": result.OrderNumber,
						"saved":        true,
					})
				}
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPrintResponse(result))
	}
}

// OrdersQuote computes the running total without printing or saving.
func OrdersQuote(svc orchestrator.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orchestrator unavailable"))
			return
		}

		var payload quoteRequestDTO
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		breakdown, err := svc.Quote(r.Context(), orchestrator.QuoteRequest{
			OrderID:         payload.OrderID,
			Lines:           toCartLines(payload.Items),
			SpecialDiscount: payload.SpecialDiscount,
			ExtraCharges:    payload.ExtraCharges,
			Tip:             payload.Tip,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newBreakdownDTO(breakdown))
	}
}

func toPrintRequest(payload printRequestDTO) orchestrator.PrintRequest {
	orderType := enums.OrderType(payload.OrderType)
	if payload.OrderType == "" {
		orderType = enums.OrderTypeDineIn
	}
	status := enums.PaymentStatus(payload.IsPaid)
	if payload.IsPaid == "" {
		status = enums.PaymentStatusUnpaid
	}

	return orchestrator.PrintRequest{
		Action:     enums.PrintAction(payload.Action),
		OrderID:    payload.OrderID,
		BillNumber: payload.BillNumber,
		OrderType:  orderType,
		Table:      payload.TableNumber,
		Customer: orchestrator.CustomerInput{
			Name:   payload.CustomerName,
			Mobile: payload.CustomerMobile,
		},
		Lines:           toCartLines(payload.Items),
		SpecialDiscount: payload.SpecialDiscount,
		ExtraCharges:    payload.ExtraCharges,
		Tip:             payload.Tip,
		Payment: orchestrator.PaymentInput{
			Status: status,
			Method: enums.PaymentMethod(payload.PaymentMethod),
		},
	}
}

func toCartLines(items []orderItemDTO) []pricing.CartLine {
	lines := make([]pricing.CartLine, 0, len(items))
	for _, item := range items {
		portion := enums.Portion(item.Portion)
		if item.Portion == "" {
			portion = enums.PortionFull
		}
		lines = append(lines, pricing.CartLine{
			MenuID:           item.MenuID,
			Name:             item.Name,
			Portion:          portion,
			UnitPrice:        item.UnitPrice,
			Quantity:         item.Quantity,
			OfferPercent:     item.OfferPercent,
			IsNewItem:        item.IsNewItem,
			OriginalQuantity: item.OriginalQuantity,
			Comment:          item.Comment,
		})
	}
	return lines
}

func newPrintResponse(result *orchestrator.PrintResult) printResponseDTO {
	return printResponseDTO{
		OrderID:      result.OrderID,
		OrderNumber:  result.OrderNumber,
		Saved:        result.Saved,
		Printed:      result.Printed,
		FallbackHTML: string(result.Fallback),
		Breakdown:    newBreakdownDTO(result.Breakdown),
	}
}

func newBreakdownDTO(b pricing.Breakdown) breakdownDTO {
	return breakdownDTO{
		Subtotal:                  b.Subtotal.StringFixed(2),
		MenuDiscountAmount:        b.MenuDiscountAmount.StringFixed(2),
		MenuDiscountPercent:       b.MenuDiscountPercent.StringFixed(2),
		TotalAfterMenuDiscount:    b.TotalAfterMenuDiscount.StringFixed(2),
		TotalAfterSpecialDiscount: b.TotalAfterSpecialDiscount.StringFixed(2),
		TotalAfterExtraCharges:    b.TotalAfterExtraCharges.StringFixed(2),
		ServiceChargeAmount:       b.ServiceChargeAmount.StringFixed(2),
		TotalAfterService:         b.TotalAfterService.StringFixed(2),
		GSTAmount:                 b.GSTAmount.StringFixed(2),
		GrandTotal:                b.GrandTotal.StringFixed(2),
	}
}
