package orders

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/tableserve/captain/pkg/enums"
)

// OrderItem is one cart line as the order-management API expects it.
type OrderItem struct {
	MenuID     int64           `json:"menu_id"`
	Quantity   int             `json:"quantity"`
	HalfOrFull enums.Portion   `json:"half_or_full"`
	Price      decimal.Decimal `json:"price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Comment    string          `json:"comment,omitempty"`
}

// OrderRequest is the create/update payload. OrderID is empty on create.
type OrderRequest struct {
	OrderID         string              `json:"order_id,omitempty"`
	OrderType       enums.OrderType     `json:"order_type"`
	TableNumber     string              `json:"table_number,omitempty"`
	Items           []OrderItem         `json:"order_items"`
	IsPaid          enums.PaymentStatus `json:"is_paid"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method,omitempty"`
	SpecialDiscount decimal.Decimal     `json:"special_discount"`
	Charges         decimal.Decimal     `json:"charges"`
	Tip             decimal.Decimal     `json:"tip"`
	CustomerName    string              `json:"customer_name,omitempty"`
	CustomerMobile  string              `json:"customer_mobile,omitempty"`
}

// OrderResult carries the backend identifiers for a persisted order.
type OrderResult struct {
	OrderID     string
	OrderNumber string
}

// apiResponse is the wire envelope. st is 1 on success; msg carries the
// backend's human-readable explanation on failure. Identifier fields arrive
// as either strings or numbers depending on the endpoint.
type apiResponse struct {
	St          int         `json:"st"`
	Msg         string      `json:"msg"`
	OrderNumber json.Number `json:"order_number"`
	OrderID     json.Number `json:"order_id"`
}
