package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tableserve/captain/pkg/config"
	"github.com/tableserve/captain/pkg/enums"
	pkgerrors "github.com/tableserve/captain/pkg/errors"
	"github.com/tableserve/captain/pkg/logger"
)

const (
	createOrderPath       = "create_order"
	updateOrderPath       = "update_order"
	updateOrderStatusPath = "update_order_status"

	responseBodyReadLimit int64 = 4096
)

var errBaseURLRequired = errors.New("order api base url is required")

// Client is the thin wrapper around the order-management REST API. Orders
// live on the backend; this client only persists and settles them.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the order API client.
func NewClient(cfg config.OrderAPIConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      strings.TrimSpace(cfg.Token),
		logg:       logg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// CreateOrder persists a new order and returns the backend identifiers.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (OrderResult, error) {
	if len(req.Items) == 0 {
		return OrderResult{}, pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}
	return c.postOrder(ctx, createOrderPath, req)
}

// UpdateOrder replaces the cart of an existing order.
func (c *Client) UpdateOrder(ctx context.Context, req OrderRequest) (OrderResult, error) {
	if strings.TrimSpace(req.OrderID) == "" {
		return OrderResult{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required for update")
	}
	if len(req.Items) == 0 {
		return OrderResult{}, pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}
	return c.postOrder(ctx, updateOrderPath, req)
}

// UpdateOrderStatus transitions an order, e.g. to completed on settle.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status enums.OrderStatus) error {
	if strings.TrimSpace(orderID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	// The backend has been seen spelling cancellation three ways; fold the
	// aliases into the canonical enum before they hit the wire.
	normalized, err := enums.NormalizeOrderStatus(string(status))
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}

	payload := map[string]any{
		"order_id": orderID,
		"status":   normalized,
	}
	_, err = c.post(ctx, updateOrderStatusPath, payload)
	return err
}

func (c *Client) postOrder(ctx context.Context, path string, req OrderRequest) (OrderResult, error) {
	resp, err := c.post(ctx, path, req)
	if err != nil {
		return OrderResult{}, err
	}

	result := OrderResult{
		OrderID:     resp.OrderID.String(),
		OrderNumber: resp.OrderNumber.String(),
	}
	if result.OrderID == "" {
		result.OrderID = req.OrderID
	}
	if c.logg != nil {
		c.logg.Info(c.logg.WithOrderID(ctx, result.OrderID), "order persisted")
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("marshal %s request", path))
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, path)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("build %s request", path))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("execute %s request", path))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			fmt.Sprintf("%s request failed", path),
		)
	}

	var apiResp apiResponse
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s response", path))
	}

	// The backend signals failure in-band; its message is surfaced verbatim.
	if apiResp.St != 1 {
		msg := strings.TrimSpace(apiResp.Msg)
		if msg == "" {
			msg = fmt.Sprintf("%s rejected by order service", path)
		}
		return nil, pkgerrors.New(pkgerrors.CodeDependency, msg)
	}
	return &apiResp, nil
}
