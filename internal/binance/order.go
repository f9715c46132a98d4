package binance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	orderPath      = "/api/v3/order"
	orderTestPath  = "/api/v3/order/test"
	openOrdersPath = "/api/v3/openOrders"
)

type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

type OrderType string

const (
	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeMarket OrderType = "MARKET"
)

type TimeInForce string

const (
	TimeInForceGTC TimeInForce = "GTC"
	TimeInForceIOC TimeInForce = "IOC"
	TimeInForceFOK TimeInForce = "FOK"
)

// OrderRequest describes a new spot order. ClientOrderID may be left empty;
// a fresh UUID is assigned so the order stays identifiable to the caller.
type OrderRequest struct {
	Symbol        string
	Side          OrderSide
	Type          OrderType
	TimeInForce   TimeInForce
	Quantity      decimal.Decimal
	Price         decimal.Decimal
	ClientOrderID string
}

// OrderStatus is the venue's order record as returned by the order
// endpoints.
type OrderStatus struct {
	Symbol        string          `json:"symbol"`
	OrderID       int64           `json:"orderId"`
	ClientOrderID string          `json:"clientOrderId"`
	TransactTime  int64           `json:"transactTime"`
	Price         decimal.Decimal `json:"price"`
	OrigQty       decimal.Decimal `json:"origQty"`
	ExecutedQty   decimal.Decimal `json:"executedQty"`
	Status        string          `json:"status"`
	TimeInForce   TimeInForce     `json:"timeInForce"`
	Type          OrderType       `json:"type"`
	Side          OrderSide       `json:"side"`
}

func (r OrderRequest) params() Params {
	params := Params{
		{"symbol", r.Symbol},
		{"side", string(r.Side)},
		{"type", string(r.Type)},
	}
	if r.TimeInForce != "" {
		params = append(params, Param{"timeInForce", string(r.TimeInForce)})
	}
	if !r.Quantity.IsZero() {
		params = append(params, Param{"quantity", r.Quantity.String()})
	}
	if !r.Price.IsZero() {
		params = append(params, Param{"price", r.Price.String()})
	}
	clientOrderID := r.ClientOrderID
	if clientOrderID == "" {
		clientOrderID = uuid.NewString()
	}
	params = append(params, Param{"newClientOrderId", clientOrderID})
	return params
}

// PlaceOrder submits a new order for execution.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (*OrderStatus, error) {
	return c.sendOrder(ctx, orderPath, req)
}

// TestOrder validates an order against the matching engine without placing
// it.
func (c *Client) TestOrder(ctx context.Context, req OrderRequest) error {
	status, body, err := c.do(ctx, MethodPost, orderTestPath, req.params(), secSigned)
	if err != nil {
		return err
	}
	return decodeInto(status, body, nil)
}

func (c *Client) sendOrder(ctx context.Context, path string, req OrderRequest) (*OrderStatus, error) {
	status, body, err := c.do(ctx, MethodPost, path, req.params(), secSigned)
	if err != nil {
		return nil, err
	}

	var order OrderStatus
	if err := decodeInto(status, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// QueryOrder looks up a single order by its venue-assigned id.
func (c *Client) QueryOrder(ctx context.Context, symbol string, orderID int64) (*OrderStatus, error) {
	params := Params{
		{"symbol", symbol},
		{"orderId", fmt.Sprintf("%d", orderID)},
	}

	status, body, err := c.do(ctx, MethodGet, orderPath, params, secSigned)
	if err != nil {
		return nil, err
	}

	var order OrderStatus
	if err := decodeInto(status, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder cancels an open order.
func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) (*OrderStatus, error) {
	params := Params{
		{"symbol", symbol},
		{"orderId", fmt.Sprintf("%d", orderID)},
	}

	status, body, err := c.do(ctx, MethodDelete, orderPath, params, secSigned)
	if err != nil {
		return nil, err
	}

	var order OrderStatus
	if err := decodeInto(status, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// OpenOrders lists the open orders for a symbol.
func (c *Client) OpenOrders(ctx context.Context, symbol string) ([]OrderStatus, error) {
	params := Params{{"symbol", symbol}}

	status, body, err := c.do(ctx, MethodGet, openOrdersPath, params, secSigned)
	if err != nil {
		return nil, err
	}

	var orders []OrderStatus
	if err := decodeInto(status, body, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
