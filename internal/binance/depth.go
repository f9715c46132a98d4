package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

const depthPath = "/api/v1/depth"

var validDepthLimits = map[int]struct{}{
	5: {}, 10: {}, 20: {}, 50: {}, 100: {}, 500: {}, 1000: {},
}

// PriceLevel is one side entry of the order book: price and resting
// quantity.
type PriceLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

type DepthSnapshot struct {
	LastUpdateID int64
	Bids         []PriceLevel
	Asks         []PriceLevel
}

// Depth fetches an order-book snapshot. The limit is validated against the
// venue's allowed set before any network traffic.
func (c *Client) Depth(ctx context.Context, symbol string, limit int) (*DepthSnapshot, error) {
	if _, ok := validDepthLimits[limit]; !ok {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDepthLimit, limit)
	}

	params := Params{
		{"symbol", symbol},
		{"limit", strconv.Itoa(limit)},
	}

	status, body, err := c.do(ctx, MethodGet, depthPath, params, secNone)
	if err != nil {
		return nil, err
	}

	var resp struct {
		LastUpdateID int64               `json:"lastUpdateId"`
		Bids         [][]json.RawMessage `json:"bids"`
		Asks         [][]json.RawMessage `json:"asks"`
	}
	if err := decodeInto(status, body, &resp); err != nil {
		return nil, err
	}

	bids, err := parsePriceLevels(resp.Bids)
	if err != nil {
		return nil, fmt.Errorf("%w: bids: %w", ErrDecode, err)
	}
	asks, err := parsePriceLevels(resp.Asks)
	if err != nil {
		return nil, fmt.Errorf("%w: asks: %w", ErrDecode, err)
	}

	return &DepthSnapshot{
		LastUpdateID: resp.LastUpdateID,
		Bids:         bids,
		Asks:         asks,
	}, nil
}

func parsePriceLevels(rows [][]json.RawMessage) ([]PriceLevel, error) {
	levels := make([]PriceLevel, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("price level has %d elements, want 2", len(row))
		}
		price, err := parseDecimalString(row[0])
		if err != nil {
			return nil, fmt.Errorf("price: %w", err)
		}
		qty, err := parseDecimalString(row[1])
		if err != nil {
			return nil, fmt.Errorf("quantity: %w", err)
		}
		levels = append(levels, PriceLevel{Price: price, Quantity: qty})
	}
	return levels, nil
}
