package binance

import (
	"context"
)

const exchangeInfoPath = "/api/v1/exchangeInfo"

// ExchangeSymbols lists the venue's tradable symbol names. This is the one
// deliberately shape-tolerant decode: exchangeInfo is a large document and
// only the symbol names are extracted from it.
func (c *Client) ExchangeSymbols(ctx context.Context) ([]string, error) {
	status, body, err := c.do(ctx, MethodGet, exchangeInfoPath, nil, secNone)
	if err != nil {
		return nil, err
	}

	var info struct {
		Symbols []struct {
			Symbol string `json:"symbol"`
		} `json:"symbols"`
	}
	if err := decodeInto(status, body, &info); err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		symbols = append(symbols, s.Symbol)
	}
	return symbols, nil
}
