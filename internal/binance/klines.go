package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/0xc0d3d00d/candlefeed/internal/domain"
	"github.com/shopspring/decimal"
)

const klinesPath = "/api/v1/klines"

// Klines fetches one page of candle history starting at startTime. The page
// size is the endpoint's own maximum; the venue decides how many rows come
// back.
func (c *Client) Klines(ctx context.Context, symbol string, interval domain.Interval, startTime time.Time) ([]domain.Candle, error) {
	params := Params{
		{"symbol", symbol},
		{"interval", interval.String()},
		{"startTime", strconv.FormatInt(startTime.UnixMilli(), 10)},
	}

	status, body, err := c.do(ctx, MethodGet, klinesPath, params, secNone)
	if err != nil {
		return nil, err
	}

	var rows []klineRow
	if err := decodeInto(status, body, &rows); err != nil {
		return nil, err
	}

	candles := make([]domain.Candle, 0, len(rows))
	for _, row := range rows {
		candles = append(candles, row.candle())
	}
	return candles, nil
}

// klineRow is one fixed-arity kline array:
// [openTime, open, high, low, close, volume, closeTime, quoteVolume,
// tradeCount, ...ignored]. Only the first nine elements are consumed; a
// shorter array or a wrong element type fails the decode outright.
type klineRow struct {
	openTime    time.Time
	closeTime   time.Time
	open        decimal.Decimal
	high        decimal.Decimal
	low         decimal.Decimal
	close       decimal.Decimal
	volume      decimal.Decimal
	quoteVolume decimal.Decimal
	tradeCount  int64
}

const klineArity = 9

func (r *klineRow) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) < klineArity {
		return fmt.Errorf("kline row has %d elements, want at least %d", len(raw), klineArity)
	}

	var err error
	if r.openTime, err = parseMilliTime(raw[0]); err != nil {
		return fmt.Errorf("kline open time: %w", err)
	}
	if r.open, err = parseDecimalString(raw[1]); err != nil {
		return fmt.Errorf("kline open: %w", err)
	}
	if r.high, err = parseDecimalString(raw[2]); err != nil {
		return fmt.Errorf("kline high: %w", err)
	}
	if r.low, err = parseDecimalString(raw[3]); err != nil {
		return fmt.Errorf("kline low: %w", err)
	}
	if r.close, err = parseDecimalString(raw[4]); err != nil {
		return fmt.Errorf("kline close: %w", err)
	}
	if r.volume, err = parseDecimalString(raw[5]); err != nil {
		return fmt.Errorf("kline volume: %w", err)
	}
	if r.closeTime, err = parseMilliTime(raw[6]); err != nil {
		return fmt.Errorf("kline close time: %w", err)
	}
	if r.quoteVolume, err = parseDecimalString(raw[7]); err != nil {
		return fmt.Errorf("kline quote volume: %w", err)
	}
	if err = json.Unmarshal(raw[8], &r.tradeCount); err != nil {
		return fmt.Errorf("kline trade count: %w", err)
	}

	return nil
}

func (r klineRow) candle() domain.Candle {
	return domain.Candle{
		OpenTime:    r.openTime,
		CloseTime:   r.closeTime,
		Open:        r.open,
		High:        r.high,
		Low:         r.low,
		Close:       r.close,
		Volume:      r.volume,
		QuoteVolume: r.quoteVolume,
		TradeCount:  r.tradeCount,
	}
}

func parseMilliTime(raw json.RawMessage) (time.Time, error) {
	var ms int64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

func parseDecimalString(raw json.RawMessage) (decimal.Decimal, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(s)
}
