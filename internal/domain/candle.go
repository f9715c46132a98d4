package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle is one fixed-interval OHLCV bar for a trading symbol. Values are
// immutable once decoded; times are UTC with millisecond precision on the
// wire.
type Candle struct {
	OpenTime    time.Time
	CloseTime   time.Time
	Open        decimal.Decimal
	High        decimal.Decimal
	Low         decimal.Decimal
	Close       decimal.Decimal
	Volume      decimal.Decimal
	QuoteVolume decimal.Decimal
	TradeCount  int64
}
