package store

import (
	"time"

	"github.com/0xc0d3d00d/candlefeed/internal/domain"
	"github.com/shopspring/decimal"
)

// fileCandle is the on-disk form of a candle: millisecond epoch times,
// decimal values carried as strings.
type fileCandle struct {
	OpenTime    int64           `json:"open_time"`
	CloseTime   int64           `json:"close_time"`
	Open        decimal.Decimal `json:"open"`
	High        decimal.Decimal `json:"high"`
	Low         decimal.Decimal `json:"low"`
	Close       decimal.Decimal `json:"close"`
	Volume      decimal.Decimal `json:"volume"`
	QuoteVolume decimal.Decimal `json:"quote_volume"`
	TradeCount  int64           `json:"trade_count"`
}

func toFileCandles(cc []domain.Candle) []fileCandle {
	rows := make([]fileCandle, 0, len(cc))
	for _, c := range cc {
		rows = append(rows, fileCandle{
			OpenTime:    c.OpenTime.UnixMilli(),
			CloseTime:   c.CloseTime.UnixMilli(),
			Open:        c.Open,
			High:        c.High,
			Low:         c.Low,
			Close:       c.Close,
			Volume:      c.Volume,
			QuoteVolume: c.QuoteVolume,
			TradeCount:  c.TradeCount,
		})
	}
	return rows
}

func fromFileCandles(rows []fileCandle) []domain.Candle {
	candles := make([]domain.Candle, 0, len(rows))
	for _, row := range rows {
		candles = append(candles, domain.Candle{
			OpenTime:    time.UnixMilli(row.OpenTime).UTC(),
			CloseTime:   time.UnixMilli(row.CloseTime).UTC(),
			Open:        row.Open,
			High:        row.High,
			Low:         row.Low,
			Close:       row.Close,
			Volume:      row.Volume,
			QuoteVolume: row.QuoteVolume,
			TradeCount:  row.TradeCount,
		})
	}
	return candles
}
