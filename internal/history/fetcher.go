package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/0xc0d3d00d/candlefeed/internal/domain"
)

// ErrPageStalled means a page failed to move the cursor forward. Without
// this guard a venue answering with an empty or repeated page would keep
// the loop running forever.
var ErrPageStalled = errors.New("kline page did not advance the cursor")

// Interface requirements for the kline source
type klineClient interface {
	Klines(ctx context.Context, symbol string, interval domain.Interval, startTime time.Time) ([]domain.Candle, error)
}

// Fetcher assembles a contiguous candle history by walking the kline
// endpoint one page at a time. Pagination is strictly sequential: the next
// request depends on the close time of the previous page's last candle.
type Fetcher struct {
	client klineClient
	now    func() time.Time
}

func NewFetcher(client klineClient) *Fetcher {
	return &Fetcher{
		client: client,
		now:    time.Now,
	}
}

// FetchSince returns every candle from start up to the moment the call was
// made. The end of history is captured once, so candles closing while the
// fetch is in flight do not extend the loop. On any error the accumulated
// pages are discarded; callers never see a partial series on the success
// path.
func (f *Fetcher) FetchSince(ctx context.Context, symbol string, interval domain.Interval, start time.Time) ([]domain.Candle, error) {
	end := f.now()
	cursor := start

	var candles []domain.Candle
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("history fetch for %s: %w", symbol, err)
		}

		page, err := f.client.Klines(ctx, symbol, interval, cursor)
		if err != nil {
			return nil, fmt.Errorf("history fetch for %s at %s: %w", symbol, cursor.Format(time.RFC3339), err)
		}
		if len(page) == 0 {
			return nil, fmt.Errorf("%w: empty page for %s at %s", ErrPageStalled, symbol, cursor.Format(time.RFC3339))
		}

		last := page[len(page)-1].CloseTime
		if !last.After(cursor) {
			return nil, fmt.Errorf("%w: %s page ends at %s, cursor %s", ErrPageStalled, symbol, last.Format(time.RFC3339), cursor.Format(time.RFC3339))
		}

		candles = append(candles, page...)
		slog.DebugContext(ctx, "fetched kline page",
			"symbol", symbol, "interval", interval.String(),
			"page_size", len(page), "cursor", cursor, "total", len(candles))

		if !last.Before(end) {
			return candles, nil
		}
		cursor = last
	}
}
