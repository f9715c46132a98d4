package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/0xc0d3d00d/candlefeed/internal/domain"
	"github.com/spf13/afero"
)

var ErrNoHistory = fmt.Errorf("%w: no history stored for series", domain.ErrNotFound)

// Store persists assembled candle histories as one JSON file per series:
// <dataDir>/<symbol>_<interval>.json, a JSON array of candle objects.
type Store struct {
	fs      afero.Fs
	dataDir string
}

func NewStore(fs afero.Fs, dataDir string) (*Store, error) {
	exists, err := afero.DirExists(fs, dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to check data directory: %w", err)
	}
	if !exists {
		if err := fs.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return &Store{
		fs:      fs,
		dataDir: dataDir,
	}, nil
}

func (s *Store) SaveHistory(ctx context.Context, symbol string, interval domain.Interval, candles []domain.Candle) error {
	slog.DebugContext(ctx, "save history", "symbol", symbol, "interval", interval.String(), "candle_count", len(candles))

	encoded, err := json.MarshalIndent(toFileCandles(candles), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history for %s: %w", symbol, err)
	}

	filename := s.seriesFile(symbol, interval)
	if err := afero.WriteFile(s.fs, filename, encoded, 0644); err != nil {
		return fmt.Errorf("failed to write history file %s: %w", filename, err)
	}

	return nil
}

func (s *Store) LoadHistory(ctx context.Context, symbol string, interval domain.Interval) ([]domain.Candle, error) {
	filename := s.seriesFile(symbol, interval)
	encoded, err := afero.ReadFile(s.fs, filename)
	if os.IsNotExist(err) {
		return nil, ErrNoHistory
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history file %s: %w", filename, err)
	}

	var rows []fileCandle
	if err := json.Unmarshal(encoded, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode history file %s: %w", filename, err)
	}

	slog.DebugContext(ctx, "load history", "symbol", symbol, "interval", interval.String(), "candle_count", len(rows))
	return fromFileCandles(rows), nil
}

func (s *Store) seriesFile(symbol string, interval domain.Interval) string {
	return path.Join(s.dataDir, fmt.Sprintf("%s_%s.json", symbol, interval))
}
