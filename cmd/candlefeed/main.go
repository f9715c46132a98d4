package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/0xc0d3d00d/candlefeed/internal/binance"
	"github.com/0xc0d3d00d/candlefeed/internal/domain"
	"github.com/0xc0d3d00d/candlefeed/internal/history"
	"github.com/0xc0d3d00d/candlefeed/internal/ops"
	"github.com/0xc0d3d00d/candlefeed/internal/store"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type config struct {
	BaseURL       string `env:"BINANCE_BASE_URL" envDefault:"https://api.binance.com"`
	APIKey        string `env:"BINANCE_API_KEY"`
	SecretKey     string `env:"BINANCE_SECRET_KEY"`
	DataDir       string `env:"DATA_DIR" envDefault:"./data"`
	ListenAddress string `env:"ADDR" envDefault:":6969"`
}

var (
	flagSymbols  []string
	flagInterval string
	flagLookback time.Duration
	flagStart    string
	flagDataDir  string
	flagAddr     string
)

var rootCmd = &cobra.Command{
	Use:   "candlefeed",
	Short: "Collect Binance candle history into per-symbol JSON files",
	Long: `candlefeed walks the Binance kline endpoint page by page and stores the
assembled history as one JSON file per symbol and interval. Symbols are
fetched concurrently; a single symbol's pages are always fetched in order.`,
	RunE:          runFetch,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringSliceVar(&flagSymbols, "symbols", nil, "Symbols to fetch, e.g. BTCUSDT,ETHUSDT (default: all tradable symbols)")
	rootCmd.Flags().StringVar(&flagInterval, "interval", "1h", "Kline interval (1m, 5m, 1h, 1d, ...)")
	rootCmd.Flags().DurationVar(&flagLookback, "lookback", 30*24*time.Hour, "How far back to start fetching")
	rootCmd.Flags().StringVar(&flagStart, "start", "", "Explicit RFC3339 start time, overrides --lookback")
	rootCmd.Flags().StringVar(&flagDataDir, "data-dir", "", "Directory for history files, overrides DATA_DIR")
	rootCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address for metrics and probes, overrides ADDR")
}

func main() {
	// set global logger with custom options
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.DateTime,
		}),
	))

	if err := rootCmd.Execute(); err != nil {
		slog.Error("candlefeed terminated", "error", err)
		os.Exit(1)
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config{}
	if err := loadConfig(&cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagAddr != "" {
		cfg.ListenAddress = flagAddr
	}

	interval, err := domain.ParseInterval(flagInterval)
	if err != nil {
		return fmt.Errorf("failed to parse interval %q: %w", flagInterval, err)
	}

	start := time.Now().Add(-flagLookback)
	if flagStart != "" {
		start, err = time.Parse(time.RFC3339, flagStart)
		if err != nil {
			return fmt.Errorf("failed to parse start time %q: %w", flagStart, err)
		}
	}

	opsServer, err := ops.New(ctx, cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to create ops server: %w", err)
	}

	client, err := binance.NewClient(binance.Config{
		BaseURL:   cfg.BaseURL,
		APIKey:    cfg.APIKey,
		SecretKey: cfg.SecretKey,
	}, binance.WithMeterProvider(opsServer.MeterProvider()))
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	db, err := store.NewStore(afero.NewOsFs(), cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	fetcher := history.NewFetcher(client)

	g, gCtx := errgroup.WithContext(ctx)

	// Serve metrics and probes for the lifetime of the fetch
	g.Go(func() error {
		slog.InfoContext(ctx, "starting ops server", "listen_address", cfg.ListenAddress)
		if err := runHttpServer(gCtx, cfg.ListenAddress, opsServer); err != nil {
			slog.ErrorContext(ctx, "failed to start ops server", "error", err)
			cancel()
			return err
		}
		return nil
	})

	// Handle graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("shutting down ops server gracefully")

		return opsServer.Shutdown(shutdownCtx)
	})

	// Fetch all symbols, then wind the process down
	g.Go(func() error {
		defer cancel()
		return fetchAll(gCtx, client, fetcher, db, interval, start)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return nil
}

func fetchAll(ctx context.Context, client *binance.Client, fetcher *history.Fetcher, db *store.Store, interval domain.Interval, start time.Time) error {
	symbols := flagSymbols
	if len(symbols) == 0 {
		var err error
		symbols, err = client.ExchangeSymbols(ctx)
		if err != nil {
			return fmt.Errorf("failed to list symbols: %w", err)
		}
	}
	slog.InfoContext(ctx, "fetching history", "symbol_count", len(symbols), "interval", interval.String(), "start", start)

	g, gCtx := errgroup.WithContext(ctx)
	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			candles, err := fetcher.FetchSince(gCtx, symbol, interval, start)
			if err != nil {
				return err
			}
			if err := db.SaveHistory(gCtx, symbol, interval, candles); err != nil {
				return err
			}
			slog.InfoContext(gCtx, "stored history", "symbol", symbol, "candle_count", len(candles))
			return nil
		})
	}
	return g.Wait()
}

func runHttpServer(ctx context.Context, listenAddress string, srv *ops.Server) error {
	var lc net.ListenConfig
	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return err
	}

	err = srv.Serve(lis)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func loadConfig(config any) error {
	// Ignore error if .env is missing
	err := godotenv.Load()

	if err != nil && !os.IsNotExist(err) {
		return err
	}

	// Parse for built-in types
	if err := env.Parse(config); err != nil {
		return err
	}

	return nil
}
