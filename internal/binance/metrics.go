package binance

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/0xc0d3d00d/candlefeed/internal/binance"

type clientMetrics struct {
	requests metric.Int64Counter
	retries  metric.Int64Counter
	duration metric.Float64Histogram
}

func newClientMetrics(mp metric.MeterProvider) *clientMetrics {
	meter := mp.Meter(meterName)

	requests, err := meter.Int64Counter("binance.client.requests",
		metric.WithDescription("HTTP requests issued against the venue"))
	if err != nil {
		slog.Warn("failed to create request counter", "error", err)
		return nil
	}

	retries, err := meter.Int64Counter("binance.client.retries",
		metric.WithDescription("Attempts repeated after a 5xx response"))
	if err != nil {
		slog.Warn("failed to create retry counter", "error", err)
		return nil
	}

	duration, err := meter.Float64Histogram("binance.client.duration",
		metric.WithDescription("Request round-trip time"),
		metric.WithUnit("s"))
	if err != nil {
		slog.Warn("failed to create duration histogram", "error", err)
		return nil
	}

	return &clientMetrics{
		requests: requests,
		retries:  retries,
		duration: duration,
	}
}

func (m *clientMetrics) observe(ctx context.Context, method Method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method.String()),
		attribute.String("path", path),
		attribute.Int("status", status),
	)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}

func (m *clientMetrics) retried(ctx context.Context, method Method, path string) {
	if m == nil {
		return
	}
	m.retries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method.String()),
		attribute.String("path", path),
	))
}
