package binance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const DefaultBaseURL = "https://api.binance.com"

const (
	defaultMaxTries  = 3
	defaultRetrySpan = time.Second
	defaultTimeout   = 10 * time.Second
)

// Config is built once and passed to the client; it is never mutated
// afterwards.
type Config struct {
	BaseURL    string
	APIKey     string
	SecretKey  string
	RecvWindow time.Duration
	// MaxTries is the total attempt budget for a call answered with 5xx,
	// first attempt included.
	MaxTries  int
	RetrySpan time.Duration
	// Timeout bounds a single HTTP attempt, independent of RetrySpan.
	Timeout time.Duration
}

// security is the authentication level an endpoint demands.
type security int

const (
	secNone security = iota
	secAPIKey
	secSigned
)

// Client executes one logical call per invocation: optional signing, a
// bounded retry loop on 5xx responses, and strict response decoding. It is
// safe for concurrent use; the only shared state is the pooled transport.
type Client struct {
	cfg     Config
	http    *http.Client
	signer  *Signer
	metrics *clientMetrics
}

type Option func(*Client)

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Client) {
		c.metrics = newClientMetrics(mp)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxTries <= 0 {
		cfg.MaxTries = defaultMaxTries
	}
	if cfg.RetrySpan <= 0 {
		cfg.RetrySpan = defaultRetrySpan
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}

	if cfg.SecretKey != "" {
		signer, err := NewSigner(cfg.SecretKey, cfg.RecvWindow)
		if err != nil {
			return nil, err
		}
		c.signer = signer
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = newClientMetrics(otel.GetMeterProvider())
	}

	return c, nil
}

// do performs one logical call. The signature is computed once, before the
// attempt loop; a 5xx answer is retried after RetrySpan up to the MaxTries
// budget, any other status ends the loop immediately. Transport failures
// are fatal and wrapped with ErrTransport.
func (c *Client) do(ctx context.Context, method Method, path string, params Params, sec security) (int, []byte, error) {
	if sec == secSigned {
		if c.signer == nil {
			return 0, nil, fmt.Errorf("%s %s: %w", method, path, ErrMissingSecret)
		}
		params = c.signer.Sign(params)
	}
	encoded := params.Encode()

	var (
		status int
		body   []byte
	)
	for attempt := 1; ; attempt++ {
		req, err := c.newRequest(ctx, method, path, encoded, sec)
		if err != nil {
			return 0, nil, err
		}

		start := time.Now()
		status, body, err = c.roundTrip(req)
		c.metrics.observe(ctx, method, path, status, time.Since(start))
		if err != nil {
			return 0, nil, fmt.Errorf("%s %s: %w: %w", method, path, ErrTransport, err)
		}

		if status < 500 || attempt >= c.cfg.MaxTries {
			return status, body, nil
		}

		slog.WarnContext(ctx, "server error, retrying",
			"method", method.String(), "path", path, "status", status,
			"attempt", attempt, "max_tries", c.cfg.MaxTries, "retry_span", c.cfg.RetrySpan)
		c.metrics.retried(ctx, method, path)

		if err := sleepCtx(ctx, c.cfg.RetrySpan); err != nil {
			return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
		}
	}
}

func (c *Client) newRequest(ctx context.Context, method Method, path string, encoded string, sec security) (*http.Request, error) {
	url := c.cfg.BaseURL + path
	var reqBody io.Reader
	if method.hasBody() {
		reqBody = strings.NewReader(encoded)
	} else if encoded != "" {
		url += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, method.String(), url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	if method.hasBody() {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if sec != secNone && c.cfg.APIKey != "" {
		req.Header.Set("X-MBX-APIKEY", c.cfg.APIKey)
	}

	return req, nil
}

func (c *Client) roundTrip(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	return resp.StatusCode, body, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
