package binance

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string, cfg Config) *Client {
	t.Helper()
	cfg.BaseURL = baseURL
	if cfg.RetrySpan == 0 {
		cfg.RetrySpan = time.Millisecond
	}
	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestClient_RetriesServerErrors(t *testing.T) {
	tests := []struct {
		name         string
		failures     int
		maxTries     int
		wantRequests int32
		wantStatus   int
	}{
		{"recovers after one failure", 1, 3, 2, http.StatusOK},
		{"recovers on the last try", 2, 3, 3, http.StatusOK},
		{"budget exhausted", 3, 3, 3, http.StatusInternalServerError},
		{"single try means no retry", 3, 1, 1, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&requests, 1) <= int32(tt.failures) {
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"code":-1000,"msg":"internal error"}`))
					return
				}
				w.Write([]byte(`{}`))
			}))
			defer srv.Close()

			client := newTestClient(t, srv.URL, Config{MaxTries: tt.maxTries})

			status, _, err := client.do(context.Background(), MethodGet, "/api/v3/time", nil, secNone)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantRequests, atomic.LoadInt32(&requests))
		})
	}
}

func TestClient_SleepsBetweenRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	span := 50 * time.Millisecond
	client := newTestClient(t, srv.URL, Config{MaxTries: 3, RetrySpan: span})

	start := time.Now()
	status, _, err := client.do(context.Background(), MethodGet, "/api/v3/time", nil, secNone)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	// Three attempts mean two waits of one span each.
	assert.GreaterOrEqual(t, time.Since(start), 2*span)
}

func TestClient_ClientErrorsAreNotRetried(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":-2013,"msg":"Order does not exist."}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, Config{MaxTries: 3})

	status, body, err := client.do(context.Background(), MethodGet, "/api/v3/order", nil, secNone)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))

	var apiErr *APIError
	decodeErr := decodeInto(status, body, nil)
	require.ErrorAs(t, decodeErr, &apiErr)
	assert.Equal(t, -2013, apiErr.Code)
}

func TestClient_RateLimitIsClientError(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"code":-1003,"msg":"Too many requests."}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, Config{MaxTries: 3})

	status, _, err := client.do(context.Background(), MethodGet, "/api/v1/klines", nil, secNone)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestClient_TransportFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := newTestClient(t, srv.URL, Config{MaxTries: 3})

	_, _, err := client.do(context.Background(), MethodGet, "/api/v3/time", nil, secNone)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClient_CancelDuringRetryDelay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, Config{MaxTries: 3, RetrySpan: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := client.do(ctx, MethodGet, "/api/v3/time", nil, secNone)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestClient_ParamPlacement(t *testing.T) {
	var (
		gotQuery       string
		gotBody        string
		gotContentType string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, Config{})
	params := Params{{"symbol", "BTCUSDT"}, {"limit", "5"}}

	_, _, err := client.do(context.Background(), MethodGet, "/api/v1/depth", params, secNone)
	require.NoError(t, err)
	assert.Equal(t, "symbol=BTCUSDT&limit=5", gotQuery)
	assert.Empty(t, gotBody)

	_, _, err = client.do(context.Background(), MethodPost, "/api/v1/userDataStream", params, secNone)
	require.NoError(t, err)
	assert.Equal(t, "symbol=BTCUSDT&limit=5", gotBody)
	assert.Empty(t, gotQuery)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
}

func TestClient_APIKeyHeaderAndSignature(t *testing.T) {
	var (
		gotHeader string
		gotQuery  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-MBX-APIKEY")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, Config{APIKey: "key", SecretKey: "secret"})

	_, _, err := client.do(context.Background(), MethodGet, "/api/v3/account", nil, secSigned)
	require.NoError(t, err)
	assert.Equal(t, "key", gotHeader)
	assert.Regexp(t, `^timestamp=\d+&recvWindow=1000&signature=[0-9a-f]{64}$`, gotQuery)
}

func TestClient_SignedCallWithoutSecret(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the network")
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, Config{APIKey: "key"})

	_, _, err := client.do(context.Background(), MethodGet, "/api/v3/account", nil, secSigned)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestClient_ExhaustedRetriesSurfaceAsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"code":-1001,"msg":"Internal error; unable to process your request."}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, Config{MaxTries: 2})

	_, err := client.ExchangeSymbols(context.Background())
	require.ErrorIs(t, err, ErrServer)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, -1001, apiErr.Code)
}
