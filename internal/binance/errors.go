package binance

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks connection-level failures (DNS, TLS, socket).
	// They are fatal for the call and never retried.
	ErrTransport = errors.New("transport failure")

	// ErrServer marks a 5xx response that survived the full retry budget.
	ErrServer = errors.New("server error after retries")

	// ErrDecode marks a response body that does not match the expected
	// schema. Distinct from APIError and never coerced into one.
	ErrDecode = errors.New("malformed response body")

	ErrInvalidDepthLimit = errors.New("depth limit must be one of 5, 10, 20, 50, 100, 500, 1000")
)

// APIError is the venue's structured error envelope.
type APIError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Msg)
}
