package binance

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// decodeInto classifies a raw (status, body) pair. Error statuses must carry
// the venue's {code,msg} envelope; anything else there is a decode failure,
// not an APIError. Success bodies are decoded strictly into v.
//
// A 5xx reaching this point has already survived the full retry budget, so
// it always surfaces as ErrServer; the decoded envelope is attached when the
// body parses. 429 stays on the client-error path and is never retried.
func decodeInto(status int, body []byte, v any) error {
	if status >= http.StatusInternalServerError {
		if apiErr, err := parseAPIError(body); err == nil {
			return fmt.Errorf("%w: %w", ErrServer, apiErr)
		}
		return fmt.Errorf("%w: status %d: %s", ErrServer, status, snippet(body))
	}

	if status >= http.StatusBadRequest {
		apiErr, err := parseAPIError(body)
		if err != nil {
			return fmt.Errorf("%w: status %d: %w", ErrDecode, status, err)
		}
		return apiErr
	}

	if v == nil {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// parseAPIError decodes the error envelope strictly: both fields must be
// present with the right types, a partially matching body is rejected.
func parseAPIError(body []byte) (*APIError, error) {
	var envelope struct {
		Code *int    `json:"code"`
		Msg  *string `json:"msg"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Code == nil || envelope.Msg == nil {
		return nil, fmt.Errorf("error envelope missing code or msg: %s", snippet(body))
	}
	return &APIError{Code: *envelope.Code, Msg: *envelope.Msg}, nil
}

const snippetLen = 256

func snippet(body []byte) string {
	if len(body) > snippetLen {
		return string(body[:snippetLen]) + "..."
	}
	return string(body)
}
