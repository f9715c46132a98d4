package binance

import (
	"context"
	"fmt"
)

const userDataStreamPath = "/api/v1/userDataStream"

// StartUserStream requests a new listenKey, the session token for a user
// data stream. These calls authenticate with the API key alone; consuming
// the stream itself is out of scope here.
func (c *Client) StartUserStream(ctx context.Context) (string, error) {
	status, body, err := c.do(ctx, MethodPost, userDataStreamPath, nil, secAPIKey)
	if err != nil {
		return "", err
	}

	var resp struct {
		ListenKey *string `json:"listenKey"`
	}
	if err := decodeInto(status, body, &resp); err != nil {
		return "", err
	}
	if resp.ListenKey == nil {
		return "", fmt.Errorf("%w: response missing listenKey", ErrDecode)
	}
	return *resp.ListenKey, nil
}

// KeepAliveUserStream renews a listenKey before the venue expires it.
func (c *Client) KeepAliveUserStream(ctx context.Context, listenKey string) error {
	params := Params{{"listenKey", listenKey}}

	status, body, err := c.do(ctx, MethodPut, userDataStreamPath, params, secAPIKey)
	if err != nil {
		return err
	}
	return decodeInto(status, body, nil)
}

// CloseUserStream closes the stream session behind a listenKey.
func (c *Client) CloseUserStream(ctx context.Context, listenKey string) error {
	params := Params{{"listenKey", listenKey}}

	status, body, err := c.do(ctx, MethodDelete, userDataStreamPath, params, secAPIKey)
	if err != nil {
		return err
	}
	return decodeInto(status, body, nil)
}
