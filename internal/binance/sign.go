package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"
)

const defaultRecvWindow = 1000 * time.Millisecond

var ErrMissingSecret = errors.New("secret key required for signed request")

// Signer produces the authentication parameters for signed endpoints. It
// prepends `timestamp` and `recvWindow` and appends `signature`, the hex
// HMAC-SHA256 of the URL-encoded parameter string keyed by the secret.
type Signer struct {
	secret     string
	recvWindow time.Duration
	now        func() time.Time
}

func NewSigner(secret string, recvWindow time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if recvWindow <= 0 {
		recvWindow = defaultRecvWindow
	}
	return &Signer{
		secret:     secret,
		recvWindow: recvWindow,
		now:        time.Now,
	}, nil
}

// Sign is deterministic for a fixed clock: identical parameters and
// timestamp always yield the identical signature.
func (s *Signer) Sign(params Params) Params {
	signed := make(Params, 0, len(params)+3)
	signed = append(signed,
		Param{"timestamp", strconv.FormatInt(s.now().UnixMilli(), 10)},
		Param{"recvWindow", strconv.FormatInt(s.recvWindow.Milliseconds(), 10)},
	)
	signed = append(signed, params...)
	signed = append(signed, Param{"signature", signPayload(s.secret, signed.Encode())})
	return signed
}

func signPayload(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
