package binance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSignPayload_KnownVector(t *testing.T) {
	// Example from the venue's API documentation.
	secret := "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j"
	payload := "symbol=LTCBTC&side=BUY&type=LIMIT&timeInForce=GTC&quantity=1&price=0.1&recvWindow=5000&timestamp=1499827319559"

	assert.Equal(t,
		"c8db56825ae71d6d79447849e617115f4a920fa2acdcab2b053c4b2838bd6b71",
		signPayload(secret, payload))
}

func TestSigner_Deterministic(t *testing.T) {
	signer, err := NewSigner("top-secret", time.Second)
	require.NoError(t, err)
	signer.now = fixedClock(time.UnixMilli(1499827319559))

	params := Params{{"symbol", "BTCUSDT"}, {"side", "BUY"}}

	first := signer.Sign(params)
	second := signer.Sign(params)
	assert.Equal(t, first, second)

	sig, ok := first.Get("signature")
	require.True(t, ok)
	assert.Len(t, sig, 64)
}

func TestSigner_PrependsTimestampAndRecvWindow(t *testing.T) {
	signer, err := NewSigner("top-secret", 0)
	require.NoError(t, err)
	signer.now = fixedClock(time.UnixMilli(1499827319559))

	signed := signer.Sign(Params{{"symbol", "BTCUSDT"}})

	require.Len(t, signed, 4)
	assert.Equal(t, Param{"timestamp", "1499827319559"}, signed[0])
	assert.Equal(t, Param{"recvWindow", "1000"}, signed[1])
	assert.Equal(t, Param{"symbol", "BTCUSDT"}, signed[2])
	assert.Equal(t, "signature", signed[3].Key)
}

func TestSigner_SignatureCoversEveryInput(t *testing.T) {
	clock := fixedClock(time.UnixMilli(1499827319559))

	signer, err := NewSigner("top-secret", time.Second)
	require.NoError(t, err)
	signer.now = clock

	base := signer.Sign(Params{{"symbol", "BTCUSDT"}, {"side", "BUY"}})
	baseSig, _ := base.Get("signature")

	// Changing a value changes the signature.
	changedValue := signer.Sign(Params{{"symbol", "BTCUSDT"}, {"side", "SELL"}})
	sig, _ := changedValue.Get("signature")
	assert.NotEqual(t, baseSig, sig)

	// Changing the parameter order changes the signature.
	changedOrder := signer.Sign(Params{{"side", "BUY"}, {"symbol", "BTCUSDT"}})
	sig, _ = changedOrder.Get("signature")
	assert.NotEqual(t, baseSig, sig)

	// Changing the secret changes the signature.
	other, err := NewSigner("other-secret", time.Second)
	require.NoError(t, err)
	other.now = clock
	otherSigned := other.Sign(Params{{"symbol", "BTCUSDT"}, {"side", "BUY"}})
	sig, _ = otherSigned.Get("signature")
	assert.NotEqual(t, baseSig, sig)

	// Changing the timestamp changes the signature.
	signer.now = fixedClock(time.UnixMilli(1499827319560))
	later := signer.Sign(Params{{"symbol", "BTCUSDT"}, {"side", "BUY"}})
	sig, _ = later.Get("signature")
	assert.NotEqual(t, baseSig, sig)
}

func TestNewSigner_RejectsEmptySecret(t *testing.T) {
	_, err := NewSigner("", time.Second)
	assert.ErrorIs(t, err, ErrMissingSecret)
}
