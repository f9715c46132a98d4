package binance

import (
	"net/url"
	"strings"
)

// Param is a single request parameter. Params keep insertion order because
// the request signature covers the exact encoded byte sequence; url.Values
// cannot serve here since its Encode sorts keys.
type Param struct {
	Key   string
	Value string
}

type Params []Param

func (p Params) Encode() string {
	var b strings.Builder
	for i, param := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(param.Value))
	}
	return b.String()
}

func (p Params) Get(key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}
