package binance

// Method is the closed set of HTTP methods the venue accepts. Keeping it an
// enum removes any runtime "unsupported method" case.
type Method int

const (
	MethodGet Method = iota
	MethodPost
	MethodPut
	MethodDelete
)

func (m Method) String() string {
	switch m {
	case MethodPost:
		return "POST"
	case MethodPut:
		return "PUT"
	case MethodDelete:
		return "DELETE"
	default:
		return "GET"
	}
}

// hasBody reports whether parameters travel as a URL-encoded body instead
// of the query string.
func (m Method) hasBody() bool {
	return m != MethodGet
}
