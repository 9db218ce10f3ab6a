package llm

import "net/http"

// WireRequest is a fully-formed upstream HTTP request built by a provider
// adapter.
type WireRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// WireResponse is the raw upstream answer handed back to an adapter.
type WireResponse struct {
	StatusCode int
	Body       []byte
}

// IsSuccess reports whether the upstream answered with a 2xx status.
func (r *WireResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
