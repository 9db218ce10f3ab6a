package provider

import (
	"github.com/papercomputeco/switchboard/pkg/llm"
)

// Adapter translates between the gateway's chat request and one provider's
// wire format. Adapters are pure: they build requests and read responses
// but never perform I/O themselves.
type Adapter interface {
	// Name returns the canonical provider name (e.g., "openai", "anthropic", "gemini")
	Name() string

	// Encode builds the upstream HTTP request for req, authenticated with
	// credential.
	Encode(req *llm.ChatRequest, credential string) (*llm.WireRequest, error)

	// Decode extracts the assistant text from an upstream response.
	// Non-success statuses yield an UpstreamError, unexpected bodies a
	// MalformedResponse.
	Decode(resp *llm.WireResponse) (string, error)
}

// Options configures an adapter. Empty fields fall back to the adapter's
// own defaults.
type Options struct {
	// BaseURL of the provider API, without a trailing path.
	BaseURL string

	// Model used when a request does not name one.
	Model string
}
