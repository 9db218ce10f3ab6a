package llm

// ChatResult is the successful outcome of a gateway call.
type ChatResult struct {
	// Content is the assistant text extracted from the provider response.
	Content string `json:"content"`
}

// ErrorResponse is the JSON body returned to callers on failure.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// HealthResponse reports, per provider, whether a credential is configured.
type HealthResponse struct {
	Providers map[string]bool `json:"providers"`
}
