package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Upstream is a stub provider API. Every call is answered with the current
// status and body, and the last request is recorded for inspection.
type Upstream struct {
	*httptest.Server

	mu     sync.Mutex
	status int
	body   string
	hits   int
	last   RecordedRequest
}

// RecordedRequest is what the stub saw on its most recent call.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// NewUpstream starts a stub answering 200 with body. Callers own Close.
func NewUpstream(body string) *Upstream {
	u := &Upstream{status: http.StatusOK, body: body}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	return u
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	u.mu.Lock()
	u.hits++
	u.last = RecordedRequest{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     body,
	}
	status, reply := u.status, u.body
	u.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, reply)
}

// Respond changes the canned reply for subsequent calls.
func (u *Upstream) Respond(status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status = status
	u.body = body
}

func (u *Upstream) Hits() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits
}

func (u *Upstream) Last() RecordedRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.last
}

// OpenAIReply builds a chat completion body whose first choice carries text.
func OpenAIReply(text string) string {
	return mustJSON(map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"choices": []any{map[string]any{
			"index":   0,
			"message": map[string]any{"role": "assistant", "content": text},
		}},
	})
}

// AnthropicReply builds a messages API body with a single text block.
func AnthropicReply(text string) string {
	return mustJSON(map[string]any{
		"id":      "msg_test",
		"type":    "message",
		"role":    "assistant",
		"content": []any{map[string]any{"type": "text", "text": text}},
	})
}

// GeminiReply builds a generateContent body with a single candidate part.
func GeminiReply(text string) string {
	return mustJSON(map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{
				"role":  "model",
				"parts": []any{map[string]any{"text": text}},
			},
		}},
	})
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
