package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// rawChatRequest mirrors ChatRequest with pointer fields so that absent
// and null values can be told apart from zero values.
type rawChatRequest struct {
	Provider    *string       `json:"provider"`
	Messages    *[]rawMessage `json:"messages"`
	JSONMode    *bool         `json:"jsonMode"`
	Temperature *float64      `json:"temperature"`
	MaxTokens   *int          `json:"maxTokens"`
	Model       string        `json:"model"`
}

type rawMessage struct {
	Role    *string `json:"role"`
	Content *string `json:"content"`
}

// ParseChatRequest decodes a raw JSON chat payload, applies defaults for
// absent fields and validates the result. Every failure is an *Error of
// kind InvalidRequest.
func ParseChatRequest(raw []byte) (*ChatRequest, error) {
	var in rawChatRequest
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, WrapError(InvalidRequest, "", err, "malformed request body: %v", err)
	}

	req := &ChatRequest{
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Model:       strings.TrimSpace(in.Model),
	}

	if in.Provider == nil {
		return nil, NewError(InvalidRequest, "", "provider is required")
	}
	req.Provider = *in.Provider
	if !IsKnownProvider(req.Provider) {
		return nil, unknownProviderError(req.Provider)
	}

	if in.Messages == nil {
		return nil, NewError(InvalidRequest, req.Provider, "messages are required")
	}
	req.Messages = make([]ChatMessage, 0, len(*in.Messages))
	for i, msg := range *in.Messages {
		if msg.Role == nil {
			return nil, NewError(InvalidRequest, req.Provider, "messages[%d]: role is required", i)
		}
		if msg.Content == nil {
			return nil, NewError(InvalidRequest, req.Provider, "messages[%d]: content must not be null", i)
		}
		req.Messages = append(req.Messages, ChatMessage{Role: *msg.Role, Content: *msg.Content})
	}

	if in.JSONMode != nil {
		req.JSONMode = *in.JSONMode
	}
	if in.Temperature != nil {
		req.Temperature = *in.Temperature
	}
	if in.MaxTokens != nil {
		req.MaxTokens = *in.MaxTokens
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Validate checks an already-populated request. The provider is checked
// before anything else.
func (r *ChatRequest) Validate() error {
	if !IsKnownProvider(r.Provider) {
		return unknownProviderError(r.Provider)
	}

	if len(r.Messages) == 0 {
		return NewError(InvalidRequest, r.Provider, "messages must not be empty")
	}
	for i, msg := range r.Messages {
		if !IsValidRole(msg.Role) {
			return NewError(InvalidRequest, r.Provider, "messages[%d]: unrecognized role %q", i, msg.Role)
		}
	}

	if r.Temperature < MinTemperature || r.Temperature > MaxTemperature {
		return NewError(InvalidRequest, r.Provider,
			"temperature %g out of range [%g, %g]", r.Temperature, MinTemperature, MaxTemperature)
	}
	if r.MaxTokens <= 0 {
		return NewError(InvalidRequest, r.Provider, "maxTokens must be positive, got %d", r.MaxTokens)
	}

	return nil
}

// OverrideProvider rewrites the provider field of a raw chat payload,
// keeping every other field as sent. Payloads that are not JSON objects
// are rejected as InvalidRequest.
func OverrideProvider(raw []byte, name string) ([]byte, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, WrapError(InvalidRequest, "", err, "malformed request body: %v", err)
	}
	if payload == nil {
		payload = map[string]json.RawMessage{}
	}

	encoded, err := json.Marshal(name)
	if err != nil {
		return nil, WrapError(InvalidRequest, "", err, "invalid provider")
	}
	payload["provider"] = encoded

	return json.Marshal(payload)
}

func unknownProviderError(name string) *Error {
	return &Error{
		Kind:    InvalidRequest,
		Message: fmt.Sprintf("unknown provider %q (supported: %v)", name, Providers()),
	}
}
