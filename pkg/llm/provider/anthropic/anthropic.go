// Package anthropic
package anthropic

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/papercomputeco/switchboard/pkg/llm"
	"github.com/papercomputeco/switchboard/pkg/sanitize"
)

const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-5-haiku-latest"

	// APIVersion is sent as the anthropic-version header on every request.
	APIVersion = "2023-06-01"

	messagesPath = "/v1/messages"
)

// provider implements the Adapter interface for Anthropic's Claude API.
type provider struct {
	baseURL string
	model   string
}

// New
func New(baseURL, model string) *provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &provider{baseURL: strings.TrimRight(baseURL, "/"), model: model}
}

// Name
func (p *provider) Name() string {
	return llm.ProviderAnthropic
}

// Encode lifts the first system message into the top-level system field.
// The Messages API has no system role, so every system entry is dropped
// from the message list. JSON mode has no native flag here and is emulated
// through the system prompt.
func (p *provider) Encode(req *llm.ChatRequest, credential string) (*llm.WireRequest, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	system, _ := req.SystemPrompt()
	if req.JSONMode {
		system = llm.WithJSONInstruction(system)
	}

	conversation := req.ConversationMessages()
	body := anthropicRequest{
		Model:       model,
		Messages:    make([]anthropicMessage, 0, len(conversation)),
		System:      system,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	for _, msg := range conversation {
		body.Messages = append(body.Messages, anthropicMessage{Role: msg.Role, Content: msg.Content})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling anthropic request: %w", err)
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	header.Set("x-api-key", credential)
	header.Set("anthropic-version", APIVersion)

	return &llm.WireRequest{
		Method: http.MethodPost,
		URL:    p.baseURL + messagesPath,
		Header: header,
		Body:   payload,
	}, nil
}

// Decode reads content[0].text and strips any markdown fence the model
// wrapped around it.
func (p *provider) Decode(resp *llm.WireResponse) (string, error) {
	if !resp.IsSuccess() {
		return "", llm.NewUpstreamError(p.Name(), resp.StatusCode, resp.Body)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return "", llm.WrapError(llm.MalformedResponse, p.Name(), err, "decoding response: %v", err)
	}

	if len(parsed.Content) == 0 || parsed.Content[0].Text == nil {
		return "", llm.NewError(llm.MalformedResponse, p.Name(), "response has no text content")
	}

	return sanitize.Fences(*parsed.Content[0].Text), nil
}
