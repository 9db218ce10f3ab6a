// Package openai
package openai

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/papercomputeco/switchboard/pkg/llm"
)

const (
	DefaultBaseURL = "https://api.openai.com"
	DefaultModel   = "gpt-4o-mini"

	chatCompletionsPath = "/v1/chat/completions"
)

// provider implements the Adapter interface for OpenAI's Chat Completions API.
type provider struct {
	baseURL string
	model   string
}

// New creates an OpenAI adapter. Empty arguments fall back to the defaults.
func New(baseURL, model string) *provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &provider{baseURL: strings.TrimRight(baseURL, "/"), model: model}
}

func (o *provider) Name() string {
	return llm.ProviderOpenAI
}

// Encode passes the messages through unchanged, system role included.
func (o *provider) Encode(req *llm.ChatRequest, credential string) (*llm.WireRequest, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}

	body := openaiRequest{
		Model:       model,
		Messages:    make([]openaiMessage, 0, len(req.Messages)),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	for _, msg := range req.Messages {
		body.Messages = append(body.Messages, openaiMessage{Role: msg.Role, Content: msg.Content})
	}
	if req.JSONMode {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling openai request: %w", err)
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	header.Set("Authorization", "Bearer "+credential)

	return &llm.WireRequest{
		Method: http.MethodPost,
		URL:    o.baseURL + chatCompletionsPath,
		Header: header,
		Body:   payload,
	}, nil
}

// Decode reads choices[0].message.content.
func (o *provider) Decode(resp *llm.WireResponse) (string, error) {
	if !resp.IsSuccess() {
		return "", llm.NewUpstreamError(o.Name(), resp.StatusCode, resp.Body)
	}

	var parsed openaiResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return "", llm.WrapError(llm.MalformedResponse, o.Name(), err, "decoding response: %v", err)
	}

	if len(parsed.Choices) == 0 {
		return "", llm.NewError(llm.MalformedResponse, o.Name(), "response has no choices")
	}
	msg := parsed.Choices[0].Message
	if msg == nil || msg.Content == nil {
		return "", llm.NewError(llm.MalformedResponse, o.Name(), "response has no message content")
	}

	return *msg.Content, nil
}
