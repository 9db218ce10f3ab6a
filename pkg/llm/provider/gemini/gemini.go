// Package gemini
package gemini

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/papercomputeco/switchboard/pkg/llm"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.0-flash"

	// Acknowledgement is the synthetic model turn that follows the
	// system instruction turn.
	Acknowledgement = "Understood, I will follow these instructions."

	roleUser  = "user"
	roleModel = "model"

	jsonMimeType = "application/json"
)

// provider implements the Adapter interface for Gemini's generateContent API.
type provider struct {
	baseURL string
	model   string
}

func New(baseURL, model string) *provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &provider{baseURL: strings.TrimRight(baseURL, "/"), model: model}
}

func (g *provider) Name() string {
	return llm.ProviderGemini
}

// Encode maps assistant turns to "model" and everything else to "user".
// Gemini has no system role: a system message becomes a user turn followed
// by a fixed model acknowledgement, prepended to the conversation.
func (g *provider) Encode(req *llm.ChatRequest, credential string) (*llm.WireRequest, error) {
	model := req.Model
	if model == "" {
		model = g.model
	}

	conversation := req.ConversationMessages()
	contents := make([]content, 0, len(conversation)+2)

	if system, ok := req.SystemPrompt(); ok {
		if req.JSONMode {
			system = llm.WithJSONInstruction(system)
		}
		contents = append(contents,
			content{Role: roleUser, Parts: []part{{Text: system}}},
			content{Role: roleModel, Parts: []part{{Text: Acknowledgement}}},
		)
	}

	for _, msg := range conversation {
		contents = append(contents, content{Role: mapRole(msg.Role), Parts: []part{{Text: msg.Content}}})
	}

	temperature := req.Temperature
	maxTokens := req.MaxTokens
	body := generateContentRequest{
		Contents: contents,
		GenerationConfig: &generationConfig{
			Temperature:     &temperature,
			MaxOutputTokens: &maxTokens,
		},
	}
	if req.JSONMode {
		body.GenerationConfig.ResponseMimeType = jsonMimeType
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling gemini request: %w", err)
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	query := url.Values{}
	query.Set("key", credential)

	return &llm.WireRequest{
		Method: http.MethodPost,
		URL:    fmt.Sprintf("%s/v1beta/models/%s:generateContent?%s", g.baseURL, url.PathEscape(model), query.Encode()),
		Header: header,
		Body:   payload,
	}, nil
}

// Decode reads candidates[0].content.parts[0].text.
func (g *provider) Decode(resp *llm.WireResponse) (string, error) {
	if !resp.IsSuccess() {
		return "", llm.NewUpstreamError(g.Name(), resp.StatusCode, resp.Body)
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return "", llm.WrapError(llm.MalformedResponse, g.Name(), err, "decoding response: %v", err)
	}

	if len(parsed.Candidates) == 0 {
		return "", llm.NewError(llm.MalformedResponse, g.Name(), "response has no candidates")
	}
	c := parsed.Candidates[0].Content
	if c == nil || len(c.Parts) == 0 || c.Parts[0].Text == nil {
		return "", llm.NewError(llm.MalformedResponse, g.Name(), "response has no text part")
	}

	return *c.Parts[0].Text, nil
}

func mapRole(role string) string {
	if role == llm.RoleAssistant {
		return roleModel
	}
	return roleUser
}
