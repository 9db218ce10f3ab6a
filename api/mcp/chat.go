package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/switchboard/gateway"
	"github.com/papercomputeco/switchboard/pkg/llm"
)

var (
	chatToolName    = "chat"
	chatDescription = "Send a chat conversation to an LLM provider (openai, anthropic or gemini) and return the assistant reply as text."

	providersToolName    = "providers"
	providersDescription = "Report which LLM providers have a credential configured on this gateway."
)

// ChatMessage is one conversation turn.
type ChatMessage struct {
	Role    string `json:"role" jsonschema:"one of system, user, assistant"`
	Content string `json:"content" jsonschema:"message text"`
}

// ChatInput represents the input arguments for the chat tool.
type ChatInput struct {
	Provider    string        `json:"provider" jsonschema:"provider to call: openai, anthropic or gemini"`
	Messages    []ChatMessage `json:"messages" jsonschema:"ordered conversation; only the first system message is honored"`
	JSONMode    bool          `json:"jsonMode,omitempty" jsonschema:"ask the provider for a JSON-only reply"`
	Temperature *float64      `json:"temperature,omitempty" jsonschema:"sampling temperature between 0 and 2 (default: 0.25)"`
	MaxTokens   *int          `json:"maxTokens,omitempty" jsonschema:"maximum reply tokens (default: 4000)"`
	Model       string        `json:"model,omitempty" jsonschema:"override the configured model"`
}

// ChatOutput represents the output of the chat tool.
type ChatOutput struct {
	Content string `json:"content"`
}

// ProvidersInput is empty; the providers tool takes no arguments.
type ProvidersInput struct{}

// ProvidersOutput represents the output of the providers tool.
type ProvidersOutput struct {
	Providers map[string]bool `json:"providers"`
}

// toChatRequest applies the same defaults as the HTTP surface.
func (in ChatInput) toChatRequest() *llm.ChatRequest {
	req := &llm.ChatRequest{
		Provider:    in.Provider,
		Messages:    make([]llm.ChatMessage, 0, len(in.Messages)),
		JSONMode:    in.JSONMode,
		Temperature: llm.DefaultTemperature,
		MaxTokens:   llm.DefaultMaxTokens,
		Model:       in.Model,
	}
	for _, m := range in.Messages {
		req.Messages = append(req.Messages, llm.NewTextMessage(m.Role, m.Content))
	}
	if in.Temperature != nil {
		req.Temperature = *in.Temperature
	}
	if in.MaxTokens != nil {
		req.MaxTokens = *in.MaxTokens
	}
	return req
}

// handleChat processes a chat tool call. Gateway failures are reported as
// tool errors rather than protocol errors.
func (s *Server) handleChat(ctx context.Context, _ *mcp.CallToolRequest, input ChatInput) (*mcp.CallToolResult, ChatOutput, error) {
	logger := s.config.Logger
	ctx = gateway.EnsureRequestID(ctx)

	logger.Debug("MCP chat request",
		"provider", input.Provider,
		"messages", len(input.Messages),
		"json_mode", input.JSONMode,
	)

	result, err := s.config.Gateway.Do(ctx, input.toChatRequest())
	if err != nil {
		return errorResult(err), ChatOutput{}, nil
	}

	output := ChatOutput{Content: result.Content}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: result.Content},
		},
	}, output, nil
}

// handleProviders reports per-provider credential presence.
func (s *Server) handleProviders(_ context.Context, _ *mcp.CallToolRequest, _ ProvidersInput) (*mcp.CallToolResult, ProvidersOutput, error) {
	output := ProvidersOutput{Providers: s.config.Gateway.Health()}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return errorResult(fmt.Errorf("serializing providers: %w", err)), ProvidersOutput{Providers: map[string]bool{}}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}

func errorResult(err error) *mcp.CallToolResult {
	resp := llm.NewErrorResponse(err)
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("%s: %s", resp.Kind, resp.Error)},
		},
	}
}
