// Package client is a small HTTP client for a running switchboard gateway.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/papercomputeco/switchboard/pkg/llm"
	"github.com/papercomputeco/switchboard/pkg/utils"
)

// DefaultTimeout is generous because a single chat call may take as long as
// the gateway's own upstream timeout.
const DefaultTimeout = 2 * time.Minute

// Client talks to the gateway's HTTP surface.
type Client struct {
	target     string
	httpClient *http.Client
}

// New creates a Client for the gateway at target (e.g. "http://localhost:8080").
// httpClient may be nil.
func New(target string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		target:     strings.TrimRight(target, "/"),
		httpClient: httpClient,
	}
}

// Chat sends req to POST /chat. A failure reported by the gateway is
// returned as an *llm.Error carrying the gateway's kind and message.
func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding chat request: %w", err)
	}

	var result llm.ChatResult
	if err := c.do(ctx, http.MethodPost, "/chat", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health fetches GET /health.
func (c *Client) Health(ctx context.Context) (*llm.HealthResponse, error) {
	var health llm.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.target+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", utils.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request to %s: %w", c.target, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// decodeError rebuilds the gateway's failure from its ErrorResponse body.
func decodeError(status int, body []byte) error {
	var payload llm.ErrorResponse
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		return &llm.Error{
			Kind:           llm.UpstreamError,
			Message:        fmt.Sprintf("gateway returned status %d", status),
			UpstreamStatus: status,
		}
	}

	gwErr := &llm.Error{
		Kind:    llm.ErrorKind(payload.Kind),
		Message: payload.Error,
	}
	if gwErr.Kind == "" {
		gwErr.Kind = llm.TransportError
	}
	if gwErr.Kind == llm.UpstreamError {
		gwErr.UpstreamStatus = status
	}
	return gwErr
}
