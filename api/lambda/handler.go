// Package lambda serves the gateway's HTTP routes from AWS Lambda behind an
// API Gateway proxy integration.
package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/papercomputeco/switchboard/gateway"
	"github.com/papercomputeco/switchboard/pkg/llm"
)

const requestIDHeader = "X-Request-ID"

// Chatter is the part of the gateway the handler needs.
type Chatter interface {
	Chat(ctx context.Context, raw []byte) (*llm.ChatResult, error)
	Health() map[string]bool
}

// Handler routes API Gateway proxy events to the gateway.
type Handler struct {
	gateway Chatter
	logger  *slog.Logger
}

func NewHandler(gw Chatter, logger *slog.Logger) (*Handler, error) {
	if gw == nil {
		return nil, errors.New("gateway is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Handler{gateway: gw, logger: logger}, nil
}

// Handle serves GET /ping, GET /health, POST /chat and POST /chat/{provider}.
// Gateway failures are reported in the response body, never as a Lambda
// invocation error.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestID := headerValue(req.Headers, requestIDHeader)
	if requestID == "" {
		requestID = req.RequestContext.RequestID
	}
	if requestID == "" {
		requestID = gateway.NewRequestID()
	}
	ctx = gateway.WithRequestID(ctx, requestID)

	path := strings.TrimSuffix(req.Path, "/")
	switch {
	case req.HTTPMethod == http.MethodGet && path == "/ping":
		return respond(requestID, http.StatusOK, "pong"), nil

	case req.HTTPMethod == http.MethodGet && path == "/health":
		return respond(requestID, http.StatusOK, llm.HealthResponse{Providers: h.gateway.Health()}), nil

	case req.HTTPMethod == http.MethodPost && path == "/chat":
		body, err := requestBody(req)
		if err != nil {
			return respondError(requestID, err), nil
		}
		return h.chat(ctx, requestID, body), nil

	case req.HTTPMethod == http.MethodPost && strings.HasPrefix(path, "/chat/"):
		body, err := requestBody(req)
		if err == nil {
			body, err = llm.OverrideProvider(body, providerParam(req, path))
		}
		if err != nil {
			return respondError(requestID, err), nil
		}
		return h.chat(ctx, requestID, body), nil

	default:
		h.logger.Debug("no route", "method", req.HTTPMethod, "path", req.Path, "request_id", requestID)
		return respond(requestID, http.StatusNotFound, llm.ErrorResponse{Error: "not found"}), nil
	}
}

func (h *Handler) chat(ctx context.Context, requestID string, body []byte) events.APIGatewayProxyResponse {
	result, err := h.gateway.Chat(ctx, body)
	if err != nil {
		return respondError(requestID, err)
	}
	return respond(requestID, http.StatusOK, result)
}

func providerParam(req events.APIGatewayProxyRequest, path string) string {
	if p := req.PathParameters["provider"]; p != "" {
		return p
	}
	return strings.TrimPrefix(path, "/chat/")
}

func requestBody(req events.APIGatewayProxyRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}
	body, err := base64.StdEncoding.DecodeString(req.Body)
	if err != nil {
		return nil, llm.WrapError(llm.InvalidRequest, "", err, "malformed request body: %v", err)
	}
	return body, nil
}

// headerValue looks name up case-insensitively; API Gateway preserves the
// caller's header casing.
func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func respondError(requestID string, err error) events.APIGatewayProxyResponse {
	return respond(requestID, llm.HTTPStatus(err), llm.NewErrorResponse(err))
}

func respond(requestID string, status int, payload any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":  "application/json",
			requestIDHeader: requestID,
		},
		Body: string(body),
	}
}
