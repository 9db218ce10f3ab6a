// Package gateway is the single entry point for chat calls: it validates a
// raw request, dispatches it to the selected provider and reports the
// outcome.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/papercomputeco/switchboard/gateway/dispatch"
	"github.com/papercomputeco/switchboard/gateway/worker"
	"github.com/papercomputeco/switchboard/pkg/eventstream"
	"github.com/papercomputeco/switchboard/pkg/llm"
	"github.com/papercomputeco/switchboard/pkg/llm/provider"
	"github.com/papercomputeco/switchboard/pkg/logger"
	"github.com/papercomputeco/switchboard/pkg/sanitize"
	"github.com/papercomputeco/switchboard/pkg/utils"
)

// maxLoggedError bounds upstream error text in log lines.
const maxLoggedError = 256

// Config is the gateway configuration.
type Config struct {
	// Dispatcher performs upstream calls. Required.
	Dispatcher *dispatch.Dispatcher

	// Events receives a ChatCompletedEvent after every call. Optional.
	Events *worker.Pool

	// RepairJSON runs a best-effort JSON repair over the content of
	// jsonMode responses.
	RepairJSON bool

	Logger *slog.Logger
}

// Gateway is stateless across calls and safe for concurrent use.
type Gateway struct {
	dispatcher *dispatch.Dispatcher
	events     *worker.Pool
	repairJSON bool
	logger     *slog.Logger
}

// New creates a Gateway.
func New(cfg Config) (*Gateway, error) {
	if cfg.Dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	return &Gateway{
		dispatcher: cfg.Dispatcher,
		events:     cfg.Events,
		repairJSON: cfg.RepairJSON,
		logger:     cfg.Logger,
	}, nil
}

// Chat validates raw as a ChatRequest and dispatches it. Failures are
// returned unchanged as *llm.Error.
func (g *Gateway) Chat(ctx context.Context, raw []byte) (*llm.ChatResult, error) {
	req, err := llm.ParseChatRequest(raw)
	if err != nil {
		g.logger.Debug("rejected chat request",
			"request_id", RequestIDFromContext(ctx),
			"error", err,
		)
		return nil, err
	}

	return g.Do(ctx, req)
}

// Do validates and dispatches an already-decoded request. Callers that
// build a ChatRequest directly must apply defaults themselves.
func (g *Gateway) Do(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	requestID := RequestIDFromContext(ctx)
	started := time.Now()

	result, err := g.dispatcher.Dispatch(ctx, req)
	if err == nil && g.repairJSON && req.JSONMode {
		result.Content = sanitize.RepairJSON(result.Content)
	}

	completed := time.Now()
	g.report(requestID, req, err, started, completed)

	if err != nil {
		return nil, err
	}
	return result, nil
}

// Health reports, per supported provider, whether a credential is
// configured. Credential values are never exposed.
func (g *Gateway) Health() map[string]bool {
	health := make(map[string]bool, len(provider.SupportedProviders()))
	for _, name := range provider.SupportedProviders() {
		health[name] = g.dispatcher.Configured(name)
	}
	return health
}

func (g *Gateway) report(requestID string, req *llm.ChatRequest, err error, started, completed time.Time) {
	duration := completed.Sub(started)
	outcome := eventstream.OutcomeOK
	status := 0

	if err != nil {
		outcome = string(llm.KindOf(err))
		var gwErr *llm.Error
		if errors.As(err, &gwErr) {
			status = gwErr.UpstreamStatus
		}
		g.logger.Warn("chat failed",
			"request_id", requestID,
			"provider", req.Provider,
			"kind", outcome,
			"status", status,
			"duration", duration,
			"error", utils.Clip(err.Error(), maxLoggedError),
		)
	} else {
		g.logger.Info("chat completed",
			"request_id", requestID,
			"provider", req.Provider,
			"json_mode", req.JSONMode,
			"duration", duration,
		)
	}

	if g.events == nil {
		return
	}

	g.events.Enqueue(worker.Job{Event: eventstream.NewChatCompletedEvent(requestID,
		eventstream.RequestMeta{
			Provider:     req.Provider,
			Model:        req.Model,
			JSONMode:     req.JSONMode,
			MessageCount: len(req.Messages),
			Temperature:  req.Temperature,
			MaxTokens:    req.MaxTokens,
		},
		eventstream.ResultMeta{
			Outcome:        outcome,
			UpstreamStatus: status,
			StartedAt:      started.UTC(),
			CompletedAt:    completed.UTC(),
			DurationMs:     duration.Milliseconds(),
		},
	)})
}
