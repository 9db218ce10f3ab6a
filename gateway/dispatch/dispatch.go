// Package dispatch routes a validated chat request to its provider adapter
// and performs the single upstream HTTP call.
package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/papercomputeco/switchboard/pkg/credentials"
	"github.com/papercomputeco/switchboard/pkg/llm"
	"github.com/papercomputeco/switchboard/pkg/llm/provider"
	"github.com/papercomputeco/switchboard/pkg/logger"
	"github.com/papercomputeco/switchboard/pkg/utils"
)

// DefaultTimeout bounds a single upstream call.
const DefaultTimeout = 60 * time.Second

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 16 << 20

// ProviderConfig configures one provider.
type ProviderConfig struct {
	provider.Options

	// MaxConcurrency caps in-flight upstream calls. 0 means unlimited.
	MaxConcurrency int64
}

// Config is the dispatcher configuration.
type Config struct {
	// Providers overrides per-provider settings. Supported providers
	// without an entry use their adapter defaults.
	Providers map[string]ProviderConfig

	// Credentials resolves the credential for each provider.
	Credentials credentials.Resolver

	// Timeout bounds each upstream call. Defaults to DefaultTimeout.
	Timeout time.Duration

	// HTTPClient performs upstream calls. Defaults to a client without its
	// own timeout; the per-call context deadline applies instead.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Dispatcher sends requests to provider APIs. It holds no per-call state and
// is safe for concurrent use.
type Dispatcher struct {
	adapters    map[string]provider.Adapter
	slots       map[string]*semaphore.Weighted
	credentials credentials.Resolver
	timeout     time.Duration
	httpClient  *http.Client
	logger      *slog.Logger
}

// New creates a Dispatcher with an adapter for every supported provider.
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Credentials == nil {
		return nil, errors.New("credential resolver is required")
	}

	d := &Dispatcher{
		adapters:    make(map[string]provider.Adapter),
		slots:       make(map[string]*semaphore.Weighted),
		credentials: cfg.Credentials,
		timeout:     cfg.Timeout,
		httpClient:  cfg.HTTPClient,
		logger:      cfg.Logger,
	}
	if d.timeout <= 0 {
		d.timeout = DefaultTimeout
	}
	if d.httpClient == nil {
		d.httpClient = &http.Client{}
	}
	if d.logger == nil {
		d.logger = logger.Nop()
	}

	for name, pc := range cfg.Providers {
		if !llm.IsKnownProvider(name) {
			return nil, fmt.Errorf("configuring provider: unknown provider type: %q (supported: %v)", name, provider.SupportedProviders())
		}
		if pc.MaxConcurrency < 0 {
			return nil, fmt.Errorf("configuring provider %s: max concurrency must not be negative", name)
		}
	}

	for _, name := range provider.SupportedProviders() {
		pc := cfg.Providers[name]

		adapter, err := provider.New(name, pc.Options)
		if err != nil {
			return nil, fmt.Errorf("could not create provider %s: %w", name, err)
		}
		d.adapters[name] = adapter

		if pc.MaxConcurrency > 0 {
			d.slots[name] = semaphore.NewWeighted(pc.MaxConcurrency)
		}
	}

	return d, nil
}

// Configured reports whether a credential exists for provider.
func (d *Dispatcher) Configured(provider string) bool {
	return credentials.Configured(d.credentials, provider)
}

// Dispatch performs exactly one upstream call for req. Cancelling ctx
// cancels the upstream call. Every failure is an *llm.Error.
func (d *Dispatcher) Dispatch(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResult, error) {
	adapter, ok := d.adapters[req.Provider]
	if !ok {
		return nil, llm.NewError(llm.InvalidRequest, "", "unknown provider %q", req.Provider)
	}
	name := adapter.Name()

	credential := d.credentials.Credential(name)
	if credential == "" {
		return nil, llm.NewError(llm.NotConfigured, name, "no credential configured for %s", name)
	}

	if slot, ok := d.slots[name]; ok {
		if err := slot.Acquire(ctx, 1); err != nil {
			return nil, llm.WrapError(llm.TransportError, name, err, "waiting for a free %s slot: %v", name, err)
		}
		defer slot.Release(1)
	}

	wire, err := adapter.Encode(req, credential)
	if err != nil {
		return nil, llm.WrapError(llm.InvalidRequest, name, err, "encoding request: %v", err)
	}

	resp, err := d.do(ctx, wire)
	if err != nil {
		cause := transportCause(err)
		msg := redact(cause, credential)
		d.logger.Warn("upstream call failed", "provider", name, "error", msg)
		return nil, llm.WrapError(llm.TransportError, name, cause, "calling %s: %s", name, msg)
	}

	d.logger.Debug("upstream responded", "provider", name, "status", resp.StatusCode)

	content, err := adapter.Decode(resp)
	if err != nil {
		return nil, err
	}

	return &llm.ChatResult{Content: content}, nil
}

func (d *Dispatcher) do(ctx context.Context, wire *llm.WireRequest) (*llm.WireResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, wire.Method, wire.URL, bytes.NewReader(wire.Body))
	if err != nil {
		return nil, fmt.Errorf("creating upstream request: %w", err)
	}
	for key, values := range wire.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("User-Agent", utils.UserAgent())

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading upstream response: %w", err)
	}

	return &llm.WireResponse{StatusCode: resp.StatusCode, Body: body}, nil
}
