// Package bootstrap assembles a ready-to-serve gateway from resolved
// configuration. The serve command and the Lambda entry point share it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/papercomputeco/switchboard/gateway"
	"github.com/papercomputeco/switchboard/gateway/dispatch"
	"github.com/papercomputeco/switchboard/gateway/worker"
	"github.com/papercomputeco/switchboard/pkg/config"
	"github.com/papercomputeco/switchboard/pkg/credentials"
	"github.com/papercomputeco/switchboard/pkg/eventstream"
	"github.com/papercomputeco/switchboard/pkg/eventstream/kafka"
	"github.com/papercomputeco/switchboard/pkg/eventstream/nop"
	"github.com/papercomputeco/switchboard/pkg/llm"
	"github.com/papercomputeco/switchboard/pkg/llm/provider"
	"github.com/papercomputeco/switchboard/pkg/logger"
)

// Options tune how the stack is built. The zero value is usable.
type Options struct {
	// ConfigDir overrides the .switchboard/ directory holding
	// credentials.toml.
	ConfigDir string

	// CredentialsFile adds credentials.toml (written by "switchboard auth")
	// after the environment when the credential source is env.
	CredentialsFile bool

	// SSM replaces the client built from the default AWS configuration.
	SSM credentials.SSMAPI

	// HTTPClient performs upstream provider calls.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Stack is an assembled gateway together with the resources it owns.
type Stack struct {
	Gateway     *gateway.Gateway
	Credentials credentials.Static

	events *worker.Pool
}

// New resolves credentials once, builds the dispatcher and event pool and
// wires them into a Gateway. Callers must Close the stack on shutdown.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Stack, error) {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	creds, err := Credentials(ctx, cfg.Credentials, opts)
	if err != nil {
		return nil, err
	}

	dispatcher, err := dispatch.New(DispatchConfig(cfg, creds, opts))
	if err != nil {
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}

	publisher, err := Publisher(cfg.EventStream)
	if err != nil {
		return nil, err
	}

	pool, err := worker.NewPool(&worker.Config{
		Publisher: publisher,
		Logger:    opts.Logger,
	})
	if err != nil {
		_ = publisher.Close()
		return nil, fmt.Errorf("creating event pool: %w", err)
	}

	gw, err := gateway.New(gateway.Config{
		Dispatcher: dispatcher,
		Events:     pool,
		RepairJSON: cfg.Server.RepairJSON,
		Logger:     opts.Logger,
	})
	if err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("creating gateway: %w", err)
	}

	for _, name := range llm.Providers() {
		opts.Logger.Info("provider",
			"name", name,
			"configured", credentials.Configured(creds, name),
		)
	}

	return &Stack{
		Gateway:     gw,
		Credentials: creds,
		events:      pool,
	}, nil
}

// Close drains queued chat events and closes the publisher.
func (s *Stack) Close() error {
	return s.events.Close()
}

// Credentials reads every provider credential from the configured source.
func Credentials(ctx context.Context, cfg config.CredentialsConfig, opts Options) (credentials.Static, error) {
	var sources []credentials.Source

	switch cfg.Source {
	case "", config.CredentialSourceEnv:
		env, err := credentials.NewEnvSource(cfg.EnvFile)
		if err != nil {
			return nil, err
		}
		sources = append(sources, env)

		if opts.CredentialsFile {
			store, err := credentials.OpenStore(opts.ConfigDir)
			if err != nil {
				return nil, fmt.Errorf("loading credentials: %w", err)
			}
			sources = append(sources, store)
		}

	case config.CredentialSourceSSM:
		api := opts.SSM
		if api == nil {
			client, err := newSSMClient(ctx, cfg.SSMRegion)
			if err != nil {
				return nil, err
			}
			api = client
		}

		src, err := credentials.NewSSMSource(api, cfg.SSMPrefix)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)

	default:
		return nil, fmt.Errorf("unknown credential source: %q", cfg.Source)
	}

	return credentials.Resolve(ctx, llm.Providers(), sources...)
}

func newSSMClient(ctx context.Context, region string) (*ssm.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// DispatchConfig maps the per-provider config sections onto the dispatcher.
func DispatchConfig(cfg *config.Config, creds credentials.Resolver, opts Options) dispatch.Config {
	providers := make(map[string]dispatch.ProviderConfig, len(llm.Providers()))
	for _, name := range llm.Providers() {
		section := cfg.Provider(name)
		if section == nil {
			continue
		}
		providers[name] = dispatch.ProviderConfig{
			Options: provider.Options{
				BaseURL: section.BaseURL,
				Model:   section.Model,
			},
			MaxConcurrency: int64(section.MaxConcurrency),
		}
	}

	return dispatch.Config{
		Providers:   providers,
		Credentials: creds,
		Timeout:     time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		HTTPClient:  opts.HTTPClient,
		Logger:      opts.Logger,
	}
}

// Publisher builds the chat event publisher for the configured backend.
func Publisher(cfg config.EventStreamConfig) (eventstream.Publisher, error) {
	switch cfg.Provider {
	case "", config.EventStreamNop:
		return nop.NewPublisher(), nil
	case config.EventStreamKafka:
		if len(cfg.Brokers) == 0 {
			return nil, errors.New("event_stream.brokers is required for the kafka publisher")
		}
		pub, err := kafka.NewPublisher(kafka.Config{
			Brokers: cfg.Brokers,
			Topic:   cfg.Topic,
		})
		if err != nil {
			return nil, fmt.Errorf("creating kafka publisher: %w", err)
		}
		return pub, nil
	default:
		return nil, fmt.Errorf("unknown event stream provider: %q", cfg.Provider)
	}
}
