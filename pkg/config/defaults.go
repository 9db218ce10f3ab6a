package config

import (
	"github.com/papercomputeco/switchboard/pkg/llm/provider/anthropic"
	"github.com/papercomputeco/switchboard/pkg/llm/provider/gemini"
	"github.com/papercomputeco/switchboard/pkg/llm/provider/openai"
)

// Credential sources.
const (
	CredentialSourceEnv = "env"
	CredentialSourceSSM = "ssm"
)

// Event stream providers.
const (
	EventStreamNop   = "nop"
	EventStreamKafka = "kafka"
)

const (
	defaultListen         = ":8080"
	defaultTimeoutSeconds = 60

	defaultCredentialSource = CredentialSourceEnv
	defaultEnvFile          = ".env"
	defaultSSMPrefix        = "/switchboard"

	defaultEventStreamProvider = EventStreamNop
	defaultEventStreamTopic    = "switchboard.chat.completed"

	defaultClientTarget = "http://localhost:8080"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen:         defaultListen,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		OpenAI: ProviderConfig{
			BaseURL: openai.DefaultBaseURL,
			Model:   openai.DefaultModel,
		},
		Anthropic: ProviderConfig{
			BaseURL: anthropic.DefaultBaseURL,
			Model:   anthropic.DefaultModel,
		},
		Gemini: ProviderConfig{
			BaseURL: gemini.DefaultBaseURL,
			Model:   gemini.DefaultModel,
		},
		Credentials: CredentialsConfig{
			Source:    defaultCredentialSource,
			EnvFile:   defaultEnvFile,
			SSMPrefix: defaultSSMPrefix,
		},
		EventStream: EventStreamConfig{
			Provider: defaultEventStreamProvider,
			Topic:    defaultEventStreamTopic,
		},
		Client: ClientConfig{
			Target: defaultClientTarget,
		},
	}
}
