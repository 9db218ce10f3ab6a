package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/papercomputeco/switchboard/pkg/llm"
)

var providerEnvVars = map[string]string{
	llm.ProviderOpenAI:    "OPENAI_API_KEY",
	llm.ProviderAnthropic: "ANTHROPIC_API_KEY",
	llm.ProviderGemini:    "GEMINI_API_KEY",
}

// EnvVarForProvider returns the environment variable holding the API key for
// provider, or "" for unknown providers.
func EnvVarForProvider(provider string) string {
	return providerEnvVars[provider]
}

// EnvSource reads credentials from the process environment, falling back
// to an optional .env file. Process environment variables take precedence.
type EnvSource struct {
	file map[string]string
}

// NewEnvSource creates an EnvSource. envFile may be empty; a path that
// does not exist is ignored.
func NewEnvSource(envFile string) (*EnvSource, error) {
	src := &EnvSource{file: map[string]string{}}
	if envFile == "" {
		return src, nil
	}

	values, err := godotenv.Read(envFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return src, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", envFile, err)
	}
	src.file = values

	return src, nil
}

func (e *EnvSource) Name() string {
	return "env"
}

func (e *EnvSource) Lookup(_ context.Context, provider string) (string, error) {
	name := EnvVarForProvider(provider)
	if name == "" {
		return "", nil
	}

	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v, nil
	}
	return strings.TrimSpace(e.file[name]), nil
}
