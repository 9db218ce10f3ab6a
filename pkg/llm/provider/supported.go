package provider

import (
	"fmt"

	"github.com/papercomputeco/switchboard/pkg/llm"
	"github.com/papercomputeco/switchboard/pkg/llm/provider/anthropic"
	"github.com/papercomputeco/switchboard/pkg/llm/provider/gemini"
	"github.com/papercomputeco/switchboard/pkg/llm/provider/openai"
)

// Supported provider type constants
const (
	OpenAI    = llm.ProviderOpenAI
	Anthropic = llm.ProviderAnthropic
	Gemini    = llm.ProviderGemini
)

// SupportedProviders returns the list of all supported provider type names.
func SupportedProviders() []string {
	return []string{OpenAI, Anthropic, Gemini}
}

// New creates a new Adapter for the given provider type.
// Returns an error if the provider type is not recognized.
func New(providerType string, opts Options) (Adapter, error) {
	switch providerType {
	case OpenAI:
		return openai.New(opts.BaseURL, opts.Model), nil
	case Anthropic:
		return anthropic.New(opts.BaseURL, opts.Model), nil
	case Gemini:
		return gemini.New(opts.BaseURL, opts.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %q (supported: %v)", providerType, SupportedProviders())
	}
}

// DefaultOptions returns the built-in base URL and model for a provider.
func DefaultOptions(providerType string) Options {
	switch providerType {
	case OpenAI:
		return Options{BaseURL: openai.DefaultBaseURL, Model: openai.DefaultModel}
	case Anthropic:
		return Options{BaseURL: anthropic.DefaultBaseURL, Model: anthropic.DefaultModel}
	case Gemini:
		return Options{BaseURL: gemini.DefaultBaseURL, Model: gemini.DefaultModel}
	default:
		return Options{}
	}
}
