package credentials

import (
	"context"
	"fmt"
)

// Resolver hands out provider credentials. An empty string means the
// provider is not configured.
type Resolver interface {
	Credential(provider string) string
}

// Static is a Resolver backed by a fixed map. It is safe for concurrent use
// as long as it is not mutated after construction.
type Static map[string]string

// Credential returns the credential for provider, or "" when none is set.
func (s Static) Credential(provider string) string {
	return s[provider]
}

// Configured reports whether a non-empty credential exists for provider.
func Configured(r Resolver, provider string) bool {
	return r != nil && r.Credential(provider) != ""
}

// Source looks up a single provider credential. Lookup returns "" with a
// nil error when the source has nothing for the provider.
type Source interface {
	Name() string
	Lookup(ctx context.Context, provider string) (string, error)
}

// Resolve builds a Static resolver once, querying sources in order for each
// provider. The first non-empty value wins.
func Resolve(ctx context.Context, providers []string, sources ...Source) (Static, error) {
	resolved := make(Static, len(providers))

	for _, provider := range providers {
		for _, src := range sources {
			value, err := src.Lookup(ctx, provider)
			if err != nil {
				return nil, fmt.Errorf("resolving %s credential from %s: %w", provider, src.Name(), err)
			}
			if value != "" {
				resolved[provider] = value
				break
			}
		}
	}

	return resolved, nil
}
