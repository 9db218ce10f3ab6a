package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config represents the persistent switchboard configuration stored as
// config.toml in the .switchboard/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Server      ServerConfig      `toml:"server"`
	OpenAI      ProviderConfig    `toml:"openai"`
	Anthropic   ProviderConfig    `toml:"anthropic"`
	Gemini      ProviderConfig    `toml:"gemini"`
	Credentials CredentialsConfig `toml:"credentials"`
	EventStream EventStreamConfig `toml:"event_stream"`
	Client      ClientConfig      `toml:"client"`
}

// ServerConfig holds gateway server settings.
type ServerConfig struct {
	Listen         string `toml:"listen,omitempty"`
	TimeoutSeconds uint   `toml:"timeout_seconds,omitempty"`
	RepairJSON     bool   `toml:"repair_json,omitempty"`
}

// ProviderConfig holds per-provider upstream settings. An empty BaseURL or
// Model falls back to the adapter defaults; MaxConcurrency 0 is unlimited.
type ProviderConfig struct {
	BaseURL        string `toml:"base_url,omitempty"`
	Model          string `toml:"model,omitempty"`
	MaxConcurrency uint   `toml:"max_concurrency,omitempty"`
}

// CredentialsConfig selects where provider API keys are read from at startup.
type CredentialsConfig struct {
	// Source is "env" (process env, .env file and credentials.toml) or "ssm".
	Source    string `toml:"source,omitempty"`
	EnvFile   string `toml:"env_file,omitempty"`
	SSMPrefix string `toml:"ssm_prefix,omitempty"`
	SSMRegion string `toml:"ssm_region,omitempty"`
}

// EventStreamConfig holds chat event publishing settings.
type EventStreamConfig struct {
	Provider string   `toml:"provider,omitempty"`
	Brokers  []string `toml:"brokers,omitempty"`
	Topic    string   `toml:"topic,omitempty"`
}

// ClientConfig holds settings for CLI commands that talk to a running
// gateway (e.g. switchboard chat). Target is a full URL.
type ClientConfig struct {
	Target string `toml:"target,omitempty"`
}

// Provider returns the section for the named provider, or nil.
func (c *Config) Provider(name string) *ProviderConfig {
	switch name {
	case "openai":
		return &c.OpenAI
	case "anthropic":
		return &c.Anthropic
	case "gemini":
		return &c.Gemini
	default:
		return nil
	}
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.listen": {
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	},
	"server.timeout_seconds": {
		get: func(c *Config) string { return formatUint(c.Server.TimeoutSeconds) },
		set: func(c *Config, v string) error {
			return parseUint("server.timeout_seconds", v, &c.Server.TimeoutSeconds)
		},
	},
	"server.repair_json": {
		get: func(c *Config) string { return strconv.FormatBool(c.Server.RepairJSON) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for server.repair_json: %w", err)
			}
			c.Server.RepairJSON = b
			return nil
		},
	},
	"credentials.source": {
		get: func(c *Config) string { return c.Credentials.Source },
		set: func(c *Config, v string) error {
			switch v {
			case CredentialSourceEnv, CredentialSourceSSM:
				c.Credentials.Source = v
				return nil
			default:
				return fmt.Errorf("invalid value for credentials.source: %q (expected env or ssm)", v)
			}
		},
	},
	"credentials.env_file": {
		get: func(c *Config) string { return c.Credentials.EnvFile },
		set: func(c *Config, v string) error { c.Credentials.EnvFile = v; return nil },
	},
	"credentials.ssm_prefix": {
		get: func(c *Config) string { return c.Credentials.SSMPrefix },
		set: func(c *Config, v string) error { c.Credentials.SSMPrefix = v; return nil },
	},
	"credentials.ssm_region": {
		get: func(c *Config) string { return c.Credentials.SSMRegion },
		set: func(c *Config, v string) error { c.Credentials.SSMRegion = v; return nil },
	},
	"event_stream.provider": {
		get: func(c *Config) string { return c.EventStream.Provider },
		set: func(c *Config, v string) error {
			switch v {
			case EventStreamNop, EventStreamKafka:
				c.EventStream.Provider = v
				return nil
			default:
				return fmt.Errorf("invalid value for event_stream.provider: %q (expected nop or kafka)", v)
			}
		},
	},
	"event_stream.brokers": {
		get: func(c *Config) string { return strings.Join(c.EventStream.Brokers, ",") },
		set: func(c *Config, v string) error { c.EventStream.Brokers = splitList(v); return nil },
	},
	"event_stream.topic": {
		get: func(c *Config) string { return c.EventStream.Topic },
		set: func(c *Config, v string) error { c.EventStream.Topic = v; return nil },
	},
	"client.target": {
		get: func(c *Config) string { return c.Client.Target },
		set: func(c *Config, v string) error { c.Client.Target = v; return nil },
	},
}

func init() {
	for _, name := range providerSections {
		addProviderKeys(name)
	}
}

// providerSections lists the per-provider TOML sections in display order.
var providerSections = []string{"openai", "anthropic", "gemini"}

func addProviderKeys(name string) {
	section := func(c *Config) *ProviderConfig { return c.Provider(name) }

	configKeys[name+".base_url"] = configKeyInfo{
		get: func(c *Config) string { return section(c).BaseURL },
		set: func(c *Config, v string) error { section(c).BaseURL = v; return nil },
	}
	configKeys[name+".model"] = configKeyInfo{
		get: func(c *Config) string { return section(c).Model },
		set: func(c *Config, v string) error { section(c).Model = v; return nil },
	}
	configKeys[name+".max_concurrency"] = configKeyInfo{
		get: func(c *Config) string { return strconv.FormatUint(uint64(section(c).MaxConcurrency), 10) },
		set: func(c *Config, v string) error {
			return parseUint(name+".max_concurrency", v, &section(c).MaxConcurrency)
		},
	}
}

func formatUint(n uint) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(n), 10)
}

func parseUint(key, v string, target *uint) error {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*target = uint(n)
	return nil
}

func splitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
