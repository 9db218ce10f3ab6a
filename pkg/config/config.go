package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/switchboard/pkg/dotdir"
)

const (
	configFile = "config.toml"

	// CurrentV is the config.toml schema version this build reads and writes.
	CurrentV = 0
)

var errNoTarget = errors.New("no .switchboard directory to save config into")

// Configer reads and writes config.toml inside a resolved .switchboard/
// directory. A Configer without a directory serves defaults and refuses
// to save.
type Configer struct {
	path string
}

// NewConfiger resolves the .switchboard/ directory, preferring override
// when it is non-empty.
func NewConfiger(override string) (*Configer, error) {
	dir, err := dotdir.NewManager().Target(override)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return &Configer{}, nil
	}

	path := filepath.Join(dir, configFile)
	if _, err := os.Stat(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return &Configer{path: path}, nil
}

// GetTarget returns the config.toml path, or "" when no directory resolved.
func (c *Configer) GetTarget() string {
	return c.path
}

// keyOrder follows the section layout of config.toml.
var keyOrder = func() []string {
	keys := []string{"server.listen", "server.timeout_seconds", "server.repair_json"}
	for _, name := range providerSections {
		keys = append(keys, name+".base_url", name+".model", name+".max_concurrency")
	}
	return append(keys,
		"credentials.source",
		"credentials.env_file",
		"credentials.ssm_prefix",
		"credentials.ssm_region",
		"event_stream.provider",
		"event_stream.brokers",
		"event_stream.topic",
		"client.target",
	)
}()

// ValidConfigKeys returns every supported key in config.toml section order.
func ValidConfigKeys() []string {
	return slices.Clone(keyOrder)
}

// IsValidConfigKey reports whether key names a supported setting.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

// LoadConfig reads config.toml and fills unset fields from NewDefaultConfig.
// A missing file yields the defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.path == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return NewDefaultConfig(), nil
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}
	fillDefaults(cfg, NewDefaultConfig())
	return cfg, nil
}

func fill[T comparable](dst *T, def T) {
	var zero T
	if *dst == zero {
		*dst = def
	}
}

func fillDefaults(cfg, def *Config) {
	fill(&cfg.Version, def.Version)
	fill(&cfg.Server.Listen, def.Server.Listen)
	fill(&cfg.Server.TimeoutSeconds, def.Server.TimeoutSeconds)

	for _, name := range providerSections {
		p, d := cfg.Provider(name), def.Provider(name)
		fill(&p.BaseURL, d.BaseURL)
		fill(&p.Model, d.Model)
	}

	fill(&cfg.Credentials.Source, def.Credentials.Source)
	fill(&cfg.Credentials.EnvFile, def.Credentials.EnvFile)
	fill(&cfg.Credentials.SSMPrefix, def.Credentials.SSMPrefix)
	fill(&cfg.EventStream.Provider, def.EventStream.Provider)
	fill(&cfg.EventStream.Topic, def.EventStream.Topic)
	fill(&cfg.Client.Target, def.Client.Target)
}

// SaveConfig writes cfg to config.toml with owner-only permissions.
func (c *Configer) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}
	if c.path == "" {
		return errNoTarget
	}

	f, err := os.OpenFile(c.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func lookupKey(key string) (configKeyInfo, error) {
	info, ok := configKeys[key]
	if !ok {
		return configKeyInfo{}, fmt.Errorf("unknown config key: %q", key)
	}
	return info, nil
}

// SetConfigValue parses value into key and saves the result.
func (c *Configer) SetConfigValue(key, value string) error {
	info, err := lookupKey(key)
	if err != nil {
		return err
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}
	if err := info.set(cfg, value); err != nil {
		return err
	}
	return c.SaveConfig(cfg)
}

// GetConfigValue returns the effective value of key, defaults included.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, err := lookupKey(key)
	if err != nil {
		return "", err
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}
	return info.get(cfg), nil
}

// ParseConfigTOML decodes config.toml contents without applying defaults.
func ParseConfigTOML(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}
	if cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}
	return &cfg, nil
}
