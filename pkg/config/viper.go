package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/switchboard/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the SWITCHBOARD_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (SWITCHBOARD_SERVER_LISTEN, SWITCHBOARD_OPENAI_MODEL, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: SWITCHBOARD_SERVER_LISTEN, SWITCHBOARD_EVENT_STREAM_TOPIC, etc.
	bindEnv(v)

	return v, nil
}

// EnvViper is InitViper without config file discovery, for environments
// such as AWS Lambda that have no writable home directory.
func EnvViper() *viper.Viper {
	v := viper.New()
	setViperDefaults(v)
	bindEnv(v)
	return v
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("SWITCHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Server
	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.timeout_seconds", d.Server.TimeoutSeconds)
	v.SetDefault("server.repair_json", d.Server.RepairJSON)

	// Providers
	for _, name := range providerSections {
		p := d.Provider(name)
		v.SetDefault(name+".base_url", p.BaseURL)
		v.SetDefault(name+".model", p.Model)
		v.SetDefault(name+".max_concurrency", p.MaxConcurrency)
	}

	// Credentials
	v.SetDefault("credentials.source", d.Credentials.Source)
	v.SetDefault("credentials.env_file", d.Credentials.EnvFile)
	v.SetDefault("credentials.ssm_prefix", d.Credentials.SSMPrefix)
	v.SetDefault("credentials.ssm_region", d.Credentials.SSMRegion)

	// Event stream
	v.SetDefault("event_stream.provider", d.EventStream.Provider)
	v.SetDefault("event_stream.brokers", d.EventStream.Brokers)
	v.SetDefault("event_stream.topic", d.EventStream.Topic)

	// Client
	v.SetDefault("client.target", d.Client.Target)
}

// ConfigFromViper reads the resolved configuration out of v, honoring the
// full flag > env > file > default precedence chain.
func ConfigFromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Version: v.GetInt("version"),
		Server: ServerConfig{
			Listen:         v.GetString("server.listen"),
			TimeoutSeconds: v.GetUint("server.timeout_seconds"),
			RepairJSON:     v.GetBool("server.repair_json"),
		},
		Credentials: CredentialsConfig{
			Source:    v.GetString("credentials.source"),
			EnvFile:   v.GetString("credentials.env_file"),
			SSMPrefix: v.GetString("credentials.ssm_prefix"),
			SSMRegion: v.GetString("credentials.ssm_region"),
		},
		EventStream: EventStreamConfig{
			Provider: v.GetString("event_stream.provider"),
			Brokers:  brokersFromViper(v),
			Topic:    v.GetString("event_stream.topic"),
		},
		Client: ClientConfig{
			Target: v.GetString("client.target"),
		},
	}

	for _, name := range providerSections {
		p := cfg.Provider(name)
		p.BaseURL = v.GetString(name + ".base_url")
		p.Model = v.GetString(name + ".model")
		p.MaxConcurrency = v.GetUint(name + ".max_concurrency")
	}

	return cfg
}

// brokersFromViper accepts both a TOML list and a comma-separated string,
// which is how the value arrives from SWITCHBOARD_EVENT_STREAM_BROKERS.
func brokersFromViper(v *viper.Viper) []string {
	var out []string
	for _, entry := range v.GetStringSlice("event_stream.brokers") {
		out = append(out, splitList(entry)...)
	}
	return out
}
