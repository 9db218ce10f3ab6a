package config

import (
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag describes one CLI flag and the config key it feeds. Commands add
// flags by registry key so --target means the same thing everywhere.
type Flag struct {
	Name        string
	Shorthand   string
	ViperKey    string
	Description string
}

// FlagSet maps registry keys to flag definitions.
type FlagSet map[string]Flag

// Registry keys for Flags.
const (
	FlagListen           = "listen"
	FlagTimeout          = "timeout"
	FlagRepairJSON       = "repair-json"
	FlagCredentialSource = "credential-source"
	FlagEnvFile          = "env-file"
	FlagSSMPrefix        = "ssm-prefix"
	FlagSSMRegion        = "ssm-region"
	FlagEventStream      = "event-stream"
	FlagEventTopic       = "event-topic"
	FlagTarget           = "target"
)

// Flags is the registry shared by every switchboard command.
var Flags = FlagSet{
	FlagListen:           {Name: "listen", Shorthand: "l", ViperKey: "server.listen", Description: "Address for the gateway to listen on"},
	FlagTimeout:          {Name: "timeout", ViperKey: "server.timeout_seconds", Description: "Per-call upstream timeout in seconds"},
	FlagRepairJSON:       {Name: "repair-json", ViperKey: "server.repair_json", Description: "Repair malformed JSON replies for jsonMode requests"},
	FlagCredentialSource: {Name: "credential-source", ViperKey: "credentials.source", Description: "Where provider API keys are read from (env, ssm)"},
	FlagEnvFile:          {Name: "env-file", ViperKey: "credentials.env_file", Description: "Optional .env file with provider API keys"},
	FlagSSMPrefix:        {Name: "ssm-prefix", ViperKey: "credentials.ssm_prefix", Description: "SSM parameter path prefix for provider API keys"},
	FlagSSMRegion:        {Name: "ssm-region", ViperKey: "credentials.ssm_region", Description: "AWS region for SSM lookups"},
	FlagEventStream:      {Name: "event-stream", ViperKey: "event_stream.provider", Description: "Chat event publisher (nop, kafka)"},
	FlagEventTopic:       {Name: "event-topic", ViperKey: "event_stream.topic", Description: "Kafka topic for chat events"},
	FlagTarget:           {Name: "target", Shorthand: "t", ViperKey: "client.target", Description: "Switchboard gateway URL"},
}

// flagDefaults holds NewDefaultConfig as viper keys so flag help shows
// the same defaults a bare config.toml would produce.
var flagDefaults = sync.OnceValue(func() *viper.Viper {
	v := viper.New()
	setViperDefaults(v)
	return v
})

// AddStringFlag registers the string flag fs[key] on cmd. Unknown keys
// are ignored.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	if f, ok := fs[key]; ok {
		cmd.Flags().StringVarP(target, f.Name, f.Shorthand, flagDefaults().GetString(f.ViperKey), f.Description)
	}
}

func AddUintFlag(cmd *cobra.Command, fs FlagSet, key string, target *uint) {
	if f, ok := fs[key]; ok {
		cmd.Flags().UintVarP(target, f.Name, f.Shorthand, flagDefaults().GetUint(f.ViperKey), f.Description)
	}
}

func AddBoolFlag(cmd *cobra.Command, fs FlagSet, key string, target *bool) {
	if f, ok := fs[key]; ok {
		cmd.Flags().BoolVarP(target, f.Name, f.Shorthand, flagDefaults().GetBool(f.ViperKey), f.Description)
	}
}

// BindRegisteredFlags ties flags already added to cmd into v, giving the
// precedence flag > env > config.toml > default. Call it from PreRunE
// after InitViper.
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, keys []string) {
	for _, key := range keys {
		f, ok := fs[key]
		if !ok {
			continue
		}
		if pf := cmd.Flags().Lookup(f.Name); pf != nil {
			_ = v.BindPFlag(f.ViperKey, pf)
		}
	}
}
