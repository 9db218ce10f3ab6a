// Package configcmder provides the config command for managing persistent
// switchboard configuration stored in the .switchboard/ directory.
package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/pkg/cliui"
	"github.com/papercomputeco/switchboard/pkg/config"
)

const configLongDesc string = `Manage persistent switchboard configuration.

Configuration is stored as config.toml in the .switchboard/ directory and
provides default values for command flags. CLI flags and SWITCHBOARD_*
environment variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  server.listen, server.timeout_seconds, server.repair_json,
  openai.base_url, openai.model, openai.max_concurrency,
  anthropic.base_url, anthropic.model, anthropic.max_concurrency,
  gemini.base_url, gemini.model, gemini.max_concurrency,
  credentials.source, credentials.env_file,
  credentials.ssm_prefix, credentials.ssm_region,
  event_stream.provider, event_stream.brokers, event_stream.topic,
  client.target

Use subcommands to get, set, or list configuration values:
  switchboard config set <key> <value>    Set a configuration value
  switchboard config get <key>            Get a configuration value
  switchboard config list                 List all configuration values

Examples:
  switchboard config set anthropic.model claude-3-5-haiku-latest
  switchboard config set event_stream.brokers localhost:9092,localhost:9093
  switchboard config get server.listen
  switchboard config list`

const configShortDesc string = "Manage persistent switchboard configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func checkKey(key string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}
	return nil
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func printTarget(out io.Writer, cfger *config.Configer) {
	target := cfger.GetTarget()
	if target != "" {
		fmt.Fprintf(out, "\n  %s %s\n\n",
			cliui.KeyStyle.Render("Config file:"),
			cliui.DimStyle.Render(target),
		)
		return
	}
	fmt.Fprintf(out, "\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
}
