// Package switchboardcmder
package switchboardcmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/papercomputeco/switchboard/cmd/switchboard/auth"
	chatcmder "github.com/papercomputeco/switchboard/cmd/switchboard/chat"
	configcmder "github.com/papercomputeco/switchboard/cmd/switchboard/config"
	healthcmder "github.com/papercomputeco/switchboard/cmd/switchboard/health"
	initcmder "github.com/papercomputeco/switchboard/cmd/switchboard/init"
	servecmder "github.com/papercomputeco/switchboard/cmd/switchboard/serve"
	versioncmder "github.com/papercomputeco/switchboard/cmd/version"
)

const switchboardLongDesc string = `Switchboard is a single chat gateway in front of OpenAI, Anthropic and Gemini.

Callers send one provider-agnostic request shape; switchboard translates it
to the provider's API, makes the call and hands back the assistant text.

Get started:
  switchboard auth openai      Store an API key
  switchboard serve            Run the gateway
  switchboard chat "hello"     Send a message through it
  switchboard health           See which providers are configured`

const switchboardShortDesc string = "Switchboard - multi-provider LLM chat gateway"

func NewSwitchboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "switchboard",
		Short:        switchboardShortDesc,
		Long:         switchboardLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .switchboard/ config directory")

	// Add subcommands
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(healthcmder.NewHealthCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
