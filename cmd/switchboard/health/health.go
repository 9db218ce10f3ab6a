// Package healthcmder provides the health command, which reports which
// providers a running gateway has credentials for.
package healthcmder

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/pkg/client"
	"github.com/papercomputeco/switchboard/pkg/cliui"
	"github.com/papercomputeco/switchboard/pkg/config"
	"github.com/papercomputeco/switchboard/pkg/llm"
)

const healthTimeout = 10 * time.Second

type healthCommander struct {
	target string
}

const healthLongDesc string = `Check a running switchboard gateway.

Calls the gateway's /health endpoint and lists, per provider, whether a
credential is configured. Credential values are never shown.

Examples:
  switchboard health
  switchboard health --target http://gateway.internal:8080`

const healthShortDesc string = "Show which providers a gateway can serve"

func NewHealthCmd() *cobra.Command {
	cmder := &healthCommander{}

	cmd := &cobra.Command{
		Use:   "health",
		Short: healthShortDesc,
		Long:  healthLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed(config.Flags[config.FlagTarget].Name) {
				cmder.target = cfg.Client.Target
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagTarget, &cmder.target)

	return cmd
}

func (c *healthCommander) run(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	var health *llm.HealthResponse
	fmt.Fprintln(out)
	err := cliui.Step(out, "Contacting "+c.target, func() error {
		var err error
		health, err = client.New(c.target, nil).Health(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("checking gateway health: %w", err)
	}

	fmt.Fprintf(out, "\n  %s\n\n", cliui.HeaderStyle.Render("Providers"))
	for _, name := range llm.Providers() {
		fmt.Fprintln(out, cliui.ProviderLine(name, health.Providers[name]))
	}
	fmt.Fprintln(out)

	return nil
}
