// Package servecmder provides the serve command, which runs the gateway's
// HTTP server.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/api"
	"github.com/papercomputeco/switchboard/pkg/bootstrap"
	"github.com/papercomputeco/switchboard/pkg/config"
	"github.com/papercomputeco/switchboard/pkg/logger"
)

// shutdownTimeout bounds in-flight requests and event draining on exit.
const shutdownTimeout = 15 * time.Second

type serveCommander struct {
	flags serveFlags

	configDir string
	logFile   string
	debug     bool

	cfg    *config.Config
	logger *slog.Logger
}

// serveFlags hold the registry-backed flag targets. Values are read back
// through viper so env vars and config.toml apply when a flag is unset.
type serveFlags struct {
	listen           string
	timeout          uint
	repairJSON       bool
	credentialSource string
	envFile          string
	ssmPrefix        string
	ssmRegion        string
	eventStream      string
	eventTopic       string
}

var serveFlagKeys = []string{
	config.FlagListen,
	config.FlagTimeout,
	config.FlagRepairJSON,
	config.FlagCredentialSource,
	config.FlagEnvFile,
	config.FlagSSMPrefix,
	config.FlagSSMRegion,
	config.FlagEventStream,
	config.FlagEventTopic,
}

const serveLongDesc string = `Run the switchboard gateway.

The gateway accepts provider-agnostic chat requests and forwards each one to
OpenAI, Anthropic or Gemini:
  POST /chat               Chat, provider named in the body
  POST /chat/{provider}    Chat, provider named in the path
  GET  /health             Which providers have credentials
  GET  /ping               Liveness
  /mcp                     MCP tools (chat, providers) over streamable HTTP

Provider API keys are read once at startup from the environment (and an
optional .env file, then credentials.toml) or from AWS SSM Parameter Store.

Settings come from flags, SWITCHBOARD_* environment variables and
config.toml, in that order of precedence.

Examples:
  switchboard serve
  switchboard serve --listen :9090 --timeout 30
  switchboard serve --credential-source ssm --ssm-prefix /switchboard/prod
  switchboard serve --event-stream kafka --event-topic chat.completed`

const serveShortDesc string = "Run the switchboard gateway"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, serveFlagKeys)

			cmder.cfg = config.ConfigFromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.flags.listen)
	config.AddUintFlag(cmd, config.Flags, config.FlagTimeout, &cmder.flags.timeout)
	config.AddBoolFlag(cmd, config.Flags, config.FlagRepairJSON, &cmder.flags.repairJSON)
	config.AddStringFlag(cmd, config.Flags, config.FlagCredentialSource, &cmder.flags.credentialSource)
	config.AddStringFlag(cmd, config.Flags, config.FlagEnvFile, &cmder.flags.envFile)
	config.AddStringFlag(cmd, config.Flags, config.FlagSSMPrefix, &cmder.flags.ssmPrefix)
	config.AddStringFlag(cmd, config.Flags, config.FlagSSMRegion, &cmder.flags.ssmRegion)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventStream, &cmder.flags.eventStream)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventTopic, &cmder.flags.eventTopic)
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

func (c *serveCommander) run() error {
	log, closeLog, err := c.newLogger()
	if err != nil {
		return err
	}
	defer closeLog()
	c.logger = log

	ctx := context.Background()

	stack, err := bootstrap.New(ctx, c.cfg, bootstrap.Options{
		ConfigDir:       c.configDir,
		CredentialsFile: true,
		Logger:          c.logger,
	})
	if err != nil {
		return fmt.Errorf("starting gateway: %w", err)
	}

	server, err := api.NewServer(api.Config{ListenAddr: c.cfg.Server.Listen}, stack.Gateway, c.logger)
	if err != nil {
		_ = stack.Close()
		return fmt.Errorf("creating api server: %w", err)
	}

	c.logger.Info("starting gateway",
		"listen", c.cfg.Server.Listen,
		"timeout_seconds", c.cfg.Server.TimeoutSeconds,
		"credential_source", c.cfg.Credentials.Source,
		"event_stream", c.cfg.EventStream.Provider,
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case runErr = <-errChan:
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		c.logger.Error("api server shutdown failed", "error", err)
	}
	if err := stack.Close(); err != nil {
		c.logger.Error("event publisher shutdown failed", "error", err)
	}

	return runErr
}

// newLogger writes pretty logs to stderr and, with --log-file, JSON logs to
// the file as well.
func (c *serveCommander) newLogger() (*slog.Logger, func(), error) {
	pretty := logger.New(logger.WithDebug(c.debug), logger.WithFormat(logger.FormatPretty))
	if c.logFile == "" {
		return pretty, func() {}, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	jsonLog := logger.New(
		logger.WithDebug(c.debug),
		logger.WithFormat(logger.FormatJSON),
		logger.WithComponent("gateway"),
		logger.WithWriter(f),
	)
	return logger.Multi(pretty, jsonLog), func() { _ = f.Close() }, nil
}
