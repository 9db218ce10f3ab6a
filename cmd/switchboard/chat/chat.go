// Package chatcmder provides the chat command for talking to a provider
// through a running switchboard gateway.
package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/switchboard/pkg/client"
	"github.com/papercomputeco/switchboard/pkg/cliui"
	"github.com/papercomputeco/switchboard/pkg/config"
	"github.com/papercomputeco/switchboard/pkg/llm"
	"github.com/papercomputeco/switchboard/pkg/logger"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("assistant> ")
)

type chatCommander struct {
	target      string
	provider    string
	system      string
	model       string
	jsonMode    bool
	temperature float64
	maxTokens   int
	raw         bool

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	client *client.Client
	logger *slog.Logger
}

const chatLongDesc string = `Send chat messages through a running switchboard gateway.

With a message argument, or with input piped on stdin, chat sends a single
request and prints the reply. Without either it starts an interactive
session that keeps the conversation history until you exit.

Replies are rendered as markdown on a terminal. Use --raw to print them
verbatim; --json replies are never rendered.

Examples:
  switchboard chat "Summarize the Go memory model"
  switchboard chat -p anthropic --system "Answer in one sentence" "What is a goroutine?"
  echo '{"name":"switchboard"}' | switchboard chat -p gemini --json "Add a version field"
  switchboard chat -p openai --target http://gateway.internal:8080`

const chatShortDesc string = "Chat with an LLM through the switchboard gateway"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: chatShortDesc,
		Long:  chatLongDesc,
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
		RunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			cmder.logger = logger.New(logger.WithDebug(debug), logger.WithFormat(logger.FormatPretty), logger.WithWriter(cmd.ErrOrStderr()))
			cmder.in = cmd.InOrStdin()
			cmder.out = cmd.OutOrStdout()
			cmder.errOut = cmd.ErrOrStderr()
			return cmder.run(cmd.Context(), args)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagTarget, &cmder.target)
	cmd.Flags().StringVarP(&cmder.provider, "provider", "p", llm.ProviderOpenAI, "Provider to chat with (openai, anthropic, gemini)")
	cmd.Flags().StringVarP(&cmder.system, "system", "s", "", "System prompt sent before the conversation")
	cmd.Flags().StringVarP(&cmder.model, "model", "m", "", "Model override (defaults to the gateway's configured model)")
	cmd.Flags().BoolVar(&cmder.jsonMode, "json", false, "Ask the model for JSON only")
	cmd.Flags().Float64Var(&cmder.temperature, "temperature", llm.DefaultTemperature, "Sampling temperature (0 to 2)")
	cmd.Flags().IntVar(&cmder.maxTokens, "max-tokens", llm.DefaultMaxTokens, "Maximum tokens in the reply")
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print replies without markdown rendering")

	_ = cmd.RegisterFlagCompletionFunc("provider", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return llm.Providers(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *chatCommander) run(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c.provider = strings.ToLower(strings.TrimSpace(c.provider))
	if !llm.IsKnownProvider(c.provider) {
		return fmt.Errorf("unknown provider %q (supported: %s)", c.provider, strings.Join(llm.Providers(), ", "))
	}

	c.client = client.New(c.target, nil)

	if len(args) > 0 {
		return c.oneShot(ctx, strings.Join(args, " "))
	}

	if !isTerminal(c.in) {
		input, err := io.ReadAll(c.in)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		message := strings.TrimSpace(string(input))
		if message == "" {
			return fmt.Errorf("no message given: pass one as an argument or on stdin")
		}
		return c.oneShot(ctx, message)
	}

	return c.interactive(ctx)
}

func (c *chatCommander) oneShot(ctx context.Context, message string) error {
	reply, err := c.send(ctx, c.conversation(llm.ChatMessage{Role: llm.RoleUser, Content: message}))
	if err != nil {
		return err
	}

	c.print(reply)
	return nil
}

func (c *chatCommander) interactive(ctx context.Context) error {
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "  %s %s\n", cliui.KeyStyle.Render("Provider:"), cliui.NameStyle.Render(c.provider))
	if c.model != "" {
		fmt.Fprintf(c.out, "  %s %s\n", cliui.KeyStyle.Render("Model:"), cliui.NameStyle.Render(c.model))
	}
	fmt.Fprintf(c.out, "  %s %s\n\n", cliui.KeyStyle.Render("Gateway:"), cliui.DimStyle.Render(c.target))
	fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	messages := c.conversation()

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, userPrompt)
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		messages = append(messages, llm.ChatMessage{Role: llm.RoleUser, Content: input})

		started := time.Now()
		reply, err := c.send(ctx, messages)
		if err != nil {
			fmt.Fprintf(c.errOut, "  %s %s\n", cliui.FailMark, cliui.ErrorStyle.Render(err.Error()))
			// Drop the failed turn so the user can retry
			messages = messages[:len(messages)-1]
			continue
		}

		messages = append(messages, llm.ChatMessage{Role: llm.RoleAssistant, Content: reply})

		fmt.Fprint(c.out, assistantPrompt)
		c.print(reply)
		fmt.Fprintf(c.out, "  %s\n\n", cliui.StepStyle.Render(c.provider+" · "+cliui.FormatDuration(time.Since(started))))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintln(c.out)
	return nil
}

// conversation starts a message list with the system prompt, if any.
func (c *chatCommander) conversation(msgs ...llm.ChatMessage) []llm.ChatMessage {
	out := make([]llm.ChatMessage, 0, len(msgs)+1)
	if c.system != "" {
		out = append(out, llm.ChatMessage{Role: llm.RoleSystem, Content: c.system})
	}
	return append(out, msgs...)
}

func (c *chatCommander) send(ctx context.Context, messages []llm.ChatMessage) (string, error) {
	c.logger.Debug("sending chat request",
		"target", c.target,
		"provider", c.provider,
		"message_count", len(messages),
	)

	result, err := c.client.Chat(ctx, &llm.ChatRequest{
		Provider:    c.provider,
		Messages:    messages,
		JSONMode:    c.jsonMode,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Model:       c.model,
	})
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

func (c *chatCommander) print(reply string) {
	if c.raw || c.jsonMode || !isTerminal(c.out) {
		fmt.Fprintln(c.out, reply)
		return
	}

	rendered, err := cliui.RenderMarkdown(reply)
	if err != nil {
		c.logger.Debug("markdown rendering failed", "error", err)
	}
	fmt.Fprint(c.out, rendered)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
