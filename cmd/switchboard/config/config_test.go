package configcmder_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/switchboard/cmd/switchboard/config"
)

var _ = Describe("NewConfigCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := configcmder.NewConfigCmd()
		Expect(cmd.Use).To(Equal("config"))
	})

	It("has set, get, and list subcommands", func() {
		cmd := configcmder.NewConfigCmd()
		cmds := cmd.Commands()
		subcommands := make([]string, 0, len(cmds))
		for _, sub := range cmds {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("set", "get", "list"))
	})
})

var _ = Describe("Config command execution", func() {
	var (
		tmpDir  string
		origDir string
	)

	run := func(args ...string) (string, error) {
		cmd := configcmder.NewConfigCmd()
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		err := cmd.Execute()
		return out.String(), err
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "switchboard-config-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		// A local .switchboard dir takes precedence over ~/.switchboard
		err = os.MkdirAll(filepath.Join(tmpDir, ".switchboard"), 0o755)
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		err := os.Chdir(origDir)
		Expect(err).NotTo(HaveOccurred())
		os.RemoveAll(tmpDir)
	})

	Describe("set subcommand", func() {
		It("sets a config value successfully", func() {
			_, err := run("set", "anthropic.model", "claude-3-5-haiku-latest")
			Expect(err).NotTo(HaveOccurred())

			data, err := os.ReadFile(filepath.Join(tmpDir, ".switchboard", "config.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("claude-3-5-haiku-latest"))
		})

		It("rejects unknown keys", func() {
			_, err := run("set", "invalid_key", "value")
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))
		})

		It("requires exactly two arguments", func() {
			_, err := run("set", "server.listen")
			Expect(err).To(HaveOccurred())
		})

		It("rejects zero arguments", func() {
			_, err := run("set")
			Expect(err).To(HaveOccurred())
		})

		It("rejects invalid uint values", func() {
			_, err := run("set", "server.timeout_seconds", "not-a-number")
			Expect(err).To(HaveOccurred())
		})

		It("rejects an unknown credential source", func() {
			_, err := run("set", "credentials.source", "vault")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("get subcommand", func() {
		It("gets a previously set value", func() {
			_, err := run("set", "gemini.max_concurrency", "4")
			Expect(err).NotTo(HaveOccurred())

			out, err := run("get", "gemini.max_concurrency")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("4"))
		})

		It("shows defaults for keys that were never set", func() {
			out, err := run("get", "server.listen")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring(":8080"))
		})

		It("rejects unknown keys", func() {
			_, err := run("get", "invalid_key")
			Expect(err).To(HaveOccurred())
		})

		It("requires exactly one argument", func() {
			_, err := run("get")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("list subcommand", func() {
		It("runs without error when no config exists", func() {
			out, err := run("list")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("client.target"))
		})

		It("shows values that were set", func() {
			_, err := run("set", "event_stream.topic", "chat.events")
			Expect(err).NotTo(HaveOccurred())

			out, err := run("list")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring(`"chat.events"`))
		})

		It("rejects any arguments", func() {
			_, err := run("list", "extra")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("shell completion", func() {
		It("completes config keys for the first argument", func() {
			cmd := configcmder.NewConfigCmd()
			get, _, err := cmd.Find([]string{"get"})
			Expect(err).NotTo(HaveOccurred())

			completions, directive := get.ValidArgsFunction(get, []string{}, "")
			Expect(completions).To(ContainElement("server.listen"))
			Expect(directive).To(Equal(cobra.ShellCompDirectiveNoFileComp))
		})
	})
})
