package switchboardcmder_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	switchboardcmder "github.com/papercomputeco/switchboard/cmd/switchboard"
)

var _ = Describe("NewSwitchboardCmd", func() {
	It("registers every subcommand", func() {
		cmd := switchboardcmder.NewSwitchboardCmd()
		names := make([]string, 0, len(cmd.Commands()))
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("auth", "chat", "config", "health", "init", "serve", "version"))
	})

	It("has global debug and config-dir flags", func() {
		cmd := switchboardcmder.NewSwitchboardCmd()
		Expect(cmd.PersistentFlags().Lookup("debug").Shorthand).To(Equal("d"))
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
	})

	It("prints the version", func() {
		cmd := switchboardcmder.NewSwitchboardCmd()
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetArgs([]string{"version"})
		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Version: dev"))
	})

	It("passes the config dir down to subcommands", func() {
		tmpDir := GinkgoT().TempDir()

		cmd := switchboardcmder.NewSwitchboardCmd()
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetArgs([]string{"--config-dir", tmpDir, "config", "get", "client.target"})
		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring(tmpDir))
		Expect(out.String()).To(ContainSubstring("http://localhost:8080"))
	})
})
