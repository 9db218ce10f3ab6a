package cliui_test

import (
	"bytes"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/switchboard/pkg/cliui"
)

var _ = Describe("cliui", func() {
	Describe("Step", func() {
		It("returns the result of fn and prints the final mark", func() {
			var buf bytes.Buffer
			boom := errors.New("boom")

			err := cliui.Step(&buf, "checking gateway", func() error { return boom })
			Expect(err).To(MatchError(boom))
			Expect(buf.String()).To(ContainSubstring("checking gateway"))
			Expect(buf.String()).To(ContainSubstring(cliui.FailMark))
		})
	})

	Describe("FormatDuration", func() {
		It("uses milliseconds below a second", func() {
			Expect(cliui.FormatDuration(12 * time.Millisecond)).To(Equal("12ms"))
		})

		It("uses seconds above a second", func() {
			Expect(cliui.FormatDuration(3200 * time.Millisecond)).To(Equal("3.2s"))
		})
	})

	Describe("ProviderLine", func() {
		It("marks unconfigured providers", func() {
			Expect(cliui.ProviderLine("gemini", false)).To(ContainSubstring("not configured"))
			Expect(cliui.ProviderLine("openai", true)).NotTo(ContainSubstring("not configured"))
		})
	})
})
