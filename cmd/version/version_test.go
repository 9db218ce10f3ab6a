package versioncmder_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	versioncmder "github.com/papercomputeco/switchboard/cmd/version"
	"github.com/papercomputeco/switchboard/pkg/utils"
)

var _ = Describe("NewVersionCmd", func() {
	It("prints the build info", func() {
		cmd := versioncmder.NewVersionCmd()
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetArgs([]string{})

		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(Equal(utils.BuildInfo()))
		Expect(out.String()).To(ContainSubstring("Version: " + utils.Version))
	})

	It("rejects arguments", func() {
		cmd := versioncmder.NewVersionCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"extra"})

		Expect(cmd.Execute()).NotTo(Succeed())
	})
})
