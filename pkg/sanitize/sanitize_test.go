package sanitize_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/switchboard/pkg/sanitize"
)

var _ = Describe("Fences", func() {
	DescribeTable("strips surrounding fences",
		func(in, want string) {
			Expect(sanitize.Fences(in)).To(Equal(want))
		},
		Entry("tagged json fence", "```json\n{\"a\":1}\n```", `{"a":1}`),
		Entry("untagged fence", "```\n{\"a\":1}\n```", `{"a":1}`),
		Entry("leading whitespace", "  \n```json\n[1, 2]\n```\n", `[1, 2]`),
		Entry("missing closing fence", "```json\n{\"a\":1}", `{"a":1}`),
		Entry("single line fence", "```json {\"a\":1}```", `{"a":1}`),
		Entry("nested fence", "```\n```json\n{}\n```\n```", `{}`),
		Entry("multi-line body", "```json\n{\n  \"a\": 1\n}\n```", "{\n  \"a\": 1\n}"),
	)

	DescribeTable("leaves unfenced text alone",
		func(in string) {
			Expect(sanitize.Fences(in)).To(Equal(in))
		},
		Entry("plain json", `{"a":1}`),
		Entry("prose", "Here is the answer."),
		Entry("fence in the middle", "Result:\n```json\n{}\n```"),
		Entry("empty", ""),
	)

	It("is idempotent", func() {
		inputs := []string{
			"```json\n{\"a\":1}\n```",
			"```\n```\n```",
			"   ```",
			"hello",
			"```json\n```json\n{\"b\":2}\n```\n```",
		}
		for _, in := range inputs {
			once := sanitize.Fences(in)
			Expect(sanitize.Fences(once)).To(Equal(once), "input %q", in)
		}
	})
})

var _ = Describe("RepairJSON", func() {
	It("repairs trailing commas", func() {
		out := sanitize.RepairJSON(`{"a": 1, "b": [1, 2,],}`)
		Expect(json.Valid([]byte(out))).To(BeTrue())
	})

	It("keeps valid JSON valid", func() {
		out := sanitize.RepairJSON(`{"a":1}`)
		Expect(json.Valid([]byte(out))).To(BeTrue())
		Expect(out).To(MatchJSON(`{"a":1}`))
	})
})
