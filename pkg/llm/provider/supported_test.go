package provider_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/switchboard/pkg/llm"
	"github.com/papercomputeco/switchboard/pkg/llm/provider"
)

var _ = Describe("New", func() {
	DescribeTable("builds an adapter for each supported provider",
		func(name string) {
			adapter, err := provider.New(name, provider.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(adapter.Name()).To(Equal(name))
		},
		Entry("openai", provider.OpenAI),
		Entry("anthropic", provider.Anthropic),
		Entry("gemini", provider.Gemini),
	)

	It("rejects unknown providers", func() {
		_, err := provider.New("ollama", provider.Options{})
		Expect(err).To(MatchError(ContainSubstring(`unknown provider type: "ollama"`)))
	})

	It("applies the configured base URL", func() {
		adapter, err := provider.New(provider.OpenAI, provider.Options{BaseURL: "http://127.0.0.1:9999"})
		Expect(err).NotTo(HaveOccurred())

		wire, err := adapter.Encode(&llm.ChatRequest{
			Messages:  []llm.ChatMessage{{Role: "user", Content: "hi"}},
			MaxTokens: 1,
		}, "k")
		Expect(err).NotTo(HaveOccurred())
		Expect(wire.URL).To(Equal("http://127.0.0.1:9999/v1/chat/completions"))
	})
})

var _ = Describe("SupportedProviders", func() {
	It("matches the providers accepted by the validator", func() {
		Expect(provider.SupportedProviders()).To(ConsistOf(llm.Providers()))
	})
})

var _ = Describe("DefaultOptions", func() {
	It("knows every supported provider", func() {
		for _, name := range provider.SupportedProviders() {
			opts := provider.DefaultOptions(name)
			Expect(opts.BaseURL).To(HavePrefix("https://"))
			Expect(opts.Model).NotTo(BeEmpty())
		}
	})
})
