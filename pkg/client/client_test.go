package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/switchboard/pkg/client"
	"github.com/papercomputeco/switchboard/pkg/llm"
	"github.com/papercomputeco/switchboard/pkg/utils"
	testutils "github.com/papercomputeco/switchboard/pkg/utils/test"
)

var _ = Describe("Client", func() {
	var (
		gateway *testutils.Upstream
		c       *client.Client
		ctx     context.Context
	)

	BeforeEach(func() {
		gateway = testutils.NewUpstream(`{"content":"hello"}`)
		c = client.New(gateway.URL+"/", nil)
		ctx = context.Background()
	})

	AfterEach(func() {
		gateway.Close()
	})

	Describe("Chat", func() {
		It("posts the request to /chat", func() {
			result, err := c.Chat(ctx, &llm.ChatRequest{
				Provider:    llm.ProviderAnthropic,
				Messages:    []llm.ChatMessage{{Role: llm.RoleUser, Content: "hi"}},
				Temperature: llm.DefaultTemperature,
				MaxTokens:   llm.DefaultMaxTokens,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Content).To(Equal("hello"))

			last := gateway.Last()
			Expect(last.Method).To(Equal(http.MethodPost))
			Expect(last.Path).To(Equal("/chat"))
			Expect(last.Header.Get("Content-Type")).To(Equal("application/json"))
			Expect(last.Header.Get("User-Agent")).To(Equal(utils.UserAgent()))

			var sent map[string]any
			Expect(json.Unmarshal(last.Body, &sent)).To(Succeed())
			Expect(sent).To(HaveKeyWithValue("provider", "anthropic"))
			Expect(sent).To(HaveKeyWithValue("maxTokens", BeNumerically("==", 4000)))
		})

		It("rebuilds gateway errors", func() {
			gateway.Respond(http.StatusBadRequest, `{"error":"no credential for gemini","kind":"NotConfigured"}`)

			_, err := c.Chat(ctx, &llm.ChatRequest{Provider: llm.ProviderGemini})
			var gwErr *llm.Error
			Expect(errors.As(err, &gwErr)).To(BeTrue())
			Expect(gwErr.Kind).To(Equal(llm.NotConfigured))
			Expect(gwErr.Message).To(Equal("no credential for gemini"))
		})

		It("keeps the status of upstream failures", func() {
			gateway.Respond(http.StatusTooManyRequests, `{"error":"slow down","kind":"UpstreamError"}`)

			_, err := c.Chat(ctx, &llm.ChatRequest{Provider: llm.ProviderOpenAI})
			var gwErr *llm.Error
			Expect(errors.As(err, &gwErr)).To(BeTrue())
			Expect(gwErr.UpstreamStatus).To(Equal(http.StatusTooManyRequests))
		})

		It("reports non-JSON failures by status", func() {
			gateway.Respond(http.StatusBadGateway, `<html>bad gateway</html>`)

			_, err := c.Chat(ctx, &llm.ChatRequest{Provider: llm.ProviderOpenAI})
			Expect(err).To(MatchError(ContainSubstring("status 502")))
		})
	})

	Describe("Health", func() {
		It("decodes provider status", func() {
			gateway.Respond(http.StatusOK, `{"providers":{"openai":true,"anthropic":false,"gemini":false}}`)

			health, err := c.Health(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(health.Providers).To(HaveKeyWithValue("openai", true))
			Expect(health.Providers).To(HaveLen(3))
			Expect(gateway.Last().Path).To(Equal("/health"))
		})

		It("fails when the gateway is unreachable", func() {
			gateway.Close()
			_, err := c.Health(ctx)
			Expect(err).To(HaveOccurred())
		})
	})
})
