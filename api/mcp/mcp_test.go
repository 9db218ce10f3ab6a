package mcp_test

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/switchboard/api/mcp"
	"github.com/papercomputeco/switchboard/gateway"
	"github.com/papercomputeco/switchboard/gateway/dispatch"
	"github.com/papercomputeco/switchboard/pkg/credentials"
	"github.com/papercomputeco/switchboard/pkg/llm/provider"
	"github.com/papercomputeco/switchboard/pkg/logger"
	testutils "github.com/papercomputeco/switchboard/pkg/utils/test"
)

func newTestGateway(baseURL string, creds credentials.Static) *gateway.Gateway {
	d, err := dispatch.New(dispatch.Config{
		Providers: map[string]dispatch.ProviderConfig{
			provider.OpenAI:    {Options: provider.Options{BaseURL: baseURL}},
			provider.Anthropic: {Options: provider.Options{BaseURL: baseURL}},
			provider.Gemini:    {Options: provider.Options{BaseURL: baseURL}},
		},
		Credentials: creds,
	})
	Expect(err).NotTo(HaveOccurred())

	g, err := gateway.New(gateway.Config{Dispatcher: d})
	Expect(err).NotTo(HaveOccurred())
	return g
}

var _ = Describe("MCP Server", func() {
	var (
		upstream *testutils.Upstream
		server   *mcp.Server
		session  *sdkmcp.ClientSession
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		upstream = testutils.NewUpstream(testutils.AnthropicReply("```json\n{\"ok\":true}\n```"))
		DeferCleanup(upstream.Close)

		var err error
		server, err = mcp.NewServer(mcp.Config{
			Gateway: newTestGateway(upstream.URL, credentials.Static{"anthropic": "sk-ant"}),
			Logger:  logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())

		serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
		_, err = server.MCPServer().Connect(ctx, serverTransport, nil)
		Expect(err).NotTo(HaveOccurred())

		client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
		session, err = client.Connect(ctx, clientTransport, nil)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(session.Close)
	})

	textOf := func(res *sdkmcp.CallToolResult) string {
		Expect(res.Content).NotTo(BeEmpty())
		text, ok := res.Content[0].(*sdkmcp.TextContent)
		Expect(ok).To(BeTrue())
		return text.Text
	}

	Describe("NewServer", func() {
		It("returns an error when gateway is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Logger: logger.Nop()})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("gateway is required"))
		})

		It("returns an error when logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Gateway: newTestGateway(upstream.URL, credentials.Static{})})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logger is required"))
		})

		It("returns an HTTP handler", func() {
			Expect(server.Handler()).NotTo(BeNil())
		})
	})

	Describe("tools/list", func() {
		It("advertises chat and providers", func() {
			res, err := session.ListTools(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			names := []string{}
			for _, t := range res.Tools {
				names = append(names, t.Name)
			}
			Expect(names).To(ConsistOf("chat", "providers"))
		})
	})

	Describe("chat tool", func() {
		It("returns the sanitized reply", func() {
			res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
				Name: "chat",
				Arguments: map[string]any{
					"provider": "anthropic",
					"messages": []any{
						map[string]any{"role": "system", "content": "be terse"},
						map[string]any{"role": "user", "content": "status?"},
					},
					"jsonMode": true,
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeFalse())
			Expect(textOf(res)).To(Equal(`{"ok":true}`))

			var sent map[string]any
			Expect(json.Unmarshal(upstream.Last().Body, &sent)).To(Succeed())
			Expect(sent["system"]).To(HavePrefix("be terse"))
			Expect(sent["max_tokens"]).To(BeNumerically("==", 4000))
		})

		It("reports gateway failures as tool errors", func() {
			res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
				Name: "chat",
				Arguments: map[string]any{
					"provider": "gemini",
					"messages": []any{map[string]any{"role": "user", "content": "hi"}},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(textOf(res)).To(HavePrefix("NotConfigured:"))
			Expect(upstream.Hits()).To(BeZero())
		})

		It("reports invalid requests as tool errors", func() {
			res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
				Name: "chat",
				Arguments: map[string]any{
					"provider": "anthropic",
					"messages": []any{},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(textOf(res)).To(HavePrefix("InvalidRequest:"))
		})
	})

	Describe("providers tool", func() {
		It("reports credential presence per provider", func() {
			res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
				Name:      "providers",
				Arguments: map[string]any{},
			})
			Expect(err).NotTo(HaveOccurred())

			var out mcp.ProvidersOutput
			Expect(json.Unmarshal([]byte(textOf(res)), &out)).To(Succeed())
			Expect(out.Providers).To(Equal(map[string]bool{
				"openai":    false,
				"anthropic": true,
				"gemini":    false,
			}))
		})
	})
})
