package llm_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/switchboard/pkg/llm"
)

var _ = Describe("ParseChatRequest", func() {
	expectInvalid := func(payload string) *llm.Error {
		req, err := llm.ParseChatRequest([]byte(payload))
		Expect(req).To(BeNil())
		Expect(err).To(HaveOccurred())

		var gwErr *llm.Error
		Expect(errors.As(err, &gwErr)).To(BeTrue())
		Expect(gwErr.Kind).To(Equal(llm.InvalidRequest))
		return gwErr
	}

	Context("with a minimal valid payload", func() {
		It("applies defaults for absent fields", func() {
			req, err := llm.ParseChatRequest([]byte(`{
				"provider": "openai",
				"messages": [{"role": "user", "content": "hi"}]
			}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Provider).To(Equal("openai"))
			Expect(req.JSONMode).To(BeFalse())
			Expect(req.Temperature).To(Equal(0.25))
			Expect(req.MaxTokens).To(Equal(4000))
			Expect(req.Messages).To(Equal([]llm.ChatMessage{{Role: "user", Content: "hi"}}))
		})
	})

	Context("with explicit fields", func() {
		It("keeps caller supplied values", func() {
			req, err := llm.ParseChatRequest([]byte(`{
				"provider": "gemini",
				"messages": [{"role": "system", "content": "be terse"}, {"role": "user", "content": ""}],
				"jsonMode": true,
				"temperature": 0,
				"maxTokens": 12,
				"model": "gemini-2.0-flash"
			}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(req.JSONMode).To(BeTrue())
			Expect(req.Temperature).To(Equal(0.0))
			Expect(req.MaxTokens).To(Equal(12))
			Expect(req.Model).To(Equal("gemini-2.0-flash"))
			Expect(req.Messages[1].Content).To(BeEmpty())
		})

		It("accepts the temperature bounds", func() {
			_, err := llm.ParseChatRequest([]byte(`{"provider":"anthropic","messages":[{"role":"user","content":"x"}],"temperature":2}`))
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Context("with invalid payloads", func() {
		It("rejects malformed JSON", func() {
			expectInvalid(`{"provider":`)
		})

		It("rejects an unknown provider", func() {
			gwErr := expectInvalid(`{"provider":"mistral","messages":[{"role":"user","content":"hi"}]}`)
			Expect(gwErr.Message).To(ContainSubstring("mistral"))
		})

		It("checks the provider before the messages", func() {
			gwErr := expectInvalid(`{"provider":"mistral","messages":[]}`)
			Expect(gwErr.Message).To(ContainSubstring("unknown provider"))
		})

		It("rejects a missing provider", func() {
			expectInvalid(`{"messages":[{"role":"user","content":"hi"}]}`)
		})

		It("rejects missing messages", func() {
			expectInvalid(`{"provider":"openai"}`)
		})

		It("rejects empty messages", func() {
			expectInvalid(`{"provider":"openai","messages":[]}`)
		})

		It("rejects an unrecognized role", func() {
			gwErr := expectInvalid(`{"provider":"openai","messages":[{"role":"tool","content":"hi"}]}`)
			Expect(gwErr.Message).To(ContainSubstring("tool"))
		})

		It("rejects null content", func() {
			expectInvalid(`{"provider":"openai","messages":[{"role":"user","content":null}]}`)
		})

		It("rejects temperature above the range", func() {
			expectInvalid(`{"provider":"openai","messages":[{"role":"user","content":"hi"}],"temperature":2.5}`)
		})

		It("rejects negative temperature", func() {
			expectInvalid(`{"provider":"openai","messages":[{"role":"user","content":"hi"}],"temperature":-0.1}`)
		})

		It("rejects zero maxTokens", func() {
			expectInvalid(`{"provider":"openai","messages":[{"role":"user","content":"hi"}],"maxTokens":0}`)
		})
	})
})

var _ = Describe("ChatRequest", func() {
	Describe("SystemPrompt", func() {
		It("returns only the first system message", func() {
			req := &llm.ChatRequest{Messages: []llm.ChatMessage{
				{Role: llm.RoleUser, Content: "hi"},
				{Role: llm.RoleSystem, Content: "first"},
				{Role: llm.RoleSystem, Content: "second"},
			}}
			prompt, ok := req.SystemPrompt()
			Expect(ok).To(BeTrue())
			Expect(prompt).To(Equal("first"))
		})

		It("reports absence", func() {
			req := &llm.ChatRequest{Messages: []llm.ChatMessage{{Role: llm.RoleUser, Content: "hi"}}}
			_, ok := req.SystemPrompt()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("ConversationMessages", func() {
		It("drops every system message and keeps order", func() {
			req := &llm.ChatRequest{Messages: []llm.ChatMessage{
				{Role: llm.RoleSystem, Content: "s1"},
				{Role: llm.RoleUser, Content: "u1"},
				{Role: llm.RoleSystem, Content: "s2"},
				{Role: llm.RoleAssistant, Content: "a1"},
			}}
			Expect(req.ConversationMessages()).To(Equal([]llm.ChatMessage{
				{Role: llm.RoleUser, Content: "u1"},
				{Role: llm.RoleAssistant, Content: "a1"},
			}))
		})
	})
})

var _ = Describe("OverrideProvider", func() {
	It("replaces the provider and keeps other fields", func() {
		out, err := llm.OverrideProvider([]byte(`{"provider":"openai","jsonMode":true,"messages":[{"role":"user","content":"hi"}]}`), "gemini")
		Expect(err).NotTo(HaveOccurred())

		req, err := llm.ParseChatRequest(out)
		Expect(err).NotTo(HaveOccurred())
		Expect(req.Provider).To(Equal("gemini"))
		Expect(req.JSONMode).To(BeTrue())
	})

	It("adds a provider to a body without one", func() {
		out, err := llm.OverrideProvider([]byte(`null`), "anthropic")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).To(Equal(`{"provider":"anthropic"}`))
	})

	It("rejects bodies that are not objects", func() {
		_, err := llm.OverrideProvider([]byte(`[1]`), "openai")
		Expect(llm.KindOf(err)).To(Equal(llm.InvalidRequest))
	})
})
