package llm

// Supported provider discriminators.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Request defaults applied when the caller omits a field.
const (
	DefaultTemperature = 0.25
	DefaultMaxTokens   = 4000

	MinTemperature = 0.0
	MaxTemperature = 2.0
)

// Providers returns every provider discriminator the gateway accepts.
func Providers() []string {
	return []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini}
}

// IsKnownProvider reports whether name is an accepted provider discriminator.
func IsKnownProvider(name string) bool {
	switch name {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
		return true
	default:
		return false
	}
}

// ChatRequest is the provider-agnostic chat request accepted by the gateway.
// Callers should obtain one through ParseChatRequest so that defaults are
// applied and the request is validated.
type ChatRequest struct {
	// Provider selects the adapter ("openai", "anthropic", "gemini")
	Provider string `json:"provider"`

	// Conversation messages, in turn order
	Messages []ChatMessage `json:"messages"`

	// JSONMode asks the model for machine-parseable JSON only
	JSONMode bool `json:"jsonMode"`

	// Generation parameters
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`

	// Model overrides the provider's configured default model when set.
	Model string `json:"model,omitempty"`
}

// SystemPrompt returns the content of the first system message and whether
// one exists. Later system messages are ignored.
func (r *ChatRequest) SystemPrompt() (string, bool) {
	for _, msg := range r.Messages {
		if msg.Role == RoleSystem {
			return msg.Content, true
		}
	}
	return "", false
}

// ConversationMessages returns the messages with every system entry removed,
// preserving the original order.
func (r *ChatRequest) ConversationMessages() []ChatMessage {
	out := make([]ChatMessage, 0, len(r.Messages))
	for _, msg := range r.Messages {
		if msg.Role == RoleSystem {
			continue
		}
		out = append(out, msg)
	}
	return out
}

// JSONInstruction is appended to the system prompt by adapters whose
// provider has no native JSON mode.
const JSONInstruction = "Respond with valid JSON only. Do not include any prose, explanation, or markdown code fences."

// WithJSONInstruction returns system with JSONInstruction appended. An empty
// system prompt yields the instruction alone.
func WithJSONInstruction(system string) string {
	if system == "" {
		return JSONInstruction
	}
	return system + "\n\n" + JSONInstruction
}
