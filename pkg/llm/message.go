package llm

// Message roles understood by the gateway.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single conversation turn. Order within a request is
// meaningful and is preserved through every adapter.
type ChatMessage struct {
	Role    string `json:"role"`    // "system", "user", "assistant"
	Content string `json:"content"` // may be empty
}

// NewTextMessage creates a message with the given role and content.
func NewTextMessage(role, text string) ChatMessage {
	return ChatMessage{Role: role, Content: text}
}

// IsValidRole reports whether role is one of the recognized message roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}
