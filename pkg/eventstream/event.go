package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeChatCompleted is emitted after every gateway call, successful or not.
	EventTypeChatCompleted = "switchboard.chat.completed"

	// OutcomeOK marks a successful call. Failed calls carry the error kind.
	OutcomeOK = "ok"
)

// ChatCompletedEvent is a transport-neutral event payload describing one
// gateway call. It carries metadata only: never message content, assistant
// output, or credentials.
type ChatCompletedEvent struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	EventID       string      `json:"event_id"`
	EmittedAt     time.Time   `json:"emitted_at"`
	RequestID     string      `json:"request_id,omitempty"`
	Request       RequestMeta `json:"request"`
	Result        ResultMeta  `json:"result"`
}

// RequestMeta captures the shape of the request, not its content.
type RequestMeta struct {
	Provider     string  `json:"provider"`
	Model        string  `json:"model,omitempty"`
	JSONMode     bool    `json:"json_mode"`
	MessageCount int     `json:"message_count"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
}

// ResultMeta captures the call outcome and timing.
type ResultMeta struct {
	Outcome        string    `json:"outcome"`
	UpstreamStatus int       `json:"upstream_status,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
	DurationMs     int64     `json:"duration_ms"`
}

// NewChatCompletedEvent creates an event with a fresh ID and schema header.
func NewChatCompletedEvent(requestID string, req RequestMeta, result ResultMeta) *ChatCompletedEvent {
	return &ChatCompletedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeChatCompleted,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		RequestID:     requestID,
		Request:       req,
		Result:        result,
	}
}
