package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies gateway failures.
type ErrorKind string

const (
	// InvalidRequest: malformed or unknown provider, empty messages,
	// bad role, temperature or maxTokens out of range.
	InvalidRequest ErrorKind = "InvalidRequest"

	// NotConfigured: no credential exists for the selected provider.
	NotConfigured ErrorKind = "NotConfigured"

	// UpstreamError: the provider answered with a non-success status.
	UpstreamError ErrorKind = "UpstreamError"

	// MalformedResponse: the provider answered successfully but the body
	// did not have the expected shape.
	MalformedResponse ErrorKind = "MalformedResponse"

	// TransportError: the upstream call never completed (timeout, DNS,
	// connection refused, cancellation).
	TransportError ErrorKind = "TransportError"
)

func (k ErrorKind) String() string {
	return string(k)
}

// Retryable reports whether a failure of this kind is worth retrying.
// status is the upstream HTTP status and only matters for UpstreamError.
func (k ErrorKind) Retryable(status int) bool {
	switch k {
	case TransportError:
		return true
	case UpstreamError:
		return status == http.StatusTooManyRequests || status >= 500
	default:
		return false
	}
}

// Error is the single error type returned across the gateway boundary.
type Error struct {
	Kind     ErrorKind
	Message  string
	Provider string

	// UpstreamStatus is the HTTP status returned by the provider, when one
	// was received.
	UpstreamStatus int

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Provider != "" {
		b.WriteString(" (")
		b.WriteString(e.Provider)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an error of the given kind.
func NewError(kind ErrorKind, provider, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Provider: provider,
		Message:  fmt.Sprintf(format, args...),
	}
}

// WrapError creates an error of the given kind that wraps err.
func WrapError(kind ErrorKind, provider string, err error, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Provider: provider,
		Message:  fmt.Sprintf(format, args...),
		Err:      err,
	}
}

// NewUpstreamError builds an UpstreamError from a non-success provider
// response. The message is extracted from the body on a best-effort basis.
func NewUpstreamError(provider string, status int, body []byte) *Error {
	return &Error{
		Kind:           UpstreamError,
		Provider:       provider,
		UpstreamStatus: status,
		Message:        upstreamMessage(status, body),
	}
}

// upstreamMessage looks for, in order: error.message, error (as a string),
// message. Falls back to a generic message naming the status.
func upstreamMessage(status int, body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		if raw, ok := payload["error"]; ok {
			var nested struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(raw, &nested); err == nil && nested.Message != "" {
				return nested.Message
			}

			var s string
			if err := json.Unmarshal(raw, &s); err == nil && s != "" {
				return s
			}
		}

		if raw, ok := payload["message"]; ok {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && s != "" {
				return s
			}
		}
	}

	return fmt.Sprintf("upstream returned status %d", status)
}

// KindOf returns the ErrorKind carried by err, looking through wrapping.
// Errors that did not originate in the gateway report TransportError.
func KindOf(err error) ErrorKind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return TransportError
}

// HTTPStatus maps err onto the status code returned to HTTP callers.
func HTTPStatus(err error) int {
	var gwErr *Error
	if !errors.As(err, &gwErr) {
		return http.StatusInternalServerError
	}

	switch gwErr.Kind {
	case InvalidRequest, NotConfigured:
		return http.StatusBadRequest
	case UpstreamError:
		if gwErr.UpstreamStatus >= 400 {
			return gwErr.UpstreamStatus
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorResponse converts err into the JSON failure body.
func NewErrorResponse(err error) ErrorResponse {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		msg := gwErr.Message
		if msg == "" {
			msg = gwErr.Error()
		}
		return ErrorResponse{Error: msg, Kind: string(gwErr.Kind)}
	}
	return ErrorResponse{Error: err.Error(), Kind: string(TransportError)}
}
