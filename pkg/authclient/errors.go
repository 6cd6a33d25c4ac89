package authclient

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind classifies an authentication failure.
type Kind int

const (
	// KindNetwork is a transport-level failure with no server response.
	KindNetwork Kind = iota

	// KindRejected is a well-formed non-2xx response carrying a message.
	KindRejected

	// KindMalformed is a 2xx response whose body could not be interpreted.
	KindMalformed
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindRejected:
		return "rejected"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is the normalized authentication failure surfaced by Login and
// Signup, and by Logout through LogoutResult. Message is always
// human-readable.
type Error struct {
	Kind    Kind
	Message string

	// Status is the HTTP status code, if a response was received.
	Status int

	// cause is the underlying error, if any.
	cause error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// newNetworkError wraps a transport failure.
func newNetworkError(op string, cause error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: fmt.Sprintf("%s request failed: %v", op, cause),
		cause:   cause,
	}
}

// errorBody is the structured failure payload: either a list of
// {"message": ...} items or a single {"message": ...}.
type errorBody struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Message string `json:"message"`
}

// normalizeRejection turns a non-2xx response body into a rejection error
// carrying the first human-readable message the body offers. When the body
// has no recognizable structure, the raw text is the message.
func normalizeRejection(op string, status int, body []byte) *Error {
	e := &Error{Kind: KindRejected, Status: status}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if len(parsed.Errors) > 0 && parsed.Errors[0].Message != "" {
			e.Message = parsed.Errors[0].Message
			return e
		}
		if parsed.Message != "" {
			e.Message = parsed.Message
			return e
		}
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		text = fmt.Sprintf("%s failed with status %d", op, status)
	}
	e.Message = text
	return e
}
