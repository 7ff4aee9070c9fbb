// Package errors provides the error types for the faqchat backend client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrTransport matches every TransportFailure via errors.Is.
	ErrTransport       = errors.New("transport failure")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrEmptyMessage    = errors.New("message cannot be empty")
)

// TransportFailure is the single failure kind of an exchange with the backend.
// Network errors, non-2xx statuses and unparseable bodies all surface as one.
type TransportFailure struct {
	Op         string // "chat", "ping", "pending", ...
	Endpoint   string
	StatusCode int    // 0 when no response was received
	Message    string // human-readable description
	Err        error  // underlying cause, if any
}

func (e *TransportFailure) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = "request failed"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, msg)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *TransportFailure) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *TransportFailure) Is(target error) bool {
	if target == ErrTransport {
		return true
	}
	_, ok := target.(*TransportFailure)
	return ok
}

// NewNetworkFailure wraps an error raised before any response was received
func NewNetworkFailure(op, endpoint string, cause error) *TransportFailure {
	return &TransportFailure{
		Op:       op,
		Endpoint: endpoint,
		Message:  cause.Error(),
		Err:      cause,
	}
}

// NewStatusFailure reports a non-success HTTP status
func NewStatusFailure(op, endpoint string, statusCode int, message string) *TransportFailure {
	return &TransportFailure{
		Op:         op,
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewParseFailure reports a response body that could not be decoded
func NewParseFailure(op, endpoint, message string) *TransportFailure {
	return &TransportFailure{
		Op:       op,
		Endpoint: endpoint,
		Message:  message,
		Err:      ErrInvalidResponse,
	}
}

// IsTransportFailure reports whether err is or wraps a TransportFailure
func IsTransportFailure(err error) bool {
	return errors.Is(err, ErrTransport)
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var tf *TransportFailure
	if errors.As(err, &tf) {
		return tf.StatusCode
	}
	return 0
}

// Endpoint returns the endpoint carried by err, or ""
func Endpoint(err error) string {
	var tf *TransportFailure
	if errors.As(err, &tf) {
		return tf.Endpoint
	}
	return ""
}
