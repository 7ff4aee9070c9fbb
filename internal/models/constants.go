// Package models contains data types and constants for the faqchat backend API.
package models

// Default backend location
const (
	DefaultBaseURL = "http://localhost:5000"
)

// Backend paths
const (
	PathChat     = "/chat"
	PathPing     = "/ping"
	PathPending  = "/api/pending"
	PathAnswer   = "/api/answer"
	PathGenerate = "/api/generate"
)

// JSON field names used by the chat exchange
const (
	FieldMessage  = "message"
	FieldAnswer   = "answer"
	FieldResponse = "response"
	FieldSource   = "source"
	FieldScore    = "score"
	FieldError    = "error"
)

// Fixed display literals
const (
	// ReplyFallback is shown when a reply carries neither answer nor response.
	ReplyFallback = "No reply"

	// ErrorMarker prefixes the bot entry rendered for a failed exchange.
	ErrorMarker = "⚠ Error: "

	// PongBody is the expected body of a healthy /ping.
	PongBody = "pong"
)

// Reply sources reported by the backend
const (
	SourceCache = "cache"
	SourceAPI   = "api"
	SourceSaved = "saved"
)

// DefaultHeaders returns the headers sent with every JSON request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "faqchat/0.1",
	}
}
