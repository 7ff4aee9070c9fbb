package models

import (
	"fmt"
	"time"
)

// Reply is the decoded response of a chat exchange
type Reply struct {
	Text   string
	Source string   // "cache", "api", "saved" or empty
	Score  *float64 // similarity score, only set for cache hits
}

// Annotation returns the attribution line shown under a revealed reply.
// It is empty when the backend reported no source.
func (r *Reply) Annotation() string {
	if r == nil || r.Source == "" {
		return ""
	}
	if r.Score != nil {
		return fmt.Sprintf("source: %s (score %.2f)", r.Source, *r.Score)
	}
	return "source: " + r.Source
}

// PendingQuestion is a question saved by the backend for admin review
type PendingQuestion struct {
	Question  string
	CreatedAt time.Time // zero when the backend sent no parseable timestamp
}
