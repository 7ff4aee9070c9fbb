package chat

import (
	"fmt"
	"sync"

	"github.com/diogo/faqchat/internal/models"
)

// fakeSurface records every mutation the controller makes, in order
type fakeSurface struct {
	mu      sync.Mutex
	events  []string
	entries []*fakeEntry
	input   string
	enabled bool
}

type fakeEntry struct {
	s          *fakeSurface
	id         int
	role       models.Role
	text       string
	annotation string
	removed    bool
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{enabled: true}
}

func (s *fakeSurface) surface() Surface {
	return Surface{Log: s, Input: s, Send: s}
}

func (s *fakeSurface) record(format string, args ...any) {
	s.events = append(s.events, fmt.Sprintf(format, args...))
}

func (s *fakeSurface) Append(role models.Role, text string) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &fakeEntry{s: s, id: len(s.entries), role: role, text: text}
	s.entries = append(s.entries, e)
	s.record("append %d %s %q", e.id, role, text)
	return e
}

func (s *fakeSurface) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

func (s *fakeSurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = ""
	s.record("clear input")
}

func (s *fakeSurface) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
	s.record("enabled %t", enabled)
}

func (e *fakeEntry) SetText(text string) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	e.text = text
	e.s.record("text %d %q", e.id, text)
}

func (e *fakeEntry) SetAnnotation(text string) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	e.annotation = text
	e.s.record("annotate %d %q", e.id, text)
}

func (e *fakeEntry) Remove() {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	e.removed = true
	e.s.record("remove %d", e.id)
}

// visible returns the log as the user would see it
func (s *fakeSurface) visible() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Message
	for _, e := range s.entries {
		if !e.removed {
			out = append(out, models.Message{Role: e.role, Text: e.text})
		}
	}
	return out
}

func (s *fakeSurface) eventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func (s *fakeSurface) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	copy(out, s.events)
	return out
}

func (s *fakeSurface) isEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

func (s *fakeSurface) lastAnnotation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return ""
	}
	return s.entries[len(s.entries)-1].annotation
}

// indexOf returns the position of the first event equal to want, or -1
func indexOf(events []string, want string) int {
	for i, e := range events {
		if e == want {
			return i
		}
	}
	return -1
}
