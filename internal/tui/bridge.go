package tui

import (
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/faqchat/internal/chat"
	"github.com/diogo/faqchat/internal/models"
)

// Messages carrying surface mutations from the controller goroutine
// into the bubbletea event loop.
type (
	appendEntryMsg struct {
		id          int64
		role        models.Role
		text        string
		placeholder bool
	}
	setTextMsg struct {
		id   int64
		text string
	}
	setAnnotationMsg struct {
		id         int64
		annotation string
	}
	removeEntryMsg struct {
		id int64
	}
	clearInputMsg   struct{}
	setEnabledMsg   struct{ enabled bool }
	submitDoneMsg   struct{ err error }
	clipboardErrMsg struct{ err error }
)

// Bridge is the chat.Surface of the TUI. The controller runs outside the
// event loop, so every mutation is forwarded as a message and applied by
// Model.Update. Input.Value reads a draft the model hands over on Enter.
type Bridge struct {
	mu     sync.Mutex
	send   func(tea.Msg)
	draft  string
	nextID atomic.Int64
}

// NewBridge creates a bridge with no program attached. Mutations are
// dropped until Attach is called.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach sets the function used to deliver messages, normally Program.Send
func (b *Bridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	b.send = send
	b.mu.Unlock()
}

// Surface returns the bridge as a chat.Surface
func (b *Bridge) Surface() chat.Surface {
	return chat.Surface{Log: b, Input: b, Send: b}
}

func (b *Bridge) emit(msg tea.Msg) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()

	if send != nil {
		send(msg)
	}
}

// Append implements chat.Log
func (b *Bridge) Append(role models.Role, text string) chat.Entry {
	id := b.nextID.Add(1)
	b.emit(appendEntryMsg{id: id, role: role, text: text})
	return &bridgeEntry{bridge: b, id: id}
}

// AppendPlaceholder implements chat.PlaceholderLog
func (b *Bridge) AppendPlaceholder(role models.Role) chat.Entry {
	id := b.nextID.Add(1)
	b.emit(appendEntryMsg{id: id, role: role, placeholder: true})
	return &bridgeEntry{bridge: b, id: id}
}

// Value implements chat.Input
func (b *Bridge) Value() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.draft
}

// Clear implements chat.Input
func (b *Bridge) Clear() {
	b.mu.Lock()
	b.draft = ""
	b.mu.Unlock()
	b.emit(clearInputMsg{})
}

// SetEnabled implements chat.SendControl
func (b *Bridge) SetEnabled(enabled bool) {
	b.emit(setEnabledMsg{enabled: enabled})
}

func (b *Bridge) setDraft(text string) {
	b.mu.Lock()
	b.draft = text
	b.mu.Unlock()
}

type bridgeEntry struct {
	bridge *Bridge
	id     int64
}

func (e *bridgeEntry) SetText(text string) {
	e.bridge.emit(setTextMsg{id: e.id, text: text})
}

func (e *bridgeEntry) SetAnnotation(text string) {
	e.bridge.emit(setAnnotationMsg{id: e.id, annotation: text})
}

func (e *bridgeEntry) Remove() {
	e.bridge.emit(removeEntryMsg{id: e.id})
}
