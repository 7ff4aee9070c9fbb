// Package chat implements the chat session controller: one submitted
// message becomes one exchange with the backend and one animated reply.
package chat

import (
	"github.com/diogo/faqchat/internal/models"
)

// Entry is one line of the chat log
type Entry interface {
	SetText(text string)
	// SetAnnotation attaches the attribution line shown under a bot reply.
	SetAnnotation(text string)
	Remove()
}

// Log is the append-only chat log
type Log interface {
	Append(role models.Role, text string) Entry
}

// PlaceholderLog is implemented by logs that draw the typing placeholder
// apart from reply entries. Other logs get a plain empty entry.
type PlaceholderLog interface {
	AppendPlaceholder(role models.Role) Entry
}

func appendPlaceholder(log Log, role models.Role) Entry {
	if pl, ok := log.(PlaceholderLog); ok {
		return pl.AppendPlaceholder(role)
	}
	return log.Append(role, "")
}

// Input is the text box the user types into
type Input interface {
	Value() string
	Clear()
}

// SendControl is the send trigger; it is disabled while an exchange runs
type SendControl interface {
	SetEnabled(enabled bool)
}

// Surface bundles the display elements the controller drives
type Surface struct {
	Log   Log
	Input Input
	Send  SendControl
}

type nopInput struct{}

func (nopInput) Value() string { return "" }
func (nopInput) Clear()        {}

type nopSend struct{}

func (nopSend) SetEnabled(bool) {}
