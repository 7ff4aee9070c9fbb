package chat

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/faqchat/internal/models"
)

// ANSI control sequences used to redraw the current line
const (
	clearLine = "\r\033[K"
	lineUp    = "\033[1A"
)

var (
	userLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")).Bold(true)
	botLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true)
	annotationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).Italic(true)
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#bb9af7")).Bold(true)
)

// Terminal is a line-oriented Surface writing to w.
//
// With live set (w is a terminal) the newest entry is redrawn in place so
// the typing dots and the reveal animate. Otherwise entries are written
// once, when complete, which keeps piped output clean.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	live    bool
	open    *termEntry
	value   string
	echoed  bool
	enabled bool
}

type termEntry struct {
	term       *Terminal
	role       models.Role
	text       string
	annotation string
	removed    bool
}

// NewTerminal returns a Terminal writing to w
func NewTerminal(w io.Writer, live bool) *Terminal {
	return &Terminal{w: w, live: live, enabled: true}
}

// Surface returns t as a controller Surface
func (t *Terminal) Surface() Surface {
	return Surface{Log: t, Input: t, Send: t}
}

// Append implements Log
func (t *Terminal) Append(role models.Role, text string) Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closeLine()
	if t.live && t.echoed && role == models.RoleUser {
		// replace the line the user typed at the prompt
		fmt.Fprint(t.w, lineUp+clearLine)
		t.echoed = false
	}

	e := &termEntry{term: t, role: role, text: text}
	t.open = e
	if t.live {
		t.draw(e)
	}
	return e
}

// Value implements Input
func (t *Terminal) Value() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// Clear implements Input
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.value = ""
}

// SetInput records a line read from the user
func (t *Terminal) SetInput(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.value = line
	t.echoed = true
}

// SetEnabled implements SendControl
func (t *Terminal) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
}

// Enabled reports whether the send trigger is enabled
func (t *Terminal) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// Prompt writes the input prompt
func (t *Terminal) Prompt() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeLine()
	if t.live {
		fmt.Fprint(t.w, promptStyle.Render(">")+" ")
	}
}

// Flush terminates the current line
func (t *Terminal) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeLine()
}

func (t *Terminal) label(role models.Role) string {
	text := role.Label() + ": "
	if !t.live {
		return text
	}
	if role == models.RoleUser {
		return userLabelStyle.Render(text)
	}
	return botLabelStyle.Render(text)
}

func (t *Terminal) draw(e *termEntry) {
	fmt.Fprint(t.w, clearLine+t.label(e.role)+e.text)
}

// closeLine finishes the open entry. Caller holds t.mu.
func (t *Terminal) closeLine() {
	e := t.open
	if e == nil {
		return
	}
	t.open = nil

	if t.live {
		fmt.Fprintln(t.w)
		return
	}
	if e.removed {
		return
	}
	fmt.Fprintln(t.w, t.label(e.role)+e.text)
	if e.annotation != "" {
		fmt.Fprintln(t.w, "  "+e.annotation)
	}
}

func (e *termEntry) SetText(text string) {
	t := e.term
	t.mu.Lock()
	defer t.mu.Unlock()

	e.text = text
	if t.live && t.open == e {
		t.draw(e)
	}
}

func (e *termEntry) SetAnnotation(text string) {
	t := e.term
	t.mu.Lock()
	defer t.mu.Unlock()

	e.annotation = text
	if t.live && t.open == e && text != "" {
		fmt.Fprint(t.w, "\n  "+annotationStyle.Render(text))
	}
}

func (e *termEntry) Remove() {
	t := e.term
	t.mu.Lock()
	defer t.mu.Unlock()

	e.removed = true
	if t.open == e {
		t.open = nil
		if t.live {
			fmt.Fprint(t.w, clearLine)
		}
	}
}
