package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/faqchat/internal/chat"
	"github.com/diogo/faqchat/internal/config"
	"github.com/diogo/faqchat/internal/models"
	"github.com/diogo/faqchat/internal/render"
)

// entry is one line of the chat log as the model sees it
type entry struct {
	models.Message

	id         int64
	annotation string
	removed    bool

	// placeholder marks the typing indicator entry
	placeholder bool

	// final is set once the reveal is done; the text is then rendered
	// as markdown and cached per width.
	final         bool
	rendered      string
	renderedWidth int
}

// Model is the chat view. All log state lives here and is changed only
// by messages coming from the Bridge.
type Model struct {
	ctx    context.Context
	ctrl   *chat.Controller
	bridge *Bridge
	logger *zap.Logger

	endpoint  string
	markdown  render.Options
	copyReply bool
	copyFunc  func(string) error

	// UI components
	viewport viewport.Model
	textarea textarea.Model

	// State
	entries []entry
	index   map[int64]int
	enabled bool
	ready   bool
	status  string

	// Dimensions
	width  int
	height int
}

// Options configure a chat Model
type Options struct {
	Endpoint  string
	Markdown  render.Options
	CopyReply bool
	Logger    *zap.Logger
}

// NewChatModel creates the chat model around a controller whose surface
// is bridge.Surface()
func NewChatModel(ctx context.Context, ctrl *chat.Controller, bridge *Bridge, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask a question..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(palette.Text)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(palette.TextDim)
	ta.BlurredStyle = ta.FocusedStyle

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return Model{
		ctx:       ctx,
		ctrl:      ctrl,
		bridge:    bridge,
		logger:    logger,
		endpoint:  opts.Endpoint,
		markdown:  opts.Markdown,
		copyReply: opts.CopyReply,
		copyFunc:  clipboard.WriteAll,
		textarea:  ta,
		index:     make(map[int64]int),
		enabled:   true,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		inputHeight := 6
		statusHeight := 1
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if !m.enabled {
				return m, nil
			}
			input := m.textarea.Value()
			if chat.IsExitCommand(input) {
				return m, tea.Quit
			}
			if strings.TrimSpace(input) == "" {
				return m, nil
			}
			m.status = ""
			m.enabled = false
			m.bridge.setDraft(input)
			return m, m.submit()
		}

	case appendEntryMsg:
		m.index[msg.id] = len(m.entries)
		m.entries = append(m.entries, entry{
			Message:     models.Message{Role: msg.role, Text: msg.text},
			id:          msg.id,
			placeholder: msg.placeholder,
		})
		m.refresh()

	case setTextMsg:
		if e := m.entry(msg.id); e != nil {
			e.Text = msg.text
			m.refresh()
		}

	case setAnnotationMsg:
		if e := m.entry(msg.id); e != nil {
			e.annotation = msg.annotation
			e.final = true
			m.refresh()
			if m.copyReply {
				cmds = append(cmds, m.copy(e.Text))
			}
		}

	case removeEntryMsg:
		if e := m.entry(msg.id); e != nil {
			e.removed = true
			m.refresh()
		}

	case clearInputMsg:
		m.textarea.Reset()

	case setEnabledMsg:
		m.enabled = msg.enabled
		if m.enabled {
			cmds = append(cmds, m.textarea.Focus())
		} else {
			m.textarea.Blur()
		}

	case submitDoneMsg:
		m.enabled = true
		cmds = append(cmds, m.textarea.Focus())
		switch {
		case errors.Is(msg.err, chat.ErrBusy):
			m.status = "Still waiting for the previous reply"
		case msg.err != nil:
			m.logger.Debug("submit finished with error", zap.Error(msg.err))
		}

	case clipboardErrMsg:
		m.status = "Copy to clipboard failed"
		m.logger.Warn("clipboard copy failed", zap.Error(msg.err))
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if m.enabled {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) entry(id int64) *entry {
	i, ok := m.index[id]
	if !ok {
		return nil
	}
	return &m.entries[i]
}

// submit runs one controller cycle off the event loop
func (m Model) submit() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return submitDoneMsg{err: ctrl.SubmitInput(ctx)}
	}
}

func (m Model) copy(text string) tea.Cmd {
	copyFunc := m.copyFunc
	return func() tea.Msg {
		if err := copyFunc(text); err != nil {
			return clipboardErrMsg{err: err}
		}
		return nil
	}
}

// visible reports the entries still shown in the log
func (m Model) visible() []entry {
	out := make([]entry, 0, len(m.entries))
	for _, e := range m.entries {
		if !e.removed {
			out = append(out, e)
		}
	}
	return out
}

// refresh re-renders the log and scrolls to the newest line
func (m *Model) refresh() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	first := true
	for i := range m.entries {
		e := &m.entries[i]
		if e.removed {
			continue
		}
		if !first {
			content.WriteString("\n")
		}
		first = false

		if e.Role == models.RoleUser {
			content.WriteString(userLabelStyle.Render("● " + e.Role.Label()))
			content.WriteString("\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(e.Text))
			content.WriteString("\n")
			continue
		}

		content.WriteString(botLabelStyle.Render("✦ " + e.Role.Label()))
		content.WriteString("\n")
		content.WriteString(m.renderBot(e, bubbleWidth))
		content.WriteString("\n")
		if e.annotation != "" {
			content.WriteString(annotationStyle.Render(e.annotation))
			content.WriteString("\n")
		}
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

func (m *Model) renderBot(e *entry, width int) string {
	switch {
	case strings.HasPrefix(e.Text, models.ErrorMarker):
		return errorStyle.Width(width).Render(e.Text)
	case e.placeholder:
		return typingStyle.Render(e.Text)
	case !e.final:
		return botBubbleStyle.Width(width).Render(e.Text)
	}

	if e.renderedWidth != width {
		e.rendered = render.MarkdownOrPlain(e.Text, m.markdown.WithWidth(width-4))
		e.renderedWidth = width
	}
	return botBubbleStyle.Width(width).Render(e.rendered)
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return subtitleStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ FAQ Chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.endpoint),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(header))

	messagesContent := m.viewport.View()
	if len(m.visible()) == 0 {
		messagesContent = m.renderWelcome()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	var inputContent string
	if m.enabled {
		inputContent = lipgloss.JoinVertical(lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	} else {
		inputContent = lipgloss.JoinVertical(lipgloss.Left,
			inputLabelStyle.Render("You"),
			hintStyle.Render("Waiting for reply..."),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the empty-log screen
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		welcomeTitleStyle.Width(width).Render("Ask anything about the product"),
		"",
		welcomeSubtextStyle.Width(width).Render("Type a question below and press Enter"),
	)

	topPadding := (m.viewport.Height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	if m.status != "" {
		return statusBarStyle.Width(width).Align(lipgloss.Center).Render(errorStyle.Render(m.status))
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunChat starts the chat TUI against backend
func RunChat(ctx context.Context, cfg config.Config, backend chat.Exchanger, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if p, ok := render.PaletteByName(cfg.TUITheme); ok {
		SetPalette(p)
	} else {
		logger.Warn("unknown theme, using default", zap.String("theme", cfg.TUITheme))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bridge := NewBridge()
	ctrl, err := chat.NewController(bridge.Surface(), backend,
		chat.WithRevealDelay(cfg.RevealDelay()),
		chat.WithTypingInterval(cfg.TypingInterval()),
		chat.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	m := NewChatModel(ctx, ctrl, bridge, Options{
		Endpoint:  cfg.Endpoint,
		Markdown:  render.OptionsFromConfig(cfg.Markdown),
		CopyReply: cfg.CopyToClipboard,
		Logger:    logger,
	})

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	bridge.Attach(p.Send)

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
