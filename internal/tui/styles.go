// Package tui provides the full-screen chat interface for faqchat.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/faqchat/internal/render"
)

// Style variables (rebuilt when the palette changes)
var (
	palette render.Palette

	headerStyle         lipgloss.Style
	titleStyle          lipgloss.Style
	subtitleStyle       lipgloss.Style
	hintStyle           lipgloss.Style
	messagesAreaStyle   lipgloss.Style
	userLabelStyle      lipgloss.Style
	userBubbleStyle     lipgloss.Style
	botLabelStyle       lipgloss.Style
	botBubbleStyle      lipgloss.Style
	annotationStyle     lipgloss.Style
	typingStyle         lipgloss.Style
	errorStyle          lipgloss.Style
	inputPanelStyle     lipgloss.Style
	inputLabelStyle     lipgloss.Style
	statusBarStyle      lipgloss.Style
	statusKeyStyle      lipgloss.Style
	statusDescStyle     lipgloss.Style
	welcomeTitleStyle   lipgloss.Style
	welcomeSubtextStyle lipgloss.Style
)

func init() {
	SetPalette(render.TokyoNight)
}

// SetPalette switches the colors used by every style
func SetPalette(p render.Palette) {
	palette = p
	rebuildStyles()
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(palette.Border).
		Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
		Foreground(palette.Primary).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(palette.TextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(palette.TextMute)

	messagesAreaStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(palette.Border).
		Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(palette.Secondary).
		Bold(true)

	userBubbleStyle = lipgloss.NewStyle().
		Foreground(palette.Text).
		PaddingLeft(2)

	botLabelStyle = lipgloss.NewStyle().
		Foreground(palette.Primary).
		Bold(true)

	botBubbleStyle = lipgloss.NewStyle().
		Foreground(palette.Text).
		PaddingLeft(2)

	annotationStyle = lipgloss.NewStyle().
		Foreground(palette.TextDim).
		Italic(true).
		PaddingLeft(2)

	typingStyle = lipgloss.NewStyle().
		Foreground(palette.Accent).
		Bold(true).
		PaddingLeft(2)

	errorStyle = lipgloss.NewStyle().
		Foreground(palette.Error).
		PaddingLeft(2)

	inputPanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(palette.Accent).
		Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(palette.Secondary).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(palette.TextDim)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(palette.Accent).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(palette.TextDim)

	welcomeTitleStyle = lipgloss.NewStyle().
		Foreground(palette.Primary).
		Bold(true).
		Align(lipgloss.Center)

	welcomeSubtextStyle = lipgloss.NewStyle().
		Foreground(palette.TextDim).
		Align(lipgloss.Center)
}
