package commands

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/diogo/faqchat/internal/api"
	"github.com/diogo/faqchat/internal/chat"
	"github.com/diogo/faqchat/internal/config"
	"github.com/diogo/faqchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, cfg config.Config, backend chat.Exchanger, logger *zap.Logger) error
}

// Dependencies holds the external dependencies for the commands.
// Nil fields are filled in by the root command before any subcommand runs,
// which lets tests inject a mock backend and buffers.
type Dependencies struct {
	// Config overrides loading the config file and environment.
	Config *config.Config

	// Backend is the FAQ backend client.
	Backend api.BackendInterface

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Logger is used by every command except the TUI, which logs to a file.
	Logger *zap.Logger

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// IsTerminal reports whether f is an interactive terminal.
	IsTerminal func(f any) bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, cfg config.Config, backend chat.Exchanger, logger *zap.Logger) error {
	return tui.RunChat(ctx, cfg, backend, logger)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:        &DefaultTUI{},
		In:         os.Stdin,
		Out:        os.Stdout,
		Err:        os.Stderr,
		IsTerminal: isTerminal,
	}
}

func isTerminal(f any) bool {
	fd, ok := f.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(fd.Fd()))
}

func (d *Dependencies) terminal(f any) bool {
	return d.IsTerminal != nil && d.IsTerminal(f)
}

func (d *Dependencies) interactive() bool {
	return d.terminal(d.In) && d.terminal(d.Out)
}

func (d *Dependencies) outIsTerminal() bool {
	return d.terminal(d.Out)
}

// width returns the column count of Out, or fallback when unknown
func (d *Dependencies) width(fallback int) int {
	fd, ok := d.Out.(interface{ Fd() uintptr })
	if !ok || !d.outIsTerminal() {
		return fallback
	}
	w, _, err := term.GetSize(int(fd.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
