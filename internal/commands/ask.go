package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/faqchat/internal/anim"
	"github.com/diogo/faqchat/internal/models"
	"github.com/diogo/faqchat/internal/render"
)

var (
	botLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true)
	annotationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).Italic(true)
	successStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")).Bold(true)
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
)

// copyToClipboard is swapped in tests
var copyToClipboard = clipboard.WriteAll

type askOptions struct {
	raw    bool
	output string
	copy   bool
}

func (o *askOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.raw, "raw", "r", false, "Print only the reply text")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Save reply to file")
	cmd.Flags().BoolVarP(&o.copy, "copy", "c", false, "Copy reply to clipboard")
}

func newAskCmd(deps *Dependencies) *cobra.Command {
	var opts askOptions

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question",
		Long: `Send one question to the chat endpoint and print the reply.

The reply is rendered as markdown when stdout is a terminal, and printed
as-is otherwise. The reply source (cache, api, saved) is shown below it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd.Context(), deps, args[0], opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

// runAsk executes a single exchange and outputs the reply
func runAsk(ctx context.Context, deps *Dependencies, question string, opts askOptions) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return errors.New("question cannot be empty")
	}

	backend, err := deps.backend(deps.Logger)
	if err != nil {
		return err
	}

	var typing *anim.Typing
	if !opts.raw && deps.terminal(deps.Err) {
		typing = anim.StartTyping(newStatusLine(deps.Err, "Thinking"), deps.Config.TypingInterval(), nil)
	}

	reply, err := backend.Exchange(ctx, question)
	if typing != nil {
		typing.Stop()
	}
	if err != nil {
		return fmt.Errorf("exchange failed: %w", err)
	}

	if err := writeReply(deps, reply, opts); err != nil {
		return err
	}

	if opts.copy || deps.Config.CopyToClipboard {
		if err := copyToClipboard(reply.Text); err != nil {
			deps.Logger.Warn("clipboard copy failed", zap.Error(err))
		} else if !opts.raw {
			fmt.Fprintln(deps.Err, dimStyle.Render("Reply copied to clipboard"))
		}
	}
	return nil
}

func writeReply(deps *Dependencies, reply *models.Reply, opts askOptions) error {
	annotation := reply.Annotation()

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(reply.Text+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !opts.raw {
			fmt.Fprintf(deps.Err, "%s Reply saved to %s\n", successStyle.Render("✓"), opts.output)
		}
		return nil
	}

	if opts.raw || !deps.outIsTerminal() {
		fmt.Fprintln(deps.Out, reply.Text)
		if !opts.raw && annotation != "" {
			fmt.Fprintln(deps.Err, annotation)
		}
		return nil
	}

	mdOpts := render.OptionsFromConfig(deps.Config.Markdown).WithWidth(deps.width(80) - 4)
	fmt.Fprintln(deps.Out, botLabelStyle.Render("✦ "+models.RoleBot.Label()))
	fmt.Fprintln(deps.Out, render.MarkdownOrPlain(reply.Text, mdOpts))
	if annotation != "" {
		fmt.Fprintln(deps.Out, annotationStyle.Render("  "+annotation))
	}
	return nil
}

// statusLine is a typing placeholder drawn on a single terminal line
type statusLine struct {
	mu    sync.Mutex
	w     io.Writer
	label string
}

func newStatusLine(w io.Writer, label string) *statusLine {
	return &statusLine{w: w, label: label}
}

func (s *statusLine) SetText(dots string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r\033[K%s%s", dimStyle.Render(s.label), dots)
}

func (s *statusLine) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.w, "\r\033[K")
}
