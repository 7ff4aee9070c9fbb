package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/faqchat/internal/chat"
	"github.com/diogo/faqchat/internal/config"
	"github.com/diogo/faqchat/internal/logging"
)

func newChatCmd(deps *Dependencies) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the FAQ backend.

On a terminal this opens a full-screen chat. With --plain, or when input
or output is redirected, questions are read line by line and replies are
written as plain text. Type 'exit' or 'quit' to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.interactive() && !plain {
				return runChatTUI(cmd, deps)
			}
			return runChatPlain(cmd, deps)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Use the line-oriented interface")
	return cmd
}

func runChatTUI(cmd *cobra.Command, deps *Dependencies) error {
	logPath, err := config.GetLogPath()
	if err != nil {
		return err
	}
	logger, err := logging.NewFile(logPath, deps.Config.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	backend, err := deps.backend(logger)
	if err != nil {
		return err
	}
	return deps.TUI.RunChat(cmd.Context(), *deps.Config, backend, logger)
}

func runChatPlain(cmd *cobra.Command, deps *Dependencies) error {
	backend, err := deps.backend(deps.Logger)
	if err != nil {
		return err
	}

	term := chat.NewTerminal(deps.Out, deps.interactive())
	ctrl, err := chat.NewController(term.Surface(), backend,
		chat.WithRevealDelay(deps.Config.RevealDelay()),
		chat.WithTypingInterval(deps.Config.TypingInterval()),
		chat.WithLogger(deps.Logger),
	)
	if err != nil {
		return fmt.Errorf("failed to start chat: %w", err)
	}

	return chat.RunREPL(cmd.Context(), ctrl, term, deps.In)
}
