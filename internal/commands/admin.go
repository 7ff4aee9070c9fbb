package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newPingCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := deps.backend(deps.Logger)
			if err != nil {
				return err
			}
			if err := backend.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("ping failed: %w", err)
			}
			fmt.Fprintf(deps.Out, "%s %s is up\n", successStyle.Render("✓"), backend.BaseURL())
			return nil
		},
	}
}

func newPendingCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List questions awaiting an answer",
		Long: `List the questions the backend could not answer from its cache and
has queued for review. Answer them with 'faqchat answer'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := deps.backend(deps.Logger)
			if err != nil {
				return err
			}
			questions, err := backend.Pending(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list pending questions: %w", err)
			}

			if len(questions) == 0 {
				fmt.Fprintln(deps.Out, "No pending questions")
				return nil
			}

			if !deps.outIsTerminal() {
				for _, q := range questions {
					fmt.Fprintf(deps.Out, "%s\t%s\n", formatTime(q.CreatedAt), q.Question)
				}
				return nil
			}

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(dimStyle).
				Headers("#", "QUESTION", "ASKED").
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return botLabelStyle.Padding(0, 1)
					}
					return lipgloss.NewStyle().Padding(0, 1)
				})
			for i, q := range questions {
				t.Row(strconv.Itoa(i+1), q.Question, formatTime(q.CreatedAt))
			}
			fmt.Fprintln(deps.Out, t.Render())
			return nil
		},
	}
}

func newAnswerCmd(deps *Dependencies) *cobra.Command {
	var question, answer string

	cmd := &cobra.Command{
		Use:   "answer",
		Short: "Save an answer for a question",
		Long: `Store an answer for a question. Later questions similar to it are
answered from this entry.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
				return errors.New("both --question and --answer are required")
			}
			backend, err := deps.backend(deps.Logger)
			if err != nil {
				return err
			}
			if err := backend.Answer(cmd.Context(), question, answer); err != nil {
				return fmt.Errorf("failed to save answer: %w", err)
			}
			fmt.Fprintf(deps.Out, "%s Answer saved\n", successStyle.Render("✓"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&question, "question", "q", "", "Question to answer")
	cmd.Flags().StringVarP(&answer, "answer", "a", "", "Answer text")
	return cmd
}

func newGenerateCmd(deps *Dependencies) *cobra.Command {
	var question string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Ask the backend to generate and store an answer",
		Long: `Ask the backend to generate an answer for a question. The backend
stores the generated answer and removes the question from the pending list,
so there is no need to run 'faqchat answer' afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(question) == "" {
				return errors.New("--question is required")
			}
			backend, err := deps.backend(deps.Logger)
			if err != nil {
				return err
			}

			answer, err := backend.Generate(cmd.Context(), question)
			if err != nil {
				return fmt.Errorf("failed to generate answer: %w", err)
			}
			fmt.Fprintln(deps.Out, answer)
			return nil
		},
	}

	cmd.Flags().StringVarP(&question, "question", "q", "", "Question to answer")
	return cmd
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
