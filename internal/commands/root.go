// Package commands provides CLI commands for faqchat.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/faqchat/internal/api"
	"github.com/diogo/faqchat/internal/config"
	"github.com/diogo/faqchat/internal/logging"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// NewRootCmd creates the faqchat command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	var (
		endpointFlag string
		logLevelFlag string
		fileFlag     string
		q            askOptions
	)

	cmd := &cobra.Command{
		Use:   "faqchat [question]",
		Short: "Terminal client for an FAQ chat backend",
		Long: `faqchat talks to an FAQ chat backend over HTTP. Replies are animated
into a chat log with a typing indicator while the backend works.

Examples:
  faqchat chat                          Start interactive chat
  faqchat "How do I reset my password?" Ask a single question
  cat question.txt | faqchat            Read the question from stdin
  faqchat pending                       List questions awaiting an answer
  faqchat config set endpoint http://faq.internal:5000`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return deps.setup(endpointFlag, logLevelFlag)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Out, "faqchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			if fileFlag != "" {
				data, err := os.ReadFile(fileFlag)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				return runAsk(cmd.Context(), deps, string(data), q)
			}

			if len(args) > 0 {
				return runAsk(cmd.Context(), deps, args[0], q)
			}

			if !deps.terminal(deps.In) {
				data, err := io.ReadAll(deps.In)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				if strings.TrimSpace(string(data)) != "" {
					return runAsk(cmd.Context(), deps, string(data), q)
				}
			}

			return cmd.Help()
		},
	}

	cmd.SetIn(deps.In)
	cmd.SetOut(deps.Out)
	cmd.SetErr(deps.Err)

	cmd.PersistentFlags().StringVarP(&endpointFlag, "endpoint", "e", "", "Backend base URL (e.g., http://localhost:5000)")
	cmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read question from file")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")
	q.bind(cmd)

	cmd.AddCommand(newChatCmd(deps))
	cmd.AddCommand(newAskCmd(deps))
	cmd.AddCommand(newPingCmd(deps))
	cmd.AddCommand(newPendingCmd(deps))
	cmd.AddCommand(newAnswerCmd(deps))
	cmd.AddCommand(newGenerateCmd(deps))
	cmd.AddCommand(newConfigCmd(deps))

	return cmd
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	deps := NewDependencies()
	if err := NewRootCmd(deps).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(deps.Err, formatError(err))
		stop()
		os.Exit(1)
	}
}

// setup loads .env and the config, then builds the console logger
// unless one was injected
func (d *Dependencies) setup(endpoint, logLevel string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if d.Config == nil {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		d.Config = &cfg
	}
	if endpoint != "" {
		d.Config.Endpoint = strings.TrimRight(endpoint, "/")
	}
	if logLevel != "" {
		d.Config.LogLevel = logLevel
	}
	if err := d.Config.Validate(); err != nil {
		return err
	}

	if d.Logger == nil {
		logger, err := logging.NewConsole(d.Config.LogLevel)
		if err != nil {
			return err
		}
		d.Logger = logger
	}

	d.Logger.Debug("configured",
		zap.String("endpoint", d.Config.Endpoint),
		zap.String("log_level", d.Config.LogLevel),
	)
	return nil
}

// backend returns the injected backend, or a client logging to logger
func (d *Dependencies) backend(logger *zap.Logger) (api.BackendInterface, error) {
	if d.Backend != nil {
		return d.Backend, nil
	}
	client, err := api.NewClient(d.Config.Endpoint,
		api.WithTimeout(d.Config.TimeoutSeconds),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}
