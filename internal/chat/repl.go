package chat

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// exitCommands end an interactive session
var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
}

// IsExitCommand reports whether input asks to end the session
func IsExitCommand(input string) bool {
	return exitCommands[strings.TrimSpace(input)]
}

// RunREPL reads lines from in and submits each one until EOF, an exit
// command, or ctx is done. Failed exchanges are already rendered by the
// controller and do not stop the loop.
func RunREPL(ctx context.Context, ctrl *Controller, term *Terminal, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		term.Prompt()
		if !scanner.Scan() {
			term.Flush()
			return scanner.Err()
		}

		line := scanner.Text()
		if IsExitCommand(line) {
			return nil
		}

		term.SetInput(line)
		err := ctrl.SubmitInput(ctx)
		term.Flush()

		if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return err
		}
	}
}
