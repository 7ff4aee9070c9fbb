package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/diogo/faqchat/internal/errors"
)

var (
	errorLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")).Bold(true)
	errorHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).PaddingLeft(2)
)

// formatError renders err for the terminal, with a hint for common
// backend failures
func formatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(errorLabelStyle.Render("Error:"))
	sb.WriteString(" ")
	sb.WriteString(err.Error())

	if hint := errorHint(err); hint != "" {
		sb.WriteString("\n")
		sb.WriteString(errorHintStyle.Render("Hint: " + hint))
	}
	return sb.String()
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "the backend did not answer in time; raise timeout_seconds or set it to 0"
	case errors.Is(err, apierrors.ErrInvalidResponse):
		return "the endpoint answered with something other than JSON; check that it is the FAQ backend"
	}

	if !apierrors.IsTransportFailure(err) {
		return ""
	}
	switch code := apierrors.StatusCode(err); {
	case code == 0:
		return fmt.Sprintf("could not reach %s; is the backend running?", apierrors.Endpoint(err))
	case code == 404:
		return "endpoint not found; check the configured base URL"
	case code >= 500:
		return "the backend failed while handling the request; check its logs"
	}
	return ""
}
