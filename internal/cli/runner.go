package cli

import (
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/ui"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// usageError marks bad input: wrong arguments, unknown ids, empty titles.
type usageError struct {
	msg  string
	hint string
}

func (e *usageError) Error() string { return e.msg }

func usagef(msg, hint string) error { return &usageError{msg: msg, hint: hint} }

// shownError carries the message the controller displayed for a failed
// action, wrapping the transport error underneath.
type shownError struct {
	msg string
	err error
}

func (e *shownError) Error() string { return e.msg }
func (e *shownError) Unwrap() error { return e.err }

// ExitCode maps an error returned by the root command onto a process exit
// code (0 ok, 1 failure, 2 usage).
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ue *usageError
	if errors.As(err, &ue) || isCobraUsage(err) {
		return ExitUsage
	}
	return ExitFailure
}

func isCobraUsage(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag") ||
		strings.HasPrefix(msg, "accepts ") ||
		strings.HasPrefix(msg, "requires at least")
}

// Execute runs the root command with args, prints any failure to stderr and
// returns the exit code.
func Execute(cmd *cobra.Command, args []string, stderr io.Writer) int {
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return ExitOK
	}
	ui.FprintFail(stderr, err.Error())
	var ue *usageError
	if errors.As(err, &ue) && ue.hint != "" {
		ui.Hint(stderr, ue.hint)
	}
	return ExitCode(err)
}
