package cli

import (
	"fmt"
	"os"

	"github.com/grovetools/handoff/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{Verbose: verbose}
}

// handledError wraps an error the handler already printed, so the top
// level knows not to print it again.
type handledError struct{ err error }

func (e handledError) Error() string { return e.err.Error() }
func (e handledError) Unwrap() error { return e.err }

// WasHandled reports whether the error was already presented to the user
func WasHandled(err error) bool {
	_, ok := err.(handledError)
	return ok
}

// Handle prints a friendly message for known error codes. The returned
// error is marked handled so the caller exits non-zero without printing
// it a second time.
func (h *ErrorHandler) Handle(err error) error {
	switch errors.GetCode(err) {
	case errors.ErrCodePreconditionMissing:
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		fmt.Fprintf(os.Stderr, "Install the GitHub CLI (https://cli.github.com) and authenticate with 'gh auth login'.\n")

	case errors.ErrCodeSessionNotFound:
		if handoffErr, ok := err.(*errors.HandoffError); ok {
			fmt.Fprintf(os.Stderr, "❌ No session log found for branch '%s' in %s\n",
				handoffErr.Details["branch"], handoffErr.Details["cwd"])
			fmt.Fprintf(os.Stderr, "Run Claude Code in this directory on this branch first.\n")
		} else {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		}

	case errors.ErrCodeInvalidInput:
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		fmt.Fprintf(os.Stderr, "Pass a branch name explicitly, or run from inside a git checkout.\n")

	case errors.ErrCodeDownloadFailed:
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		fmt.Fprintf(os.Stderr, "Check network connectivity and that 'gh' can reach the repository.\n")

	case errors.ErrCodeUploadFailed:
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		fmt.Fprintf(os.Stderr, "Check that 'gh' is authenticated with permission to create releases.\n")

	case errors.ErrCodeConfigNotFound, errors.ErrCodeConfigInvalid:
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)

	default:
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
	}

	if h.Verbose {
		if handoffErr, ok := err.(*errors.HandoffError); ok {
			fmt.Fprintf(os.Stderr, "\nError details:\n%s\n", handoffErr.ToJSON())
		}
	}
	return handledError{err}
}
