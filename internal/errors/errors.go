package errors

import (
	"fmt"
	"os"

	"github.com/julianstephens/clientmgr/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Hint pairs an error with a follow-up suggestion for the user.
type Hint struct {
	Err        error
	Suggestion string
}

func (h *Hint) Error() string {
	if h.Suggestion == "" {
		return h.Err.Error()
	}
	return fmt.Sprintf("%v (hint: %s)", h.Err, h.Suggestion)
}

func (h *Hint) Unwrap() error { return h.Err }

// WithHint wraps err with a suggestion. A nil err stays nil.
func WithHint(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &Hint{Err: err, Suggestion: suggestion}
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
