package finalize

import "fmt"

// ExternalToolError reports a typesetting engine that could not run, exited
// with a non-zero status, or did not produce a usable document.
type ExternalToolError struct {
	Tool     string
	ExitCode int
	Message  string
	// Log holds the tail of the engine's combined output
	Log   string
	Cause error
}

func (e *ExternalToolError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Tool, e.Message)
	if e.ExitCode > 0 {
		msg = fmt.Sprintf("%s (exit status %d)", msg, e.ExitCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ExternalToolError) Unwrap() error {
	return e.Cause
}

// NewExternalToolError creates a new external tool error
func NewExternalToolError(tool string, exitCode int, message, log string, cause error) *ExternalToolError {
	return &ExternalToolError{
		Tool:     tool,
		ExitCode: exitCode,
		Message:  message,
		Log:      log,
		Cause:    cause,
	}
}

// ErrToolUnavailable returns error when the engine binary cannot be found
func ErrToolUnavailable(tool string) *ExternalToolError {
	return NewExternalToolError(tool, 0, "typesetting engine not found", "", nil)
}
