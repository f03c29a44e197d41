package codec

import "fmt"

// FormatError reports input that does not match the invoice schema or holds
// a value that is not a valid exact decimal or calendar date.
type FormatError struct {
	Key     string
	Line    int
	Column  int
	Message string
	Cause   error
}

func (e *FormatError) Error() string {
	msg := e.Message
	if e.Key != "" {
		msg = fmt.Sprintf("%s: %s", e.Key, msg)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("invalid input: %s (%v)", msg, e.Cause)
	}
	return "invalid input: " + msg
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

// NewFormatError creates a new format error
func NewFormatError(key, message string, cause error) *FormatError {
	return &FormatError{
		Key:     key,
		Message: message,
		Cause:   cause,
	}
}
