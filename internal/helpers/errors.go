package helpers

import "fmt"

// HelperError reports a template helper called with a missing, surplus or
// wrongly typed parameter.
type HelperError struct {
	Helper  string
	Param   int
	Message string
	Cause   error
}

func (e *HelperError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("helper %s: param %d: %s (%v)", e.Helper, e.Param, e.Message, e.Cause)
	}
	return fmt.Sprintf("helper %s: param %d: %s", e.Helper, e.Param, e.Message)
}

func (e *HelperError) Unwrap() error {
	return e.Cause
}

// NewHelperError creates a new helper error
func NewHelperError(helper string, param int, message string, cause error) *HelperError {
	return &HelperError{
		Helper:  helper,
		Param:   param,
		Message: message,
		Cause:   cause,
	}
}
