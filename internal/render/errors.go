package render

import "fmt"

// TemplateError reports a template that failed to parse or execute: an
// undefined field or helper, or a helper that rejected its parameters.
type TemplateError struct {
	Template string
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template %s: %s: %v", e.Template, e.Message, e.Cause)
	}
	return fmt.Sprintf("template %s: %s", e.Template, e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// NewTemplateError creates a new template error
func NewTemplateError(template, message string, cause error) *TemplateError {
	return &TemplateError{
		Template: template,
		Message:  message,
		Cause:    cause,
	}
}
