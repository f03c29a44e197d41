package server

import (
	"github.com/rezonia/invoice-tex/internal/model"
)

// ValidationResponse is the response for validate endpoint
type ValidationResponse struct {
	Valid   bool           `json:"valid"`
	Summary *model.Summary `json:"summary,omitempty"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Stage   string `json:"stage,omitempty"`
	Details string `json:"details,omitempty"`
}
