package invoicelib

import (
	"time"

	"github.com/rezonia/invoice-tex/internal/finalize"
)

// PipelineOptions configures how documents are typeset
type PipelineOptions struct {
	Engine     string   // LaTeX engine name or path (default: pdflatex)
	EngineArgs []string // flags passed before the source file

	// Timeout bounds one engine run; zero means no limit
	Timeout time.Duration

	// ScratchRoot is where per-run directories are created (default: system temp)
	ScratchRoot string

	// CheckArtifact validates the produced PDF with pdfcpu
	CheckArtifact bool
}

// DefaultPipelineOptions returns default pipeline options
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Engine:        finalize.DefaultEngine,
		EngineArgs:    append([]string(nil), finalize.DefaultArgs...),
		CheckArtifact: true,
	}
}

func (o PipelineOptions) finalizerOptions() []finalize.Option {
	opts := []finalize.Option{
		finalize.WithEngine(o.Engine),
		finalize.WithTimeout(o.Timeout),
		finalize.WithScratchRoot(o.ScratchRoot),
		finalize.WithArtifactCheck(o.CheckArtifact),
	}
	if o.EngineArgs != nil {
		opts = append(opts, finalize.WithArgs(o.EngineArgs...))
	}
	return opts
}
