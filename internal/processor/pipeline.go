// Package processor runs the invoice pipeline: decode, total, render and
// finalize.
package processor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rezonia/invoice-tex/internal/finalize"
	"github.com/rezonia/invoice-tex/internal/metrics"
	"github.com/rezonia/invoice-tex/internal/model"
	"github.com/rezonia/invoice-tex/internal/render"
)

// Stage names the pipeline step a result stopped at
type Stage string

const (
	StageDecode   Stage = "decode"
	StageRender   Stage = "render"
	StageFinalize Stage = "finalize"
)

// Result contains the outcome of a pipeline run
type Result struct {
	Invoice *model.Invoice
	Sum     decimal.Decimal
	// Source is the rendered LaTeX text
	Source string
	// Document holds the PDF bytes when finalization ran
	Document []byte
	// Stage is the last stage that ran, successfully or not
	Stage Stage
	Error error
}

// Pipeline orchestrates invoice processing
type Pipeline struct {
	renderer  *render.Renderer
	finalizer finalize.Finalizer
	logger    zerolog.Logger
}

// PipelineOption configures the pipeline
type PipelineOption func(*Pipeline)

// WithFinalizer sets the finalizer used to produce documents
func WithFinalizer(f finalize.Finalizer) PipelineOption {
	return func(p *Pipeline) {
		p.finalizer = f
	}
}

// WithRenderer replaces the embedded-template renderer
func WithRenderer(r *render.Renderer) PipelineOption {
	return func(p *Pipeline) {
		p.renderer = r
	}
}

// WithLogger sets the pipeline logger
func WithLogger(logger zerolog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates a new processing pipeline. Without WithFinalizer it
// uses a pdflatex finalizer with default settings.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.renderer == nil {
		p.renderer = render.MustNew()
	}
	if p.finalizer == nil {
		p.finalizer = finalize.NewLaTeX(finalize.WithLogger(p.logger))
	}
	return p
}

// Process reads a TOML invoice from r and produces a PDF
func (p *Pipeline) Process(ctx context.Context, r io.Reader) *Result {
	data, err := io.ReadAll(r)
	if err != nil {
		return &Result{Stage: StageDecode, Error: fmt.Errorf("failed to read input: %w", err)}
	}
	return p.ProcessBytes(ctx, data)
}

// ProcessBytes decodes data and runs every stage through finalization
func (p *Pipeline) ProcessBytes(ctx context.Context, data []byte) *Result {
	result := p.RenderBytes(data)
	if result.Error != nil {
		metrics.ObserveRender("pdf", string(result.Stage), result.Error)
		return result
	}

	result.Stage = StageFinalize
	start := time.Now()
	doc, err := p.finalizer.Finalize(ctx, result.Source)
	metrics.FinalizeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.logger.Debug().Err(err).Str("id", result.Invoice.Info.ID).Msg("finalize failed")
		result.Error = err
		metrics.ObserveRender("pdf", string(result.Stage), err)
		return result
	}

	result.Document = doc

	p.logger.Info().
		Str("id", result.Invoice.Info.ID).
		Int("bytes", len(doc)).
		Dur("finalize", time.Since(start)).
		Msg("invoice rendered")

	metrics.ObserveRender("pdf", string(result.Stage), nil)
	return result
}

// Render reads a TOML invoice from r and produces LaTeX text without
// running the typesetting engine
func (p *Pipeline) Render(r io.Reader) *Result {
	data, err := io.ReadAll(r)
	if err != nil {
		return &Result{Stage: StageDecode, Error: fmt.Errorf("failed to read input: %w", err)}
	}
	result := p.RenderBytes(data)
	metrics.ObserveRender("tex", string(result.Stage), result.Error)
	return result
}

// RenderBytes decodes data and renders it. Decoding failures are reported
// before any rendering is attempted.
func (p *Pipeline) RenderBytes(data []byte) *Result {
	result := p.Decode(bytes.NewReader(data))
	if result.Error != nil {
		return result
	}

	result.Stage = StageRender
	source, err := p.renderer.Render(result.Invoice)
	if err != nil {
		result.Error = err
		return result
	}
	result.Source = source
	return result
}

// Decode parses the invoice and computes its total
func (p *Pipeline) Decode(r io.Reader) *Result {
	result := &Result{Stage: StageDecode}

	inv, err := model.Parse(r)
	if err != nil {
		result.Error = err
		return result
	}

	result.Invoice = inv
	result.Sum = inv.Total()

	p.logger.Debug().
		Str("id", inv.Info.ID).
		Int("products", len(inv.Products)).
		Str("total", result.Sum.String()).
		Msg("invoice decoded")

	return result
}
