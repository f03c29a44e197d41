package invoicelib

import (
	"context"
	"io"
	"sync"

	"github.com/rezonia/invoice-tex/internal/finalize"
	"github.com/rezonia/invoice-tex/internal/model"
	"github.com/rezonia/invoice-tex/internal/processor"
)

// Processor renders invoices using the internal pipeline
type Processor struct {
	pipeline *processor.Pipeline
}

// NewProcessor creates a new invoice processor with the given options
func NewProcessor(opts PipelineOptions) *Processor {
	pipeline := processor.NewPipeline(
		processor.WithFinalizer(finalize.NewLaTeX(opts.finalizerOptions()...)),
	)
	return &Processor{pipeline: pipeline}
}

// NewDefaultProcessor creates a processor with default options
func NewDefaultProcessor() *Processor {
	return NewProcessor(DefaultPipelineOptions())
}

// Parse decodes a TOML invoice without rendering it
func Parse(r io.Reader) (*Invoice, error) {
	return model.Parse(r)
}

// RenderTeX returns the LaTeX source for the invoice read from r
func (p *Processor) RenderTeX(r io.Reader) (string, error) {
	result := p.pipeline.Render(r)
	if result.Error != nil {
		return "", result.Error
	}
	return result.Source, nil
}

// Render returns the PDF for the invoice read from r
func (p *Processor) Render(ctx context.Context, r io.Reader) ([]byte, error) {
	result := p.pipeline.Process(ctx, r)
	if result.Error != nil {
		return nil, result.Error
	}
	return result.Document, nil
}

// RenderBatch renders several invoices concurrently. Results keep the input
// order; the first error is returned alongside whatever succeeded.
func (p *Processor) RenderBatch(ctx context.Context, inputs []io.Reader) ([][]byte, error) {
	results := make([][]byte, len(inputs))
	errs := make([]error, len(inputs))

	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func(idx int, r io.Reader) {
			defer wg.Done()
			results[idx], errs[idx] = p.Render(ctx, r)
		}(i, input)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
