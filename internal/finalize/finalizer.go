// Package finalize turns rendered LaTeX source into a PDF by running an
// external typesetting engine in an isolated scratch directory.
package finalize

import "context"

// Finalizer produces the binary document for rendered source text
type Finalizer interface {
	Finalize(ctx context.Context, source string) ([]byte, error)
}

// FinalizerFunc adapts a function to the Finalizer interface
type FinalizerFunc func(ctx context.Context, source string) ([]byte, error)

// Finalize calls f(ctx, source)
func (f FinalizerFunc) Finalize(ctx context.Context, source string) ([]byte, error) {
	return f(ctx, source)
}
