// Package invoicelib provides a public API for typesetting TOML invoices.
//
// Example usage:
//
//	proc := invoicelib.NewDefaultProcessor()
//	pdf, err := proc.Render(ctx, reader)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("invoice.pdf", pdf, 0o644)
package invoicelib

import (
	"github.com/rezonia/invoice-tex/internal/codec"
	"github.com/rezonia/invoice-tex/internal/finalize"
	"github.com/rezonia/invoice-tex/internal/helpers"
	"github.com/rezonia/invoice-tex/internal/model"
	"github.com/rezonia/invoice-tex/internal/render"
)

// Re-export core types for public API
type (
	Invoice     = model.Invoice
	InvoiceInfo = model.InvoiceInfo
	Subject     = model.Subject
	Payment     = model.Payment
	Product     = model.Product
	Summary     = model.Summary
	Date        = codec.Date
	Decimal     = codec.Decimal
)

// Re-export error types
type (
	FormatError       = codec.FormatError
	HelperError       = helpers.HelperError
	TemplateError     = render.TemplateError
	ExternalToolError = finalize.ExternalToolError
)

// DateLayout is the layout dates are written in
const DateLayout = codec.DateLayout
