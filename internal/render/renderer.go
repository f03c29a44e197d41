// Package render substitutes an invoice into the embedded LaTeX template.
package render

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/rezonia/invoice-tex/internal/helpers"
	"github.com/rezonia/invoice-tex/internal/model"
)

// TemplateName is the name of the embedded invoice template
const TemplateName = "invoice.tex"

//go:embed templates/invoice.tex.tmpl
var invoiceTemplate string

// Context is the data the template sees. It carries the invoice and its
// total and nothing else; line totals are computed in the template with mul.
type Context struct {
	Invoice *model.Invoice
	Sum     decimal.Decimal
}

// Renderer executes a parsed template. It is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

// New returns a renderer for the embedded invoice template
func New() (*Renderer, error) {
	return Parse(TemplateName, invoiceTemplate)
}

// MustNew is New that panics on error
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Parse builds a renderer from template text with the helper set registered.
// Output is never escaped; the template escapes explicitly where needed.
func Parse(name, text string) (*Renderer, error) {
	funcs := make(template.FuncMap, len(helpers.Set()))
	for helperName, h := range helpers.Set() {
		funcs[helperName] = (func(...any) (string, error))(h)
	}

	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(funcs).
		Parse(text)
	if err != nil {
		return nil, NewTemplateError(name, "failed to parse template", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Source returns the embedded template text
func Source() string {
	return invoiceTemplate
}

// Render computes the invoice total and returns the fully substituted text.
// Nothing is returned on failure.
func (r *Renderer) Render(inv *model.Invoice) (string, error) {
	if inv == nil {
		return "", NewTemplateError(r.tmpl.Name(), "no invoice to render", nil)
	}

	ctx := Context{
		Invoice: inv,
		Sum:     inv.Total(),
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, ctx); err != nil {
		return "", NewTemplateError(r.tmpl.Name(), "failed to execute template", err)
	}
	return buf.String(), nil
}
