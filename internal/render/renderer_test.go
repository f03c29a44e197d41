package render_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-tex/internal/codec"
	"github.com/rezonia/invoice-tex/internal/helpers"
	"github.com/rezonia/invoice-tex/internal/model"
	"github.com/rezonia/invoice-tex/internal/render"
)

func newInvoice(products ...model.Product) *model.Invoice {
	return &model.Invoice{
		Info: model.InvoiceInfo{
			ID:      "7/2024",
			Created: codec.MustDate(2024, 3, 5),
			Done:    "Poznań",
		},
		Seller: model.Subject{
			Name:   "Kowalski i Wspólnicy Sp. z o.o.",
			Street: "ul. Święty Marcin 1",
			Region: "61-001 Poznań",
			TaxID:  "7781234567",
		},
		Buyer: model.Subject{
			Name:   "R&D Lab",
			Street: "al. Jana Pawła II 5",
			Region: "00-001 Warszawa",
			TaxID:  "5261234567",
		},
		Payment: model.Payment{
			Date:    codec.MustDate(2024, 3, 19),
			Account: "PL61 1090 1014 0000 0712 1981 2874",
			Bank:    "mBank S.A.",
		},
		Products: products,
	}
}

func widget(price, quantity string) model.Product {
	return model.Product{
		Name:     "Widget",
		Unit:     "szt.",
		Price:    codec.MustDecimal(price),
		Quantity: codec.MustDecimal(quantity),
		PKD:      "62.01.Z",
	}
}

func TestNew(t *testing.T) {
	r, err := render.New()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Contains(t, render.Source(), `\documentclass`)
}

func TestRender_Invoice(t *testing.T) {
	r := render.MustNew()

	out, err := r.Render(newInvoice(widget("100.00", "2")))
	require.NoError(t, err)

	assert.Contains(t, out, "Faktura nr 7/2024")
	assert.Contains(t, out, "Data wystawienia: 2024/03/05")
	assert.Contains(t, out, "Termin płatności:} 2024/03/19")
	assert.Contains(t, out, `1 & Widget & 62.01.Z & szt. & 2 & 100,00 & 200,00 \\`)
	assert.Contains(t, out, `\textbf{200,00}`)
	assert.Contains(t, out, "Do zapłaty:} 200,00 zł")
	assert.NotContains(t, out, "{{")
}

func TestRender_RowNumbersAreOneBased(t *testing.T) {
	r := render.MustNew()

	out, err := r.Render(newInvoice(widget("1", "1"), widget("2", "1"), widget("3", "1")))
	require.NoError(t, err)

	assert.Contains(t, out, "\n1 & Widget")
	assert.Contains(t, out, "\n2 & Widget")
	assert.Contains(t, out, "\n3 & Widget")
	assert.NotContains(t, out, "\n0 & Widget")
	assert.Contains(t, out, `\textbf{6,00}`)
}

func TestRender_EscapesDotSpaceOnly(t *testing.T) {
	r := render.MustNew()

	out, err := r.Render(newInvoice())
	require.NoError(t, err)

	assert.Contains(t, out, `Kowalski i Wspólnicy Sp.\ z o.o.`)
	assert.Contains(t, out, `ul.\ Święty Marcin 1`)
	// no output escaping beyond the explicit helper
	assert.Contains(t, out, "R&D Lab")
	assert.NotContains(t, out, "&amp;")
}

func TestRender_EmptyProducts(t *testing.T) {
	r := render.MustNew()

	out, err := r.Render(newInvoice())
	require.NoError(t, err)
	assert.Contains(t, out, `\textbf{0,00}`)
}

func TestRender_NilInvoice(t *testing.T) {
	_, err := render.MustNew().Render(nil)

	var te *render.TemplateError
	require.True(t, errors.As(err, &te))
}

func TestRender_ContextFields(t *testing.T) {
	r, err := render.Parse("ctx", `{{.Invoice.Info.ID}}|{{.Sum}}|{{mul .Sum "2"}}`)
	require.NoError(t, err)

	out, err := r.Render(newInvoice(widget("0.1", "3"), widget("0.2", "1")))
	require.NoError(t, err)
	assert.Equal(t, "7/2024|0.5|1", out)
}

func TestRender_UndefinedField(t *testing.T) {
	r, err := render.Parse("bad-field", `{{.Total}}`)
	require.NoError(t, err)

	_, err = r.Render(newInvoice())
	var te *render.TemplateError
	require.True(t, errors.As(err, &te), "expected TemplateError, got %v", err)
	assert.Equal(t, "bad-field", te.Template)
}

func TestRender_UndefinedHelper(t *testing.T) {
	_, err := render.Parse("bad-helper", `{{eur .Sum}}`)

	var te *render.TemplateError
	require.True(t, errors.As(err, &te), "expected TemplateError, got %v", err)
	assert.Contains(t, err.Error(), "eur")
}

func TestRender_HelperFailure(t *testing.T) {
	r, err := render.Parse("bad-param", `{{inc .Sum}}`)
	require.NoError(t, err)

	out, err := r.Render(newInvoice(widget("1", "1")))
	assert.Empty(t, out)

	var te *render.TemplateError
	require.True(t, errors.As(err, &te), "expected TemplateError, got %v", err)

	var he *helpers.HelperError
	require.True(t, errors.As(err, &he), "expected wrapped HelperError, got %v", err)
	assert.Equal(t, "inc", he.Helper)
}

func TestRender_NoPartialOutput(t *testing.T) {
	r, err := render.Parse("partial", `before {{escape_dot_space .Sum}} after`)
	require.NoError(t, err)

	out, err := r.Render(newInvoice())
	require.Error(t, err)
	assert.Empty(t, out)
	assert.False(t, strings.Contains(out, "before"))
}
