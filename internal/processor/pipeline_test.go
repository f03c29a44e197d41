package processor_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-tex/internal/codec"
	"github.com/rezonia/invoice-tex/internal/finalize"
	"github.com/rezonia/invoice-tex/internal/helpers"
	"github.com/rezonia/invoice-tex/internal/processor"
	"github.com/rezonia/invoice-tex/internal/render"
)

const invoiceTOML = `
[invoice]
id = "1/2024"
created = 2024-03-05
done = "Gdańsk"

[seller]
name = "Seller"
street = "ul. A 1"
region = "80-001 Gdańsk"
nip = "1111111111"

[buyer]
name = "Buyer"
street = "ul. B 2"
region = "00-001 Warszawa"
nip = "2222222222"

[payment]
date = 2024-03-19
account = "PL00 0000"
bank = "Bank"

[[products]]
name = "Widget. Blue"
unit = "szt."
quantity = 2
price = 100.00
pkd = "62.01.Z"
`

// recorder is a fake finalizer remembering the source it was given
type recorder struct {
	calls  int
	source string
	doc    []byte
	err    error
}

func (r *recorder) Finalize(_ context.Context, source string) ([]byte, error) {
	r.calls++
	r.source = source
	return r.doc, r.err
}

func TestNewPipeline(t *testing.T) {
	p := processor.NewPipeline()
	require.NotNil(t, p)
}

func TestProcess_Success(t *testing.T) {
	fake := &recorder{doc: []byte("%PDF-fake")}
	p := processor.NewPipeline(processor.WithFinalizer(fake))

	result := p.Process(context.Background(), strings.NewReader(invoiceTOML))
	require.NoError(t, result.Error)

	assert.Equal(t, processor.StageFinalize, result.Stage)
	assert.Equal(t, "200", result.Sum.String())
	assert.Equal(t, "1/2024", result.Invoice.Info.ID)
	assert.Equal(t, []byte("%PDF-fake"), result.Document)
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, result.Source, fake.source)
	assert.Contains(t, fake.source, `Widget.\ Blue`)
	assert.Contains(t, fake.source, "200,00")
}

func TestProcess_DecodeErrorStopsEarly(t *testing.T) {
	fake := &recorder{}
	p := processor.NewPipeline(processor.WithFinalizer(fake))

	bad := strings.Replace(invoiceTOML, "price = 100.00", `price = "abc"`, 1)
	result := p.ProcessBytes(context.Background(), []byte(bad))

	require.Error(t, result.Error)
	assert.Equal(t, processor.StageDecode, result.Stage)
	assert.Nil(t, result.Invoice)
	assert.Empty(t, result.Source)
	assert.Zero(t, fake.calls)

	var formatErr *codec.FormatError
	assert.True(t, errors.As(result.Error, &formatErr))
}

func TestProcess_StringDate(t *testing.T) {
	p := processor.NewPipeline(processor.WithFinalizer(&recorder{}))

	bad := strings.Replace(invoiceTOML, "created = 2024-03-05", `created = "2024-03-05"`, 1)
	result := p.ProcessBytes(context.Background(), []byte(bad))

	var formatErr *codec.FormatError
	require.True(t, errors.As(result.Error, &formatErr))
	assert.Equal(t, processor.StageDecode, result.Stage)
}

func TestProcess_RenderError(t *testing.T) {
	fake := &recorder{}
	r, err := render.Parse("broken", `{{inc .Invoice.Info.ID}}`)
	require.NoError(t, err)

	p := processor.NewPipeline(processor.WithFinalizer(fake), processor.WithRenderer(r))
	result := p.ProcessBytes(context.Background(), []byte(invoiceTOML))

	require.Error(t, result.Error)
	assert.Equal(t, processor.StageRender, result.Stage)
	assert.Zero(t, fake.calls)

	var tmplErr *render.TemplateError
	assert.True(t, errors.As(result.Error, &tmplErr))
	var helperErr *helpers.HelperError
	assert.True(t, errors.As(result.Error, &helperErr))
}

func TestProcess_FinalizeError(t *testing.T) {
	toolErr := finalize.NewExternalToolError("pdflatex", 1, "engine failed", "! LaTeX Error", nil)
	p := processor.NewPipeline(processor.WithFinalizer(&recorder{err: toolErr}))

	result := p.ProcessBytes(context.Background(), []byte(invoiceTOML))

	assert.Equal(t, processor.StageFinalize, result.Stage)
	assert.Nil(t, result.Document)
	assert.NotEmpty(t, result.Source)

	var got *finalize.ExternalToolError
	require.True(t, errors.As(result.Error, &got))
	assert.Equal(t, 1, got.ExitCode)
}

func TestProcess_FinalizerFunc(t *testing.T) {
	f := finalize.FinalizerFunc(func(ctx context.Context, source string) ([]byte, error) {
		return []byte(strings.ToUpper(source[:5])), ctx.Err()
	})
	p := processor.NewPipeline(processor.WithFinalizer(f))

	result := p.ProcessBytes(context.Background(), []byte(invoiceTOML))
	require.NoError(t, result.Error)
	assert.Len(t, result.Document, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result = p.ProcessBytes(ctx, []byte(invoiceTOML))
	assert.True(t, errors.Is(result.Error, context.Canceled))
}

func TestRender(t *testing.T) {
	fake := &recorder{}
	p := processor.NewPipeline(processor.WithFinalizer(fake))

	result := p.Render(strings.NewReader(invoiceTOML))
	require.NoError(t, result.Error)

	assert.Equal(t, processor.StageRender, result.Stage)
	assert.Contains(t, result.Source, `\documentclass`)
	assert.Nil(t, result.Document)
	assert.Zero(t, fake.calls, "Render never runs the engine")
}

func TestDecode(t *testing.T) {
	p := processor.NewPipeline(processor.WithFinalizer(&recorder{}))

	result := p.Decode(strings.NewReader(invoiceTOML))
	require.NoError(t, result.Error)
	assert.Equal(t, processor.StageDecode, result.Stage)
	assert.Len(t, result.Invoice.Products, 1)
	assert.Equal(t, "2024/03/05", result.Invoice.Info.Created.String())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestProcess_ReadError(t *testing.T) {
	p := processor.NewPipeline(processor.WithFinalizer(&recorder{}))

	result := p.Process(context.Background(), failingReader{})
	require.Error(t, result.Error)
	assert.Equal(t, processor.StageDecode, result.Stage)
	assert.Contains(t, result.Error.Error(), "disk on fire")

	result = p.Render(failingReader{})
	require.Error(t, result.Error)
}

func BenchmarkRenderBytes(b *testing.B) {
	p := processor.NewPipeline(processor.WithFinalizer(&recorder{}))
	data := []byte(invoiceTOML)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.RenderBytes(data)
	}
}
