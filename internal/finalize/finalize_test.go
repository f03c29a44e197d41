package finalize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine writes an executable shell script standing in for pdflatex
func fakeEngine(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-pdflatex")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directory was not removed")
}

func TestLaTeX_Finalize_Success(t *testing.T) {
	out := t.TempDir()
	root := t.TempDir()
	engine := fakeEngine(t, fmt.Sprintf(`
pwd > %[1]s/pwd.txt
printf '%%s\n' "$@" > %[1]s/args.txt
cp invoice.tex %[1]s/source.tex
printf 'fake pdf' > invoice.pdf`, out))

	l := NewLaTeX(
		WithEngine(engine),
		WithScratchRoot(root),
		WithArtifactCheck(false),
	)

	pdf, err := l.Finalize(context.Background(), "\\documentclass{article}")
	require.NoError(t, err)
	assert.Equal(t, "fake pdf", string(pdf))

	source, err := os.ReadFile(filepath.Join(out, "source.tex"))
	require.NoError(t, err)
	assert.Equal(t, "\\documentclass{article}", string(source))

	args, err := os.ReadFile(filepath.Join(out, "args.txt"))
	require.NoError(t, err)
	assert.Equal(t, "-interaction=nonstopmode\n-halt-on-error\ninvoice.tex\n", string(args))

	pwd, err := os.ReadFile(filepath.Join(out, "pwd.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(strings.TrimSpace(string(pwd))), "invoice-tex-"))

	assertEmptyDir(t, root)
}

func TestLaTeX_Finalize_CustomArgs(t *testing.T) {
	out := t.TempDir()
	engine := fakeEngine(t, fmt.Sprintf(`
printf '%%s\n' "$@" > %s/args.txt
printf 'x' > invoice.pdf`, out))

	l := NewLaTeX(WithEngine(engine), WithArgs(), WithArtifactCheck(false), WithScratchRoot(t.TempDir()))
	_, err := l.Finalize(context.Background(), "")
	require.NoError(t, err)

	args, err := os.ReadFile(filepath.Join(out, "args.txt"))
	require.NoError(t, err)
	assert.Equal(t, "invoice.tex\n", string(args))
}

func TestLaTeX_Finalize_NonZeroExit(t *testing.T) {
	root := t.TempDir()
	engine := fakeEngine(t, `
echo "! Undefined control sequence."
echo "l.12 \\foo"
exit 3`)

	l := NewLaTeX(WithEngine(engine), WithScratchRoot(root))
	pdf, err := l.Finalize(context.Background(), "\\foo")
	require.Error(t, err)
	assert.Nil(t, pdf)

	var toolErr *ExternalToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, engine, toolErr.Tool)
	assert.Equal(t, 3, toolErr.ExitCode)
	assert.Contains(t, toolErr.Log, "Undefined control sequence")
	assert.Contains(t, err.Error(), "exit status 3")

	assertEmptyDir(t, root)
}

func TestLaTeX_Finalize_MissingArtifact(t *testing.T) {
	root := t.TempDir()
	engine := fakeEngine(t, `echo "no output"`)

	l := NewLaTeX(WithEngine(engine), WithScratchRoot(root))
	_, err := l.Finalize(context.Background(), "x")

	var toolErr *ExternalToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, 0, toolErr.ExitCode)
	assert.Contains(t, toolErr.Message, ArtifactName)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assertEmptyDir(t, root)
}

func TestLaTeX_Finalize_UnreadableArtifact(t *testing.T) {
	root := t.TempDir()
	engine := fakeEngine(t, `printf 'definitely not a pdf' > invoice.pdf`)

	l := NewLaTeX(WithEngine(engine), WithScratchRoot(root), WithArtifactCheck(true))
	_, err := l.Finalize(context.Background(), "x")

	var toolErr *ExternalToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Contains(t, toolErr.Message, "unreadable")

	assertEmptyDir(t, root)
}

func TestLaTeX_Finalize_ValidArtifact(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(t.TempDir(), "one-page.pdf")
	require.NoError(t, os.WriteFile(src, minimalPDF(), 0o644))
	engine := fakeEngine(t, fmt.Sprintf(`cp %s invoice.pdf`, src))

	l := NewLaTeX(WithEngine(engine), WithScratchRoot(root))
	pdf, err := l.Finalize(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, minimalPDF(), pdf)

	assertEmptyDir(t, root)
}

func TestLaTeX_Finalize_EngineNotFound(t *testing.T) {
	root := t.TempDir()
	l := NewLaTeX(WithEngine("definitely-not-a-latex-engine-xyz"), WithScratchRoot(root))

	_, err := l.Finalize(context.Background(), "x")

	var toolErr *ExternalToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "definitely-not-a-latex-engine-xyz", toolErr.Tool)
	assert.Contains(t, err.Error(), "not found")

	assertEmptyDir(t, root)
}

func TestLaTeX_Finalize_Timeout(t *testing.T) {
	root := t.TempDir()
	engine := fakeEngine(t, `exec sleep 10`)

	l := NewLaTeX(WithEngine(engine), WithScratchRoot(root), WithTimeout(100*time.Millisecond))

	start := time.Now()
	_, err := l.Finalize(context.Background(), "x")
	assert.Less(t, time.Since(start), 5*time.Second)

	var toolErr *ExternalToolError
	require.True(t, errors.As(err, &toolErr))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	assertEmptyDir(t, root)
}

func TestLaTeX_Finalize_Cancelled(t *testing.T) {
	root := t.TempDir()
	engine := fakeEngine(t, `exec sleep 10`)
	l := NewLaTeX(WithEngine(engine), WithScratchRoot(root))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Finalize(ctx, "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	assertEmptyDir(t, root)
}

func TestNewLaTeX_Defaults(t *testing.T) {
	l := NewLaTeX()
	assert.Equal(t, DefaultEngine, l.Engine())
	assert.Equal(t, DefaultArgs, l.args)
	assert.True(t, l.checkArtifact)
	assert.Zero(t, l.timeout)

	l = NewLaTeX(WithEngine(""))
	assert.Equal(t, DefaultEngine, l.Engine(), "empty engine keeps the default")
}

func TestDetect(t *testing.T) {
	engine := fakeEngine(t, "exit 0")

	path, ok := Detect(engine)
	assert.True(t, ok)
	assert.Equal(t, engine, path)

	_, ok = Detect("/nonexistent/dir/pdflatex")
	assert.False(t, ok)

	_, ok = Detect("definitely-not-a-latex-engine-xyz")
	assert.False(t, ok)
}

func TestDetect_IgnoresSystemBinDirs(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, ok := Detect("sh")
	assert.False(t, ok, "only PATH and TeX install locations are searched")
}

func TestInstallInstructions(t *testing.T) {
	text := InstallInstructions()
	assert.Contains(t, text, "pdflatex")
	assert.Contains(t, text, "apt install")
}

func TestExternalToolError(t *testing.T) {
	cause := errors.New("boom")
	err := NewExternalToolError("pdflatex", 1, "engine failed", "log", cause)

	assert.Equal(t, "pdflatex: engine failed (exit status 1): boom", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))

	assert.Equal(t, "xelatex: typesetting engine not found", ErrToolUnavailable("xelatex").Error())
}

func TestTail(t *testing.T) {
	assert.Equal(t, "", tail("", 3))
	assert.Equal(t, "a\nb", tail("a\nb\n", 3))
	assert.Equal(t, "c\nd", tail("a\nb\nc\nd", 2))
}
