package finalize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultEngine is the typesetting engine used when none is configured
	DefaultEngine = "pdflatex"

	// SourceName is the file the rendered text is written to
	SourceName = "invoice.tex"

	// ArtifactName is the file the engine is expected to produce
	ArtifactName = "invoice.pdf"

	// logTailLines is how much of the engine log is kept in errors
	logTailLines = 20
)

// DefaultArgs keep the engine from waiting for terminal input on errors
var DefaultArgs = []string{"-interaction=nonstopmode", "-halt-on-error"}

// LaTeX finalizes documents with a LaTeX engine such as pdflatex
type LaTeX struct {
	engine        string
	args          []string
	timeout       time.Duration
	scratchRoot   string
	checkArtifact bool
	logger        zerolog.Logger
}

// Option configures the LaTeX finalizer
type Option func(*LaTeX)

// WithEngine sets the engine name (looked up in PATH) or path
func WithEngine(engine string) Option {
	return func(l *LaTeX) {
		if engine != "" {
			l.engine = engine
		}
	}
}

// WithArgs replaces the flags passed before the source file
func WithArgs(args ...string) Option {
	return func(l *LaTeX) {
		l.args = append([]string(nil), args...)
	}
}

// WithTimeout bounds a single engine run. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(l *LaTeX) {
		l.timeout = d
	}
}

// WithScratchRoot sets where scratch directories are created
func WithScratchRoot(dir string) Option {
	return func(l *LaTeX) {
		l.scratchRoot = dir
	}
}

// WithArtifactCheck toggles validation of the produced PDF
func WithArtifactCheck(enabled bool) Option {
	return func(l *LaTeX) {
		l.checkArtifact = enabled
	}
}

// WithLogger sets the logger used for engine diagnostics
func WithLogger(logger zerolog.Logger) Option {
	return func(l *LaTeX) {
		l.logger = logger
	}
}

// NewLaTeX creates a LaTeX finalizer
func NewLaTeX(opts ...Option) *LaTeX {
	l := &LaTeX{
		engine:        DefaultEngine,
		args:          append([]string(nil), DefaultArgs...),
		checkArtifact: true,
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Engine returns the configured engine name or path
func (l *LaTeX) Engine() string {
	return l.engine
}

// Finalize writes source to a fresh scratch directory, runs the engine there
// with the source file as its only positional argument and returns the PDF
// it produced. The scratch directory is removed on every path.
func (l *LaTeX) Finalize(ctx context.Context, source string) ([]byte, error) {
	enginePath, ok := Detect(l.engine)
	if !ok {
		return nil, ErrToolUnavailable(l.engine)
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	var pdf []byte
	err := WithScratchDir(l.scratchRoot, func(scratch *ScratchDir) error {
		if err := os.WriteFile(scratch.Path(SourceName), []byte(source), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", SourceName, err)
		}

		args := append(append([]string(nil), l.args...), SourceName)
		cmd := exec.CommandContext(ctx, enginePath, args...)
		cmd.Dir = scratch.Dir()
		cmd.WaitDelay = 2 * time.Second

		var output bytes.Buffer
		cmd.Stdout = &output
		cmd.Stderr = &output

		l.logger.Debug().
			Str("engine", enginePath).
			Strs("args", args).
			Str("dir", scratch.Dir()).
			Msg("running typesetting engine")

		start := time.Now()
		runErr := cmd.Run()
		log := tail(output.String(), logTailLines)

		l.logger.Debug().
			Dur("took", time.Since(start)).
			Str("log", log).
			Msg("typesetting engine finished")

		if runErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return NewExternalToolError(l.engine, 0, "engine did not finish", log, ctxErr)
			}
			exitCode := 0
			var exitErr *exec.ExitError
			if errors.As(runErr, &exitErr) {
				exitCode = exitErr.ExitCode()
			}
			return NewExternalToolError(l.engine, exitCode, "engine failed", log, runErr)
		}

		data, err := os.ReadFile(scratch.Path(ArtifactName))
		if err != nil {
			return NewExternalToolError(l.engine, 0, "engine produced no "+ArtifactName, log, err)
		}

		if l.checkArtifact {
			info, err := Inspect(data)
			if err != nil {
				return NewExternalToolError(l.engine, 0, "engine produced an unreadable document", log, err)
			}
			l.logger.Debug().Int("pages", info.Pages).Int("bytes", info.Size).Msg("document checked")
		}

		pdf = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

// Detect looks for a LaTeX engine in PATH and common install locations
func Detect(engine string) (string, bool) {
	if strings.ContainsRune(engine, filepath.Separator) {
		if path, err := exec.LookPath(engine); err == nil {
			return path, true
		}
		return "", false
	}

	if path, err := exec.LookPath(engine); err == nil {
		return path, true
	}

	candidates := []string{
		"/Library/TeX/texbin",        // MacTeX
		"/opt/homebrew/bin",          // macOS Homebrew ARM
		"/usr/local/texlive/*/bin/*", // TeX Live installer
	}
	for _, dir := range candidates {
		matches, err := filepath.Glob(filepath.Join(dir, engine))
		if err != nil {
			continue
		}
		for _, m := range matches {
			if path, err := exec.LookPath(m); err == nil {
				return path, true
			}
		}
	}

	return "", false
}

// InstallInstructions returns platform-specific installation instructions
func InstallInstructions() string {
	return `A LaTeX engine (pdflatex by default) is required to produce PDF invoices.

Installation:
  - Ubuntu/Debian: sudo apt install texlive-latex-base texlive-latex-recommended texlive-lang-polish
  - macOS:         brew install --cask mactex-no-gui
  - Fedora/RHEL:   sudo dnf install texlive-scheme-basic texlive-babel-polish
  - Windows:       Install MiKTeX from https://miktex.org/download

After installation, ensure the engine is in your PATH or pass --engine.`
}

func tail(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
