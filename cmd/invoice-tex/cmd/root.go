package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-tex/internal/config"
	"github.com/rezonia/invoice-tex/internal/finalize"
	"github.com/rezonia/invoice-tex/internal/logger"
	"github.com/rezonia/invoice-tex/internal/processor"
)

var (
	version = "1.0.0"

	// Global flags
	cfgFile      string
	outputFormat string

	// Set by loadConfig before any command runs
	cfg *config.Config
	log = zerolog.Nop()
)

// flagKeys maps configuration keys to the flags that override them
var flagKeys = map[string]string{
	config.KeyEngine:              "engine",
	config.KeyTimeout:             "timeout",
	config.KeyCheckArtifact:       "check-artifact",
	config.KeyLogLevel:            "log-level",
	config.KeyLogFormat:           "log-format",
	config.KeyServerAddress:       "address",
	config.KeyServerDebug:         "debug",
	config.KeyServerReadTimeout:   "read-timeout",
	config.KeyServerWriteTimeout:  "write-timeout",
	config.KeyServerRenderTimeout: "render-timeout",
}

var rootCmd = &cobra.Command{
	Use:   "invoice-tex",
	Short: "Typeset TOML invoices into PDF with LaTeX",
	Long: `invoice-tex turns an invoice described in TOML into a PDF.

The invoice is decoded with exact decimal arithmetic, substituted into an
embedded LaTeX template and typeset by an external engine (pdflatex by
default) in a throwaway scratch directory.

Examples:
  # Render an invoice to PDF
  invoice-tex render invoice.toml invoice.pdf

  # Read from stdin, write to stdout
  invoice-tex render < invoice.toml > invoice.pdf

  # Show the generated LaTeX source instead
  invoice-tex render invoice.toml --tex

  # Check invoices without typesetting
  invoice-tex validate invoices/*.toml`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ./invoice-tex.yaml)")
	pf.StringVarP(&outputFormat, "format", "f", "table", "Output format for reports (table, json)")
	pf.String("engine", finalize.DefaultEngine, "LaTeX engine name or path (env: INVOICE_TEX_ENGINE)")
	pf.Duration("timeout", 0, "Engine timeout, 0 for none (env: INVOICE_TEX_TIMEOUT)")
	pf.Bool("check-artifact", true, "Validate the produced PDF with pdfcpu")
	pf.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	pf.String("log-format", logger.FormatConsole, "Log format (console, json)")
}

// loadConfig merges defaults, config file, environment and flags, then
// builds the logger. Logs go to stderr so stdout can carry documents.
func loadConfig(cmd *cobra.Command, args []string) error {
	v := config.New()
	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	loaded, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	log = logger.New(logger.Config{
		Format: cfg.Log.Format,
		Level:  cfg.Log.Level,
		Output: cmd.ErrOrStderr(),
	})
	log.Debug().
		Str("engine", cfg.Engine).
		Strs("engine_args", cfg.EngineArgs).
		Dur("timeout", cfg.Timeout).
		Msg("configuration loaded")

	return nil
}

func newPipeline() *processor.Pipeline {
	opts := append(cfg.FinalizerOptions(), finalize.WithLogger(log))
	return processor.NewPipeline(
		processor.WithLogger(log),
		processor.WithFinalizer(finalize.NewLaTeX(opts...)),
	)
}
