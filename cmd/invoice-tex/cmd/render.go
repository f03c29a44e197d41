package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-tex/internal/finalize"
	"github.com/rezonia/invoice-tex/internal/processor"
)

const stdStream = "-"

var texOutput bool

var renderCmd = &cobra.Command{
	Use:   "render [input] [output]",
	Short: "Render an invoice to PDF",
	Long: `Render a TOML invoice into a PDF document.

Input defaults to stdin and output to stdout; "-" selects them explicitly.
Nothing is written unless every stage succeeds.

Examples:
  invoice-tex render invoice.toml invoice.pdf
  invoice-tex render - out.pdf < invoice.toml
  invoice-tex render invoice.toml --tex > invoice.tex
  invoice-tex render invoice.toml out.pdf --engine xelatex --timeout 1m`,
	Args: cobra.MaximumNArgs(2),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().BoolVar(&texOutput, "tex", false, "Write the generated LaTeX source instead of the PDF")
}

func runRender(cmd *cobra.Command, args []string) error {
	input, output := stdStream, stdStream
	if len(args) > 0 {
		input = args[0]
	}
	if len(args) > 1 {
		output = args[1]
	}

	r, closeInput, err := openInput(cmd, input)
	if err != nil {
		return err
	}
	defer closeInput()

	pipeline := newPipeline()

	var result *processor.Result
	if texOutput {
		result = pipeline.Render(r)
	} else {
		result = pipeline.Process(cmd.Context(), r)
	}

	if result.Error != nil {
		reportToolError(cmd, result.Error)
		return fmt.Errorf("%s: %w", result.Stage, result.Error)
	}

	data := result.Document
	if texOutput {
		data = []byte(result.Source)
	}

	if err := writeOutput(cmd, output, data); err != nil {
		return err
	}

	log.Info().
		Str("id", result.Invoice.Info.ID).
		Str("total", result.Sum.String()).
		Str("output", output).
		Msg("done")
	return nil
}

func openInput(cmd *cobra.Command, name string) (io.Reader, func(), error) {
	if name == stdStream {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func writeOutput(cmd *cobra.Command, name string, data []byte) error {
	if name == stdStream {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// reportToolError shows the tail of the engine log, and install hints when
// the engine is missing
func reportToolError(cmd *cobra.Command, err error) {
	var toolErr *finalize.ExternalToolError
	if !errors.As(err, &toolErr) {
		return
	}
	if toolErr.Log != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "--- %s output ---\n%s\n---\n", toolErr.Tool, toolErr.Log)
	}
	if _, ok := finalize.Detect(toolErr.Tool); !ok {
		fmt.Fprintln(cmd.ErrOrStderr(), finalize.InstallInstructions())
	}
}
