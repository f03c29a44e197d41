package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-tex/internal/model"
	"github.com/rezonia/invoice-tex/internal/processor"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate invoice files",
	Long: `Decode invoice files and render them without typesetting.

Checks performed:
  - The document matches the invoice schema (no unknown or missing keys)
  - Decimal fields are exact decimal literals
  - Dates are native TOML dates forming valid calendar days
  - The embedded template renders with the invoice data

Examples:
  invoice-tex validate invoice.toml
  invoice-tex validate invoices/ -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// ValidationResult holds the result of validating a single file
type ValidationResult struct {
	File    string         `json:"file"`
	Valid   bool           `json:"valid"`
	Stage   string         `json:"stage,omitempty"`
	Error   string         `json:"error,omitempty"`
	Summary *model.Summary `json:"summary,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, isTOML)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to validate")
	}

	pipeline := newPipeline()
	results := make([]*ValidationResult, 0, len(files))
	allValid := true

	for _, file := range files {
		result := validateFile(pipeline, file)
		results = append(results, result)
		if !result.Valid {
			allValid = false
		}
	}

	if err := writeValidation(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}
	return nil
}

func validateFile(pipeline *processor.Pipeline, filePath string) *ValidationResult {
	result := &ValidationResult{File: filePath}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read file: %v", err)
		return result
	}

	rendered := pipeline.RenderBytes(data)
	if rendered.Error != nil {
		result.Stage = string(rendered.Stage)
		result.Error = rendered.Error.Error()
		return result
	}

	result.Valid = true
	result.Summary = rendered.Invoice.Summary()
	return result
}

func writeValidation(w io.Writer, results []*ValidationResult) error {
	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	case "table":
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSTATUS\tID\tCREATED\tBUYER\tPRODUCTS\tTOTAL")
	fmt.Fprintln(tw, "----\t------\t--\t-------\t-----\t--------\t-----")

	for _, r := range results {
		if !r.Valid {
			fmt.Fprintf(tw, "%s\tINVALID\t%s\t\t\t\t\n", r.File, r.Error)
			continue
		}
		s := r.Summary
		fmt.Fprintf(tw, "%s\tVALID\t%s\t%s\t%s\t%d\t%s\n",
			r.File, s.ID, s.Created, s.Buyer, s.Products, s.TotalText)
	}

	return tw.Flush()
}
