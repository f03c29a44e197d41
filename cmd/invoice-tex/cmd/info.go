package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-tex/internal/finalize"
	"github.com/rezonia/invoice-tex/internal/model"
)

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show information about invoice and PDF files",
	Long: `Display information about invoice sources and produced documents.

Shows:
  - TOML invoices: parties, dates, line totals and the invoice total
  - PDF documents: page count and size (validated with pdfcpu)

Examples:
  invoice-tex info invoice.toml
  invoice-tex info out/*.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, isInfoFile)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	w := cmd.OutOrStdout()
	for _, file := range files {
		printFileInfo(w, file)
		fmt.Fprintln(w)
	}
	return nil
}

func printFileInfo(w io.Writer, filePath string) {
	fmt.Fprintf(w, "File: %s\n", filePath)

	data, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(w, "  Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "  Size: %d bytes\n", len(data))

	if bytes.HasPrefix(data, []byte("%PDF")) {
		fmt.Fprintf(w, "  Format: PDF\n")
		artifact, err := finalize.Inspect(data)
		if err != nil {
			fmt.Fprintf(w, "  Error: %v\n", err)
			return
		}
		fmt.Fprintf(w, "  Pages: %d\n", artifact.Pages)
		return
	}

	fmt.Fprintf(w, "  Format: TOML invoice\n")
	inv, err := model.ParseBytes(data)
	if err != nil {
		fmt.Fprintf(w, "  Error: %v\n", err)
		return
	}

	s := inv.Summary()
	fmt.Fprintf(w, "  Invoice: %s\n", s.ID)
	fmt.Fprintf(w, "  Created: %s\n", s.Created)
	fmt.Fprintf(w, "  Seller: %s\n", s.Seller)
	fmt.Fprintf(w, "  Buyer: %s\n", s.Buyer)
	fmt.Fprintf(w, "  Due: %s\n", s.DueDate)
	for i, line := range s.Lines {
		fmt.Fprintf(w, "  %d. %s: %s x %s = %s\n", i+1, line.Name, line.Quantity, line.Price, line.Total)
	}
	fmt.Fprintf(w, "  Total: %s\n", s.TotalText)
}
