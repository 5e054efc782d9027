package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/feels/internal/ingest"
)

var importSheet string

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Teach examples from a CSV, TSV, or XLSX file",
	Long: `Import teaches every row of a table that has a "text" and a "sentiment"
column. Rows with either cell blank are skipped.

Example:
  feels import examples.csv
  feels import diario.xlsx --sheet Marzo`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importSheet, "sheet", "", "XLSX sheet name (default: configured sheet, else the first)")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	sheet := importSheet
	if sheet == "" {
		sheet = a.cfg.Import.Sheet
	}

	report := ingest.NewIngester(a.store, a.logger).IngestFile(ctx, args[0], ingest.Options{Sheet: sheet})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Taught:  %d\n", report.Taught)
	fmt.Fprintf(out, "Skipped: %d\n", report.Skipped)
	for _, w := range report.Warnings() {
		fmt.Fprintf(out, "  ! %s\n", w)
	}

	if report.SourceErr != nil {
		return fmt.Errorf("import %s: %w", args[0], report.SourceErr)
	}
	return nil
}
