// Package invoice handles the invoice reading command
package invoice

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/bilanci/cmd/common"
	"fjacquet/bilanci/cmd/root"
	"fjacquet/bilanci/internal/logging"

	"github.com/spf13/cobra"
)

var strict bool

// Cmd represents the invoice command
var Cmd = &cobra.Command{
	Use:   "invoice",
	Short: "Read an invoice from a PDF or text document",
	Long: `Read supplier, customer, number, dates, totals and line items from an invoice.

The reading is heuristic and carries a confidence score. With --strict the command
fails when the score is below invoice.min_confidence.

Example:
  bilanci invoice -i fattura.pdf
  bilanci invoice -i fattura.pdf -o righe.csv`,
	RunE: invoiceFunc,
}

func init() {
	Cmd.Flags().BoolVar(&strict, "strict", false, "Fail when the confidence is below the configured threshold")
}

func invoiceFunc(cmd *cobra.Command, args []string) error {
	logger := root.GetLogger()
	input := root.SharedFlags.Input
	if input == "" && len(args) > 0 {
		input = args[0]
	}
	if input == "" {
		return fmt.Errorf("an input file is required")
	}

	appContainer := root.GetContainer()
	if appContainer == nil {
		return fmt.Errorf("container not initialized")
	}
	a := appContainer.GetAnalyzer()

	f, err := os.Open(input) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", input, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.WithError(cerr).Warn("Failed to close input file")
		}
	}()

	inv, err := a.InvoiceFromDocument(root.Context(cmd), filepath.Base(input), f)
	if err != nil {
		return fmt.Errorf("error reading invoice %s: %w", input, err)
	}

	accepted := inv.Accepted(a.MinConfidence())
	logger.Info("Invoice read",
		logging.Field{Key: logging.FieldFile, Value: input},
		logging.Field{Key: logging.FieldConfidence, Value: inv.Confidence},
		logging.Field{Key: "accepted", Value: accepted})
	if strict && !accepted {
		return fmt.Errorf("invoice confidence %d is below the threshold %d", inv.Confidence, a.MinConfidence())
	}

	return common.ExportInvoice(appContainer.GetExporter(), inv,
		root.SharedFlags.Output, root.SharedFlags.Format, cmd.OutOrStdout(), logger)
}
