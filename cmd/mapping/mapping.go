// Package mapping handles the column mapping command for ledgers
package mapping

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/bilanci/cmd/common"
	"fjacquet/bilanci/cmd/root"
	"fjacquet/bilanci/internal/logging"

	"github.com/spf13/cobra"
)

var assignments []string

// Cmd represents the map command
var Cmd = &cobra.Command{
	Use:   "map",
	Short: "Analyze a CSV/XLSX ledger with an explicit column mapping",
	Long: `Analyze a ledger by summing the data rows of the columns assigned to each field.
The first row is the header. A column is a zero based index or a header label.

Fields: totalRevenue, totalCosts, netIncome, currentAssets, currentLiabilities,
totalAssets, totalEquity, amortization. EBITDA and the ratios are always derived.

Example:
  bilanci map -i movimenti.csv --map totalRevenue=Entrate --map totalCosts=3`,
	RunE: mapFunc,
}

func init() {
	Cmd.Flags().StringArrayVarP(&assignments, "map", "m", nil, "Field to column assignment (field=column), repeatable")
}

func mapFunc(cmd *cobra.Command, args []string) error {
	logger := root.GetLogger()
	input := root.SharedFlags.Input
	if input == "" && len(args) > 0 {
		input = args[0]
	}
	if input == "" {
		return fmt.Errorf("an input file is required")
	}
	if len(assignments) == 0 {
		return fmt.Errorf("at least one --map field=column assignment is required")
	}

	appContainer := root.GetContainer()
	if appContainer == nil {
		return fmt.Errorf("container not initialized")
	}

	f, err := os.Open(input) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", input, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.WithError(cerr).Warn("Failed to close input file")
		}
	}()

	analysis, err := appContainer.GetAnalyzer().MapDocumentAssignments(root.Context(cmd), filepath.Base(input), f, assignments)
	if err != nil {
		return fmt.Errorf("error mapping %s: %w", input, err)
	}
	logger.Info("Applied column mapping",
		logging.Field{Key: logging.FieldFile, Value: input},
		logging.Field{Key: logging.FieldCount, Value: len(assignments)})

	return common.ExportAnalysis(appContainer.GetExporter(), analysis,
		root.SharedFlags.Output, root.SharedFlags.Format, cmd.OutOrStdout(), logger)
}
