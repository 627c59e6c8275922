// Package analyze handles the single document analysis command
package analyze

import (
	"errors"
	"fmt"

	"fjacquet/bilanci/cmd/common"
	"fjacquet/bilanci/cmd/root"
	"fjacquet/bilanci/internal/logging"
	"fjacquet/bilanci/internal/parsererror"

	"github.com/spf13/cobra"
)

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a financial statement or ledger",
	Long: `Analyze a PDF or text financial statement, or a CSV/XLSX ledger, and report the
extracted figures, the derived ratios and the synthetic monthly trend.

Without --output or --format a readable summary is printed. Ledgers whose rows carry
no recognisable label need an explicit column mapping, see "bilanci map".

Example:
  bilanci analyze -i bilancio.pdf
  bilanci analyze -i bilancio.pdf -o analisi.xlsx`,
	RunE: analyzeFunc,
}

func analyzeFunc(cmd *cobra.Command, args []string) error {
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

	logger.Info("Analyzing document", logging.Field{Key: logging.FieldFile, Value: input})
	analysis, err := appContainer.GetAnalyzer().AnalyzeFile(root.Context(cmd), input)
	if err != nil {
		var mapping *parsererror.MappingRequiredError
		if errors.As(err, &mapping) {
			return fmt.Errorf("%w\nrun: bilanci map -i %s --map field=column", err, input)
		}
		return fmt.Errorf("error analyzing %s: %w", input, err)
	}

	return common.ExportAnalysis(appContainer.GetExporter(), analysis,
		root.SharedFlags.Output, root.SharedFlags.Format, cmd.OutOrStdout(), logger)
}
