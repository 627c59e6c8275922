// Package batch handles batch processing of files
package batch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"fjacquet/bilanci/cmd/common"
	"fjacquet/bilanci/cmd/root"
	"fjacquet/bilanci/internal/batch"
	"fjacquet/bilanci/internal/fileutils"
	"fjacquet/bilanci/internal/ingest"
	"fjacquet/bilanci/internal/logging"
	"fjacquet/bilanci/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch analyze documents from a directory",
	Long: `Analyze every supported document (PDF, TXT, CSV, XLSX) in an input directory
and write one report per document to the output directory.

Documents are analyzed concurrently (batch.workers, default one per CPU). A document
that fails, including a ledger that needs a column mapping, is reported and skipped.

Example:
  bilanci batch -i bilanci/ -o report/ -f xlsx`,
	RunE: batchFunc,
}

// Summary counts the outcome of a batch run.
type Summary struct {
	Written int
	Failed  int
}

func batchFunc(cmd *cobra.Command, args []string) error {
	logger := root.GetLogger()
	inputDir := root.SharedFlags.Input
	outputDir := root.SharedFlags.Output
	if inputDir == "" || outputDir == "" {
		return fmt.Errorf("input and output directories must be specified")
	}

	format := report.FormatJSON
	if root.SharedFlags.Format != "" {
		f, err := report.ParseFormat(root.SharedFlags.Format)
		if err != nil {
			return err
		}
		format = f
	}

	appContainer := root.GetContainer()
	if appContainer == nil {
		return fmt.Errorf("container not initialized")
	}

	summary, err := Run(root.Context(cmd), inputDir, outputDir, format,
		appContainer.GetBatchProcessor(), appContainer.GetAnalyzer().AnalyzeFile, appContainer.GetExporter(), logger)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Batch processing completed: %d reports written, %d failed.\n",
		summary.Written, summary.Failed)
	return err
}

// Run analyzes every supported file of inputDir and writes a report per
// file into outputDir, named after the source with the format extension.
func Run(ctx context.Context, inputDir, outputDir string, format report.Format,
	processor *batch.ConcurrentProcessor, analyze batch.AnalyzeFunc, exporter common.Exporter,
	logger logging.Logger) (Summary, error) {
	files, err := fileutils.ListFilesWithExtensions(inputDir, ingest.SupportedExtensions...)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read input directory: %w", err)
	}
	if len(files) == 0 {
		logger.Warn("No supported files found in input directory",
			logging.Field{Key: logging.FieldFile, Value: inputDir})
		return Summary{}, nil
	}
	if err := fileutils.EnsureDirectoryExists(outputDir); err != nil {
		return Summary{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	logger.Info("Found files for processing", logging.Field{Key: logging.FieldCount, Value: len(files)})

	var summary Summary
	for _, result := range processor.Process(ctx, files, analyze) {
		if result.Err != nil {
			logger.WithError(result.Err).Warn("Skipping document",
				logging.Field{Key: logging.FieldFile, Value: result.Path})
			summary.Failed++
			continue
		}

		output := filepath.Join(outputDir, fileutils.ReplaceExtension(filepath.Base(result.Path), format.Extension()))
		analysis := result.Analysis
		err := common.WriteOutput(output, io.Discard, func(w io.Writer) error {
			return exporter.Export(w, analysis, format)
		}, logger)
		if err != nil {
			logger.WithError(err).Error("Failed to write report",
				logging.Field{Key: logging.FieldOutputFile, Value: output})
			summary.Failed++
			continue
		}
		summary.Written++
	}
	return summary, nil
}
