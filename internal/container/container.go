// Package container provides dependency injection for the bilanci application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/bilanci/internal/analyzer"
	"fjacquet/bilanci/internal/batch"
	"fjacquet/bilanci/internal/config"
	"fjacquet/bilanci/internal/history"
	"fjacquet/bilanci/internal/ingest"
	"fjacquet/bilanci/internal/invoice"
	"fjacquet/bilanci/internal/keywords"
	"fjacquet/bilanci/internal/logging"
	"fjacquet/bilanci/internal/pdfparser"
	"fjacquet/bilanci/internal/report"
	"fjacquet/bilanci/internal/statement"
	"fjacquet/bilanci/internal/store"
	"fjacquet/bilanci/internal/tabular"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	keywords *keywords.Tables
	analyses *store.AnalysisStore
	analyzer *analyzer.Analyzer
	exporter *report.Exporter
	batch    *batch.ConcurrentProcessor
}

// NewContainer creates and wires all application dependencies.
//
// Parameters:
//   - cfg: Application configuration
//
// Returns:
//   - *Container: Fully wired container with all dependencies
//   - error: Any error encountered during dependency creation
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := config.ConfigureLoggingFromConfig(cfg)

	tables, err := store.NewKeywordStore(cfg.Keywords.File, logger).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load keyword tables: %w", err)
	}

	var synth *history.Synthesizer
	if cfg.History.Seed != 0 {
		synth = history.NewSeededSynthesizer(cfg.History.Seed)
	} else {
		synth = history.NewSynthesizer(nil)
	}

	pdf := pdfparser.NewRealPDFExtractor(cfg.PDF.LineTolerance, logger)
	analyses := store.NewAnalysisStore(cfg.Data.Directory, logger)

	a := analyzer.New(analyzer.Options{
		Decoder:       ingest.NewDecoder(pdf, cfg.MaxFileSizeBytes(), logger),
		Statement:     statement.NewExtractor(tables.Strict, logger),
		Mapper:        tabular.NewMapper(tables.Loose, logger),
		Invoices:      invoice.NewExtractor(logger),
		History:       synth,
		Repository:    analyses,
		MinConfidence: cfg.Invoice.MinConfidence,
		Logger:        logger,
	})

	var delimiter rune
	if cfg.CSV.Delimiter != "" {
		delimiter = []rune(cfg.CSV.Delimiter)[0]
	}

	logger.Info("Container initialized successfully",
		logging.Field{Key: "data_directory", Value: analyses.Path()},
		logging.Field{Key: "seeded_history", Value: cfg.History.Seed != 0})

	return &Container{
		logger:   logger,
		config:   cfg,
		keywords: tables,
		analyses: analyses,
		analyzer: a,
		exporter: report.NewExporter(delimiter, logger),
		batch:    batch.NewConcurrentProcessor(cfg.Batch.Workers, logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetKeywords returns the keyword tables the extractors were built with.
func (c *Container) GetKeywords() *keywords.Tables {
	return c.keywords
}

// GetAnalysisStore returns the store holding the last analysis.
func (c *Container) GetAnalysisStore() *store.AnalysisStore {
	return c.analyses
}

// GetAnalyzer returns the extraction pipeline.
func (c *Container) GetAnalyzer() *analyzer.Analyzer {
	return c.analyzer
}

// GetExporter returns the report exporter.
func (c *Container) GetExporter() *report.Exporter {
	return c.exporter
}

// GetBatchProcessor returns the worker pool used for directory analyses.
func (c *Container) GetBatchProcessor() *batch.ConcurrentProcessor {
	return c.batch
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Info("Container closed")
	return nil
}
