// Package analyzer runs the extraction pipeline: decode a document, pull the
// base figures from its text or rows, derive the ratios, add the synthetic
// history and, for text sources, attempt an invoice reading.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"fjacquet/bilanci/internal/history"
	"fjacquet/bilanci/internal/ingest"
	"fjacquet/bilanci/internal/invoice"
	"fjacquet/bilanci/internal/logging"
	"fjacquet/bilanci/internal/metrics"
	"fjacquet/bilanci/internal/models"
	"fjacquet/bilanci/internal/parsererror"
	"fjacquet/bilanci/internal/statement"
	"fjacquet/bilanci/internal/store"
	"fjacquet/bilanci/internal/tabular"
)

// Analyzer wires the extraction components together. It holds no per
// document state and may be shared between goroutines.
type Analyzer struct {
	decoder       *ingest.Decoder
	statement     *statement.Extractor
	mapper        *tabular.Mapper
	invoices      *invoice.Extractor
	history       *history.Synthesizer
	repo          store.AnalysisRepository
	minConfidence int
	logger        logging.Logger
}

// Options configures an Analyzer. Nil components fall back to their
// defaults; a nil Repository disables persistence. A MinConfidence of zero
// or less means models.DefaultMinConfidence.
type Options struct {
	Decoder       *ingest.Decoder
	Statement     *statement.Extractor
	Mapper        *tabular.Mapper
	Invoices      *invoice.Extractor
	History       *history.Synthesizer
	Repository    store.AnalysisRepository
	MinConfidence int
	Logger        logging.Logger
}

// New creates an Analyzer from opts.
func New(opts Options) *Analyzer {
	logger := logging.OrDefault(opts.Logger)
	a := &Analyzer{
		decoder:       opts.Decoder,
		statement:     opts.Statement,
		mapper:        opts.Mapper,
		invoices:      opts.Invoices,
		history:       opts.History,
		repo:          opts.Repository,
		minConfidence: opts.MinConfidence,
		logger:        logger,
	}
	if a.decoder == nil {
		a.decoder = ingest.NewDecoder(nil, 0, logger)
	}
	if a.statement == nil {
		a.statement = statement.NewExtractor(nil, logger)
	}
	if a.mapper == nil {
		a.mapper = tabular.NewMapper(nil, logger)
	}
	if a.invoices == nil {
		a.invoices = invoice.NewExtractor(logger)
	}
	if a.history == nil {
		a.history = history.NewSynthesizer(nil)
	}
	if a.minConfidence <= 0 {
		a.minConfidence = models.DefaultMinConfidence
	}
	return a
}

// AnalyzeFile analyzes the file at path. The size guard is checked on the
// file metadata before anything is read.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*models.Analysis, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, &parsererror.InvalidFormatError{FilePath: path, ExpectedFormat: "file", Msg: "path is a directory"}
	}
	if info.Size() > a.decoder.MaxSize() {
		return nil, &parsererror.FileTooLargeError{FilePath: path, Size: info.Size(), Limit: a.decoder.MaxSize()}
	}

	f, err := os.Open(path) // #nosec G304 -- path is supplied by the user
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			a.logger.WithError(cerr).Warn("Failed to close input file",
				logging.Field{Key: logging.FieldFile, Value: path})
		}
	}()

	return a.Analyze(ctx, filepath.Base(path), f)
}

// Analyze decodes r and runs the pipeline. Tabular sources without any
// recognised label return a *parsererror.MappingRequiredError.
func (a *Analyzer) Analyze(ctx context.Context, name string, r io.Reader) (*models.Analysis, error) {
	start := time.Now()

	doc, err := a.decoder.Decode(ctx, name, r)
	if err != nil {
		return nil, err
	}

	var analysis *models.Analysis
	if doc.Type.Tabular() {
		analysis, err = a.AnalyzeRows(doc.Name, doc.Type, doc.Rows)
		if err != nil {
			return nil, err
		}
	} else {
		analysis = a.AnalyzeText(doc.Name, doc.Type, doc.Text)
	}

	a.logger.Info("Analysis completed",
		logging.Field{Key: logging.FieldFile, Value: name},
		logging.Field{Key: logging.FieldAnalysisID, Value: analysis.ID.String()},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return analysis, nil
}

// AnalyzeText extracts the statement figures from text and attaches the
// invoice reading when it reaches the confidence threshold. Empty text
// yields a zero-filled record.
func (a *Analyzer) AnalyzeText(name string, fileType models.FileType, text string) *models.Analysis {
	analysis := models.NewAnalysis(name, fileType)
	a.finalize(analysis, a.statement.Extract(text))

	if inv := a.ExtractInvoice(text); inv.Accepted(a.minConfidence) {
		analysis.Invoice = inv
	}

	a.persist(analysis)
	return analysis
}

// AnalyzeRows auto-detects the figures from label/value rows. When nothing
// is recognised the caller has to supply a column mapping for the header.
func (a *Analyzer) AnalyzeRows(name string, fileType models.FileType, rows []tabular.Row) (*models.Analysis, error) {
	record := a.mapper.MapRows(rows)
	if record.IsEmpty() {
		headers := tabular.Headers(rows)
		a.logger.Info("No financial labels detected, column mapping required",
			logging.Field{Key: logging.FieldFile, Value: name},
			logging.Field{Key: logging.FieldCount, Value: len(headers)})
		return nil, &parsererror.MappingRequiredError{FilePath: name, Headers: headers}
	}

	analysis := models.NewAnalysis(name, fileType)
	a.finalize(analysis, record)
	a.persist(analysis)
	return analysis, nil
}

// ApplyMapping builds the analysis from a user supplied column mapping. The
// first row is the header and is excluded from the sums.
func (a *Analyzer) ApplyMapping(name string, fileType models.FileType, rows []tabular.Row, mapping models.ColumnMapping) *models.Analysis {
	analysis := models.NewAnalysis(name, fileType)
	a.finalize(analysis, a.mapper.ApplyMapping(tabular.DataRows(rows), mapping))
	a.persist(analysis)
	return analysis
}

// MapDocument decodes a tabular document and applies mapping to it.
func (a *Analyzer) MapDocument(ctx context.Context, name string, r io.Reader, mapping models.ColumnMapping) (*models.Analysis, error) {
	doc, err := a.decoder.Decode(ctx, name, r)
	if err != nil {
		return nil, err
	}
	if !doc.Type.Tabular() {
		return nil, &parsererror.InvalidFormatError{FilePath: name, ExpectedFormat: "CSV or XLSX", Msg: "column mapping needs a tabular file"}
	}
	if err := tabular.ValidateMapping(mapping, tabular.Headers(doc.Rows)); err != nil {
		return nil, err
	}
	return a.ApplyMapping(doc.Name, doc.Type, doc.Rows, mapping), nil
}

// MapDocumentAssignments is MapDocument with "field=column" assignments, where a
// column may name a header label.
func (a *Analyzer) MapDocumentAssignments(ctx context.Context, name string, r io.Reader, assignments []string) (*models.Analysis, error) {
	doc, err := a.decoder.Decode(ctx, name, r)
	if err != nil {
		return nil, err
	}
	if !doc.Type.Tabular() {
		return nil, &parsererror.InvalidFormatError{FilePath: name, ExpectedFormat: "CSV or XLSX", Msg: "column mapping needs a tabular file"}
	}
	mapping, err := tabular.ParseMapping(assignments, tabular.Headers(doc.Rows))
	if err != nil {
		return nil, err
	}
	return a.ApplyMapping(doc.Name, doc.Type, doc.Rows, mapping), nil
}

// ExtractInvoice reads text as an invoice regardless of the threshold.
// It returns nil for blank text.
func (a *Analyzer) ExtractInvoice(text string) *models.InvoiceRecord {
	return a.invoices.Extract(text)
}

// InvoiceFromDocument decodes a text document and reads it as an invoice.
func (a *Analyzer) InvoiceFromDocument(ctx context.Context, name string, r io.Reader) (*models.InvoiceRecord, error) {
	doc, err := a.decoder.Decode(ctx, name, r)
	if err != nil {
		return nil, err
	}
	if doc.Type.Tabular() {
		return nil, &parsererror.InvalidFormatError{FilePath: name, ExpectedFormat: "PDF or TXT", Msg: "invoice reading needs a text document"}
	}
	return a.ExtractInvoice(doc.Text), nil
}

// MinConfidence returns the invoice acceptance threshold.
func (a *Analyzer) MinConfidence() int {
	return a.minConfidence
}

// Last returns the most recently persisted analysis.
func (a *Analyzer) Last() (*models.Analysis, error) {
	if a.repo == nil {
		return nil, store.ErrNoAnalysis
	}
	return a.repo.Last()
}

func (a *Analyzer) finalize(analysis *models.Analysis, record models.FinancialRecord) {
	record = metrics.Derive(record)
	record.HistoricalData = a.history.Synthesize(record)

	analysis.Record = record
	analysis.Insights = metrics.Insights(record)
	analysis.Changes = a.history.Changes(record)
}

// persist stores the analysis; a failure is logged and does not fail the run.
func (a *Analyzer) persist(analysis *models.Analysis) {
	if a.repo == nil {
		return
	}
	if err := a.repo.Save(analysis); err != nil {
		a.logger.WithError(err).Warn("Failed to persist analysis",
			logging.Field{Key: logging.FieldAnalysisID, Value: analysis.ID.String()})
	}
}
