// Package report exports analyses as JSON, YAML, CSV or XLSX.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fjacquet/bilanci/internal/logging"
	"fjacquet/bilanci/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Format is an export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported export format.
var Formats = []Format{FormatJSON, FormatYAML, FormatCSV, FormatXLSX}

// ParseFormat resolves a format name, case-insensitively. "yml" is
// accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", s)
	}
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// MetricRow is one line of the metric summary shared by the CSV and XLSX
// exports. Percent rows are already multiplied by 100.
type MetricRow struct {
	Metric string
	Value  float64
}

// metricCSVRow renders a MetricRow for gocsv with a fixed two decimals.
type metricCSVRow struct {
	Metric string `csv:"Metrica"`
	Value  string `csv:"Valore"`
}

// MetricRows returns the headline figures of r in display order.
func MetricRows(r models.FinancialRecord) []MetricRow {
	return []MetricRow{
		{Metric: "Ricavi Totali", Value: r.TotalRevenue},
		{Metric: "Costi Totali", Value: r.TotalCosts},
		{Metric: "Utile Netto", Value: r.NetIncome},
		{Metric: "EBITDA", Value: r.EBITDA},
		{Metric: "Margine Netto (%)", Value: r.NetMargin * 100},
		{Metric: "ROI (%)", Value: r.ROI * 100},
		{Metric: "Current Ratio", Value: r.CurrentRatio},
	}
}

// Exporter writes analyses in the supported formats.
type Exporter struct {
	delimiter rune
	logger    logging.Logger
}

// NewExporter creates an exporter writing CSV with delimiter. A zero
// delimiter means comma.
func NewExporter(delimiter rune, logger logging.Logger) *Exporter {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Exporter{delimiter: delimiter, logger: logging.OrDefault(logger)}
}

// Export writes a to w in format.
func (e *Exporter) Export(w io.Writer, a *models.Analysis, format Format) error {
	if a == nil {
		return fmt.Errorf("cannot export a nil analysis")
	}

	var err error
	switch format {
	case FormatJSON:
		err = writeJSON(w, a)
	case FormatYAML:
		err = writeYAML(w, a)
	case FormatCSV:
		err = e.writeMetricsCSV(w, a.Record)
	case FormatXLSX:
		err = writeXLSX(w, a)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
	if err != nil {
		e.logger.WithError(err).Error("Failed to export analysis",
			logging.Field{Key: logging.FieldFormat, Value: string(format)})
		return err
	}

	e.logger.Debug("Exported analysis",
		logging.Field{Key: logging.FieldAnalysisID, Value: a.ID.String()},
		logging.Field{Key: logging.FieldFormat, Value: string(format)})
	return nil
}

// ExportInvoice writes an invoice reading. CSV carries only the item table;
// XLSX is not offered for an invoice on its own.
func (e *Exporter) ExportInvoice(w io.Writer, inv *models.InvoiceRecord, format Format) error {
	if inv == nil {
		return fmt.Errorf("cannot export a nil invoice")
	}
	switch format {
	case FormatJSON:
		return writeJSON(w, inv)
	case FormatYAML:
		return writeYAML(w, inv)
	case FormatCSV:
		return e.WriteItemsCSV(w, inv.Items)
	default:
		return fmt.Errorf("unsupported invoice format: %s", format)
	}
}

// WriteItemsCSV writes invoice line items with a header row.
func (e *Exporter) WriteItemsCSV(w io.Writer, items []models.InvoiceLineItem) error {
	if items == nil {
		items = []models.InvoiceLineItem{}
	}
	if err := gocsv.MarshalCSV(items, e.csvWriter(w)); err != nil {
		return fmt.Errorf("error writing invoice items CSV: %w", err)
	}
	return nil
}

func (e *Exporter) writeMetricsCSV(w io.Writer, r models.FinancialRecord) error {
	metrics := MetricRows(r)
	rows := make([]metricCSVRow, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, metricCSVRow{Metric: m.Metric, Value: decimal.NewFromFloat(m.Value).StringFixed(2)})
	}
	if err := gocsv.MarshalCSV(rows, e.csvWriter(w)); err != nil {
		return fmt.Errorf("error writing metrics CSV: %w", err)
	}
	return nil
}

func (e *Exporter) csvWriter(w io.Writer) *gocsv.SafeCSVWriter {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = e.delimiter
	return gocsv.NewSafeCSVWriter(csvWriter)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush YAML report: %w", err)
	}
	return nil
}
