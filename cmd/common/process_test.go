package common_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/bilanci/cmd/common"
	"fjacquet/bilanci/internal/logging"
	"fjacquet/bilanci/internal/models"
	"fjacquet/bilanci/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockExporter implements common.Exporter for testing
type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(w io.Writer, a *models.Analysis, format report.Format) error {
	args := m.Called(w, a, format)
	if err := args.Error(0); err != nil {
		return err
	}
	_, err := io.WriteString(w, "exported:"+string(format))
	return err
}

func (m *MockExporter) ExportInvoice(w io.Writer, inv *models.InvoiceRecord, format report.Format) error {
	args := m.Called(w, inv, format)
	if err := args.Error(0); err != nil {
		return err
	}
	_, err := io.WriteString(w, "invoice:"+string(format))
	return err
}

func sampleAnalysis() *models.Analysis {
	a := models.NewAnalysis("bilancio.pdf", models.FileTypePDF)
	a.Record = models.FinancialRecord{
		TotalRevenue: 1234567.891,
		TotalCosts:   1000000,
		NetIncome:    150000,
		EBITDA:       200000,
		NetMargin:    0.125,
		ROI:          0.05,
		CurrentRatio: 1.5,
	}
	a.Changes = models.ChangeIndicators{RevenueChange: 4.2, EBITDAChange: -3.1}
	a.Insights = []models.Insight{{Kind: models.InsightPositive, Title: "Margine Positivo", Description: "ok"}}
	return a
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		output   string
		expected report.Format
		wantErr  bool
	}{
		{name: "flag wins", flag: "yaml", output: "out.csv", expected: report.FormatYAML},
		{name: "from extension", output: "out/analisi.xlsx", expected: report.FormatXLSX},
		{name: "unknown extension", output: "analisi.dat", expected: report.FormatJSON},
		{name: "stdout", expected: report.FormatJSON},
		{name: "bad flag", flag: "pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := common.ResolveFormat(tt.flag, tt.output)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExportAnalysis_Summary(t *testing.T) {
	exporter := &MockExporter{}
	var stdout bytes.Buffer

	require.NoError(t, common.ExportAnalysis(exporter, sampleAnalysis(), "", "", &stdout, logging.NewMockLogger()))

	out := stdout.String()
	assert.Contains(t, out, "€ 1.234.567,89")
	assert.Contains(t, out, "+4,2%")
	assert.Contains(t, out, "-3,1%")
	assert.Contains(t, out, "12,5%")
	assert.Contains(t, out, "[positive] Margine Positivo: ok")
	exporter.AssertNotCalled(t, "Export", mock.Anything, mock.Anything, mock.Anything)
}

func TestExportAnalysis_ToStdoutWithFormat(t *testing.T) {
	exporter := &MockExporter{}
	exporter.On("Export", mock.Anything, mock.Anything, report.FormatCSV).Return(nil)
	var stdout bytes.Buffer

	require.NoError(t, common.ExportAnalysis(exporter, sampleAnalysis(), "", "csv", &stdout, logging.NewMockLogger()))
	assert.Equal(t, "exported:csv", stdout.String())
	exporter.AssertExpectations(t)
}

func TestExportAnalysis_ToFile(t *testing.T) {
	exporter := &MockExporter{}
	exporter.On("Export", mock.Anything, mock.Anything, report.FormatYAML).Return(nil)
	logger := logging.NewMockLogger()
	output := filepath.Join(t.TempDir(), "nested", "analisi.yaml")

	require.NoError(t, common.ExportAnalysis(exporter, sampleAnalysis(), output, "", io.Discard, logger))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "exported:yaml", string(data))
	assert.True(t, logger.HasEntry("INFO", "Wrote output file"))
	exporter.AssertExpectations(t)
}

func TestExportAnalysis_ExporterError(t *testing.T) {
	exporter := &MockExporter{}
	failure := errors.New("disk full")
	exporter.On("Export", mock.Anything, mock.Anything, report.FormatJSON).Return(failure)

	err := common.ExportAnalysis(exporter, sampleAnalysis(), filepath.Join(t.TempDir(), "a.json"), "", io.Discard, logging.NewMockLogger())
	assert.ErrorIs(t, err, failure)
}

func TestExportInvoice(t *testing.T) {
	exporter := &MockExporter{}
	exporter.On("ExportInvoice", mock.Anything, mock.Anything, report.FormatJSON).Return(nil)
	var stdout bytes.Buffer

	inv := &models.InvoiceRecord{InvoiceNumber: "2024/015", Confidence: 3}
	require.NoError(t, common.ExportInvoice(exporter, inv, "", "", &stdout, logging.NewMockLogger()))
	assert.Equal(t, "invoice:json", stdout.String())

	assert.Error(t, common.ExportInvoice(exporter, inv, "", "excel2", &stdout, logging.NewMockLogger()))
}

func TestPrintSummary_Invoice(t *testing.T) {
	a := sampleAnalysis()
	a.Invoice = &models.InvoiceRecord{
		InvoiceNumber: "2024/015",
		SupplierName:  "Alfa S.r.l.",
		Total:         1220,
		Confidence:    4,
		Items:         []models.InvoiceLineItem{{Description: "Consulenza"}},
	}

	var buf bytes.Buffer
	require.NoError(t, common.PrintSummary(&buf, a))
	assert.Contains(t, buf.String(), "Fattura 2024/015 del -, Alfa S.r.l.: totale € 1.220,00 (affidabilità 4, 1 righe)")
}
