// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"fjacquet/bilanci/internal/currencyutils"
	"fjacquet/bilanci/internal/fileutils"
	"fjacquet/bilanci/internal/logging"
	"fjacquet/bilanci/internal/models"
	"fjacquet/bilanci/internal/report"
)

// Exporter writes analyses and invoices in a report format.
type Exporter interface {
	Export(w io.Writer, a *models.Analysis, format report.Format) error
	ExportInvoice(w io.Writer, inv *models.InvoiceRecord, format report.Format) error
}

// ResolveFormat picks the output format: the flag when set, otherwise the
// extension of output, otherwise JSON.
func ResolveFormat(flag, output string) (report.Format, error) {
	if flag != "" {
		return report.ParseFormat(flag)
	}
	if ext := strings.TrimPrefix(filepath.Ext(output), "."); ext != "" {
		if f, err := report.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return report.FormatJSON, nil
}

// WriteOutput calls write with output opened for writing, or with stdout
// when output is empty. Parent directories are created as needed.
func WriteOutput(output string, stdout io.Writer, write func(io.Writer) error, logger logging.Logger) error {
	if output == "" {
		return write(stdout)
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := fileutils.EnsureDirectoryExists(dir); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// #nosec G304 -- CLI tool requires user-provided output paths
	file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, models.PermissionFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			logger.WithError(cerr).Warn("Failed to close output file",
				logging.Field{Key: logging.FieldOutputFile, Value: output})
		}
	}()

	if err := write(file); err != nil {
		return err
	}
	logger.Info("Wrote output file", logging.Field{Key: logging.FieldOutputFile, Value: output})
	return nil
}

// ExportAnalysis writes a to output. With neither an output file nor an
// explicit format, a readable summary goes to stdout instead.
func ExportAnalysis(e Exporter, a *models.Analysis, output, format string, stdout io.Writer, logger logging.Logger) error {
	if output == "" && format == "" {
		return PrintSummary(stdout, a)
	}
	f, err := ResolveFormat(format, output)
	if err != nil {
		return err
	}
	return WriteOutput(output, stdout, func(w io.Writer) error {
		return e.Export(w, a, f)
	}, logger)
}

// ExportInvoice writes inv to output, JSON unless told otherwise.
func ExportInvoice(e Exporter, inv *models.InvoiceRecord, output, format string, stdout io.Writer, logger logging.Logger) error {
	f, err := ResolveFormat(format, output)
	if err != nil {
		return err
	}
	return WriteOutput(output, stdout, func(w io.Writer) error {
		return e.ExportInvoice(w, inv, f)
	}, logger)
}

// PrintSummary writes the headline figures, ratios and insights of a in
// Italian display format.
func PrintSummary(w io.Writer, a *models.Analysis) error {
	r := a.Record
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Analisi\t%s (%s)\n", a.SourceFile, a.FileType)
	fmt.Fprintf(tw, "Ricavi Totali\t%s\t%s\n", currencyutils.FormatAmount(r.TotalRevenue), signed(a.Changes.RevenueChange))
	fmt.Fprintf(tw, "Costi Totali\t%s\n", currencyutils.FormatAmount(r.TotalCosts))
	fmt.Fprintf(tw, "Utile Netto\t%s\n", currencyutils.FormatAmount(r.NetIncome))
	fmt.Fprintf(tw, "EBITDA\t%s\t%s\n", currencyutils.FormatAmount(r.EBITDA), signed(a.Changes.EBITDAChange))
	fmt.Fprintf(tw, "Margine Netto\t%s\t%s\n", currencyutils.FormatPercent(r.NetMargin), signed(a.Changes.NetMarginChange))
	fmt.Fprintf(tw, "ROI\t%s\t%s\n", currencyutils.FormatPercent(r.ROI), signed(a.Changes.ROIChange))
	fmt.Fprintf(tw, "Current Ratio\t%s\n", currencyutils.FormatNumber(r.CurrentRatio, 2))
	fmt.Fprintf(tw, "Debt/Equity\t%s\n", currencyutils.FormatNumber(r.DebtToEquity, 2))
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	for _, in := range a.Insights {
		if _, err := fmt.Fprintf(w, "[%s] %s: %s\n", in.Kind, in.Title, in.Description); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	if inv := a.Invoice; inv != nil {
		_, err := fmt.Fprintf(w, "Fattura %s del %s, %s: totale %s (affidabilità %d, %d righe)\n",
			orDash(inv.InvoiceNumber), orDash(inv.Date), orDash(inv.SupplierName),
			currencyutils.FormatAmount(inv.Total), inv.Confidence, len(inv.Items))
		if err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return nil
}

func signed(pct float64) string {
	s := currencyutils.FormatNumber(pct, 1) + "%"
	if pct > 0 {
		return "+" + s
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
