package report

import (
	"fmt"
	"io"

	"fjacquet/bilanci/internal/currencyutils"
	"fjacquet/bilanci/internal/models"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the XLSX export.
const (
	SheetMetrics = "Analisi Finanziaria"
	SheetHistory = "Storico"
	SheetInvoice = "Fattura"
)

func writeXLSX(w io.Writer, a *models.Analysis) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetMetrics); err != nil {
		return fmt.Errorf("failed to name metrics sheet: %w", err)
	}

	metricRows := [][]interface{}{{"Metrica", "Valore"}}
	for _, m := range MetricRows(a.Record) {
		metricRows = append(metricRows, []interface{}{m.Metric, currencyutils.Round2(m.Value)})
	}
	if err := writeRows(f, SheetMetrics, metricRows); err != nil {
		return err
	}

	historyRows := [][]interface{}{{"Mese", "Ricavi", "Costi", "Utile"}}
	for _, p := range a.Record.HistoricalData {
		historyRows = append(historyRows, []interface{}{p.Month, p.Revenue, p.Costs, p.Profit})
	}
	if err := addSheet(f, SheetHistory, historyRows); err != nil {
		return err
	}

	if a.Invoice != nil {
		if err := addSheet(f, SheetInvoice, invoiceRows(a.Invoice)); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func invoiceRows(inv *models.InvoiceRecord) [][]interface{} {
	rows := [][]interface{}{
		{"Fornitore", inv.SupplierName},
		{"P.IVA Fornitore", inv.SupplierVAT},
		{"Cliente", inv.CustomerName},
		{"P.IVA Cliente", inv.CustomerVAT},
		{"Numero", inv.InvoiceNumber},
		{"Data", inv.Date},
		{"Scadenza", inv.DueDate},
		{"Valuta", inv.Currency},
		{"Imponibile", inv.Subtotal},
		{"IVA", inv.TaxTotal},
		{"Totale", inv.Total},
		{"Affidabilità", inv.Confidence},
		{},
		{"Descrizione", "Quantità", "Prezzo Unitario", "IVA (%)", "Importo"},
	}
	for _, it := range inv.Items {
		rows = append(rows, []interface{}{it.Description, cell(it.Quantity), cell(it.UnitPrice), cell(it.TaxRate), cell(it.Amount)})
	}
	return rows
}

// cell leaves unknown figures blank instead of writing 0.
func cell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func addSheet(f *excelize.File, name string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("invalid cell for row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cellName, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
