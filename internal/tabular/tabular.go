// Package tabular maps spreadsheet style rows onto a FinancialRecord, either
// by matching row labels against the loose keyword table or by applying a
// column mapping chosen by the user.
package tabular

import (
	"math"
	"strings"

	"fjacquet/bilanci/internal/currencyutils"
	"fjacquet/bilanci/internal/keywords"
	"fjacquet/bilanci/internal/logging"
	"fjacquet/bilanci/internal/models"

	"github.com/shopspring/decimal"
)

// Row is one decoded line of a CSV or spreadsheet.
type Row []string

// Mapper aggregates rows into base figures.
type Mapper struct {
	table  keywords.Table
	logger logging.Logger
}

// NewMapper returns a Mapper over the given loose table. A nil table uses
// the Italian ledger labels.
func NewMapper(table keywords.Table, logger logging.Logger) *Mapper {
	if table == nil {
		table = keywords.DefaultLoose()
	}
	return &Mapper{table: table, logger: logging.OrDefault(logger)}
}

// MapRows reads cell 0 as a label and cell 1 as a value. A label belongs to
// the first field in table order with a contained keyword. When several rows
// land on the same field the value with the largest magnitude is kept, so a
// total repeated across rows is not double counted.
func (m *Mapper) MapRows(rows []Row) models.FinancialRecord {
	var record models.FinancialRecord
	matched := 0
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(row[0]))
		if label == "" {
			continue
		}
		field, kw, ok := m.table.Match(label)
		if !ok {
			continue
		}
		value := currencyutils.ParseNumber(row[1])
		if math.Abs(value) > math.Abs(record.Get(field)) {
			record.Set(field, value)
		}
		matched++
		m.logger.Debug("Matched row label",
			logging.Field{Key: logging.FieldField, Value: field},
			logging.Field{Key: logging.FieldKeyword, Value: kw},
			logging.Field{Key: logging.FieldValue, Value: value})
	}
	m.logger.Debug("Auto-detected tabular fields", logging.Field{Key: logging.FieldCount, Value: matched})
	return record
}

// ApplyMapping sums every row's value in the column mapped to each field.
// Unmapped fields, negative indexes and cells beyond a short row contribute
// nothing. Callers strip any header row first (see DataRows).
func (m *Mapper) ApplyMapping(rows []Row, mapping models.ColumnMapping) models.FinancialRecord {
	var record models.FinancialRecord
	for _, field := range models.BaseFields {
		col, ok := mapping[field]
		if !ok || col == nil || *col < 0 {
			continue
		}
		sum := decimal.Zero
		for _, row := range rows {
			if *col >= len(row) {
				continue
			}
			sum = sum.Add(currencyutils.ParseDecimal(row[*col]))
		}
		value, _ := sum.Float64()
		record.Set(field, value)
		m.logger.Debug("Applied column mapping",
			logging.Field{Key: logging.FieldField, Value: field},
			logging.Field{Key: "column", Value: *col},
			logging.Field{Key: logging.FieldValue, Value: value})
	}
	return record
}

// Headers returns the first row, trimmed, as the column labels offered to
// the mapping wizard.
func Headers(rows []Row) []string {
	if len(rows) == 0 {
		return []string{}
	}
	out := make([]string, len(rows[0]))
	for i, c := range rows[0] {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

// DataRows returns the rows after the header.
func DataRows(rows []Row) []Row {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}
