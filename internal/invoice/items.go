package invoice

import (
	"math"
	"strconv"
	"strings"

	"fjacquet/bilanci/internal/currencyutils"
	"fjacquet/bilanci/internal/models"
)

const (
	maxQuantity        = 10000
	unitPriceTolerance = 0.2
	integerTolerance   = 1e-6
)

// findItemHeader returns the index of the first line naming both an item
// description column and a figure column, or -1.
func findItemHeader(lines []string) int {
	for i, line := range lines {
		if itemHeaderDescription.MatchString(line) && itemHeaderFigures.MatchString(line) {
			return i
		}
	}
	return -1
}

// splitColumns splits on tabs, or on runs of two or more spaces when the
// line has no tabs.
func splitColumns(line string) []string {
	cols := strings.Split(line, "\t")
	if len(cols) == 1 {
		cols = columnGap.Split(line, -1)
	}
	out := cols[:0]
	for _, c := range cols {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// parseItem reads one table line. Percentage columns only inform the tax
// rate. The amount is the last non-zero column, the quantity the first small
// positive whole number, and the unit price the first other column whose
// product with the quantity lands within 20% of the amount.
func parseItem(line string) (models.InvoiceLineItem, bool) {
	cols := splitColumns(line)
	if len(cols) == 0 {
		return models.InvoiceLineItem{}, false
	}
	item := models.InvoiceLineItem{Description: cols[0]}

	values := make([]float64, len(cols))
	for j := 1; j < len(cols); j++ {
		if strings.Contains(cols[j], "%") {
			continue
		}
		values[j] = currencyutils.ParseNumber(cols[j])
	}

	for j := len(cols) - 1; j >= 1; j-- {
		if values[j] != 0 {
			item.Amount = ptr(values[j])
			break
		}
	}

	qtyCol := -1
	for j := 1; j < len(cols); j++ {
		v := values[j]
		if v > 0 && v <= maxQuantity && math.Abs(v-math.Round(v)) < integerTolerance {
			item.Quantity = ptr(v)
			qtyCol = j
			break
		}
	}

	if item.Quantity != nil && item.Amount != nil {
		amount, qty := *item.Amount, *item.Quantity
		den := amount
		if den == 0 {
			den = 1
		}
		for j := 1; j < len(cols); j++ {
			v := values[j]
			if j == qtyCol || v == 0 {
				continue
			}
			if math.Abs(v*qty-amount)/math.Abs(den) < unitPriceTolerance {
				item.UnitPrice = ptr(v)
				break
			}
		}
	}

	if m := percentage.FindStringSubmatch(line); m != nil {
		if rate, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64); err == nil {
			item.TaxRate = ptr(rate)
		}
	}

	keep := item.Description != "" && (item.Amount != nil || item.UnitPrice != nil)
	return item, keep
}

// extractItems parses the lines after the item header up to the first
// totals line. Blank lines are skipped.
func extractItems(doc *document, inv *models.InvoiceRecord) bool {
	header := findItemHeader(doc.lines)
	if header < 0 {
		return false
	}
	for _, raw := range doc.lines[header+1:] {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if itemTableEnd.MatchString(line) {
			break
		}
		if item, ok := parseItem(line); ok {
			inv.Items = append(inv.Items, item)
		}
	}
	if len(inv.Items) > 0 {
		inv.Confidence++
		return true
	}
	return false
}

func ptr(v float64) *float64 {
	return &v
}
