package invoice

import (
	"math"
	"regexp"
	"strings"

	"fjacquet/bilanci/internal/currencyutils"
	"fjacquet/bilanci/internal/models"
)

// firstAmount returns the first currency shaped number on line that is not
// a percentage.
func firstAmount(line string) (float64, bool) {
	for _, loc := range amountPattern.FindAllStringIndex(line, -1) {
		rest := strings.TrimLeft(line[loc[1]:], " \t")
		if strings.HasPrefix(rest, "%") {
			continue
		}
		return currencyutils.ParseNumber(line[loc[0]:loc[1]]), true
	}
	return 0, false
}

// amountNear scans lines in order for one matching label and not matching
// any of exclude, returning the first amount found on such a line.
func amountNear(lines []string, label *regexp.Regexp, exclude ...*regexp.Regexp) float64 {
	for _, line := range lines {
		if !label.MatchString(line) || matchesAny(line, exclude) {
			continue
		}
		if v, ok := firstAmount(line); ok {
			return v
		}
	}
	return 0
}

func matchesAny(line string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// extractTotals fills subtotal, tax and total. Lines carrying a VAT number
// never count as tax lines. A strong total label ("totale documento",
// "da pagare") beats a plain "totale", and a plain one is ignored on
// subtotal or tax lines. A missing total is rebuilt as subtotal+tax and a
// missing subtotal as total-tax, floored at zero.
func extractTotals(doc *document, inv *models.InvoiceRecord) bool {
	inv.Subtotal = amountNear(doc.lines, subtotalLabel)
	inv.TaxTotal = amountNear(doc.lines, taxLabel, vatIDLine, subtotalLabel, strongTotalLabel)
	inv.Total = amountNear(doc.lines, strongTotalLabel)
	if inv.Total == 0 {
		inv.Total = amountNear(doc.lines, weakTotalLabel, subtotalLabel, taxLabel)
	}

	if inv.Total == 0 && inv.Subtotal != 0 && inv.TaxTotal != 0 {
		inv.Total = currencyutils.Sum(inv.Subtotal, inv.TaxTotal)
	}
	if inv.Subtotal == 0 && inv.Total != 0 && inv.TaxTotal != 0 {
		inv.Subtotal = math.Max(0, currencyutils.Sub(inv.Total, inv.TaxTotal))
	}

	if inv.Total != 0 || inv.Subtotal != 0 {
		inv.Confidence++
		return true
	}
	return false
}

// reconcileFromItems fills a missing subtotal from the items, using amount
// or else quantity times unit price, and a missing total from that subtotal
// plus tax.
func reconcileFromItems(_ *document, inv *models.InvoiceRecord) bool {
	if inv.Subtotal != 0 || len(inv.Items) == 0 {
		return false
	}
	values := make([]float64, 0, len(inv.Items))
	for _, it := range inv.Items {
		switch {
		case it.Amount != nil:
			values = append(values, *it.Amount)
		case it.UnitPrice != nil && it.Quantity != nil:
			values = append(values, *it.UnitPrice * *it.Quantity)
		}
	}
	sum := currencyutils.Sum(values...)
	if sum > 0 {
		inv.Subtotal = sum
	}
	if inv.Total == 0 && inv.TaxTotal != 0 {
		inv.Total = currencyutils.Sum(sum, inv.TaxTotal)
	}
	return sum > 0
}
