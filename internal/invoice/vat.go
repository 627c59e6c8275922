package invoice

import (
	"strings"
	"unicode"

	"fjacquet/bilanci/internal/models"
)

// extractVAT reads the supplier VAT from the first P.IVA label that is not
// customer scoped, and the customer VAT or fiscal code from its own label.
func extractVAT(doc *document, inv *models.InvoiceRecord) bool {
	var customerSpans [][]int
	for _, loc := range customerVATLabel.FindAllStringSubmatchIndex(doc.text, -1) {
		customerSpans = append(customerSpans, loc)
		if inv.CustomerVAT == "" {
			inv.CustomerVAT = normalizeVAT(doc.text[loc[2]:loc[3]])
		}
	}

	for _, loc := range supplierVATLabel.FindAllStringSubmatchIndex(doc.text, -1) {
		if overlaps(loc, customerSpans) {
			continue
		}
		if vat := normalizeVAT(doc.text[loc[2]:loc[3]]); vat != "" {
			inv.SupplierVAT = vat
			inv.Confidence++
			return true
		}
	}
	return inv.CustomerVAT != ""
}

func overlaps(loc []int, spans [][]int) bool {
	for _, s := range spans {
		if loc[0] < s[1] && s[0] < loc[1] {
			return true
		}
	}
	return false
}

// normalizeVAT keeps the digit bearing words of a captured token, plus a two
// letter country prefix directly in front of them, and drops dots and
// spaces. Words before the identifier ("n.") are skipped and the first word
// after it ends the identifier. Results outside 8 to 20 characters or
// without a digit are rejected.
func normalizeVAT(raw string) string {
	parts := strings.Fields(strings.ReplaceAll(raw, ".", " "))
	var b strings.Builder
	for i, p := range parts {
		switch {
		case hasDigit(p):
			b.WriteString(p)
		case b.Len() == 0 && isCountryPrefix(p) && i+1 < len(parts) && hasDigit(parts[i+1]):
			b.WriteString(p)
		case b.Len() > 0:
			return accept(b.String())
		}
	}
	return accept(b.String())
}

func isCountryPrefix(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func accept(vat string) string {
	vat = strings.ToUpper(vat)
	if len(vat) < 8 || len(vat) > 20 || !hasDigit(vat) {
		return ""
	}
	return vat
}
