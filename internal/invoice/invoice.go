// Package invoice reads invoice metadata, totals and line items out of raw
// text with a fixed sequence of heuristic steps.
//
// Steps run in this order and each may add one point of confidence:
//
//	document-word  "fattura"/"invoice" present                    (+1)
//	currency       € or EUR before $ or USD, EUR by default
//	vat            supplier VAT after a P.IVA label               (+1)
//	parties        supplier and customer label lines
//	number         invoice number after a numbering label         (+1)
//	dates          issue date (labeled, else any date) and due date
//	totals         subtotal, tax and total lines with fallbacks   (+1)
//	items          the line item table below a header line        (+1)
//	reconcile      subtotal and total rebuilt from items
//
// Values that no step finds are left empty rather than guessed.
package invoice

import (
	"strings"

	"fjacquet/bilanci/internal/logging"
	"fjacquet/bilanci/internal/models"
)

// document is the text handed to every step.
type document struct {
	text  string
	lines []string
}

// Step is one named heuristic. Run reports whether it found anything.
type Step struct {
	Name string
	Run  func(doc *document, inv *models.InvoiceRecord) bool
}

// DefaultSteps returns the extraction steps in precedence order.
func DefaultSteps() []Step {
	return []Step{
		{Name: "document-word", Run: detectDocumentWord},
		{Name: "currency", Run: detectCurrency},
		{Name: "vat", Run: extractVAT},
		{Name: "parties", Run: extractParties},
		{Name: "number", Run: extractNumber},
		{Name: "dates", Run: extractDates},
		{Name: "totals", Run: extractTotals},
		{Name: "items", Run: extractItems},
		{Name: "reconcile", Run: reconcileFromItems},
	}
}

// Extractor runs the invoice steps over a document.
type Extractor struct {
	steps  []Step
	logger logging.Logger
}

// NewExtractor returns an Extractor with the default steps.
func NewExtractor(logger logging.Logger) *Extractor {
	return &Extractor{steps: DefaultSteps(), logger: logging.OrDefault(logger)}
}

// StepNames lists the configured steps in run order.
func (e *Extractor) StepNames() []string {
	names := make([]string, len(e.steps))
	for i, s := range e.steps {
		names[i] = s.Name
	}
	return names
}

// Extract returns the invoice found in text, or nil when text is blank.
// The result carries a confidence score; see models.InvoiceRecord.Accepted.
func (e *Extractor) Extract(text string) *models.InvoiceRecord {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	doc := &document{text: text, lines: strings.Split(text, "\n")}
	inv := &models.InvoiceRecord{Currency: "EUR", Items: []models.InvoiceLineItem{}}

	for _, step := range e.steps {
		found := step.Run(doc, inv)
		e.logger.Debug("Invoice step finished",
			logging.Field{Key: logging.FieldStep, Value: step.Name},
			logging.Field{Key: logging.FieldStatus, Value: found},
			logging.Field{Key: logging.FieldConfidence, Value: inv.Confidence})
	}
	return inv
}

func detectDocumentWord(doc *document, inv *models.InvoiceRecord) bool {
	if documentWord.MatchString(doc.text) {
		inv.Confidence++
		return true
	}
	return false
}

func detectCurrency(doc *document, inv *models.InvoiceRecord) bool {
	switch {
	case euroMarker.MatchString(doc.text):
		inv.Currency = "EUR"
	case dollarMarker.MatchString(doc.text):
		inv.Currency = "USD"
	default:
		inv.Currency = "EUR"
		return false
	}
	return true
}

func extractParties(doc *document, inv *models.InvoiceRecord) bool {
	if m := supplierLine.FindStringSubmatch(doc.text); m != nil {
		inv.SupplierName = strings.TrimSpace(m[1])
	}
	if m := customerLine.FindStringSubmatch(doc.text); m != nil {
		inv.CustomerName = strings.TrimSpace(m[1])
	}
	return inv.SupplierName != "" || inv.CustomerName != ""
}

// extractNumber takes the first labeled token that carries a digit and is
// not itself a date, so "Data fattura: 01/02/2024" is not read as a number.
func extractNumber(doc *document, inv *models.InvoiceRecord) bool {
	for _, m := range invoiceNumberLabel.FindAllStringSubmatch(doc.text, -1) {
		token := strings.TrimSpace(m[1])
		if !hasDigit(token) || wholeDate.MatchString(token) {
			continue
		}
		inv.InvoiceNumber = token
		inv.Confidence++
		return true
	}
	return false
}

// extractDates prefers a labeled issue date and otherwise falls back to the
// first date in the text that is not the due date.
func extractDates(doc *document, inv *models.InvoiceRecord) bool {
	dueStart := -1
	if loc := dueDateLabel.FindStringSubmatchIndex(doc.text); loc != nil {
		inv.DueDate = doc.text[loc[2]:loc[3]]
		dueStart = loc[2]
	}

	if m := issueDateLabel.FindStringSubmatch(doc.text); m != nil {
		inv.Date = m[1]
	} else {
		for _, loc := range anyDate.FindAllStringSubmatchIndex(doc.text, -1) {
			if loc[2] == dueStart {
				continue
			}
			inv.Date = doc.text[loc[2]:loc[3]]
			break
		}
	}
	return inv.Date != "" || inv.DueDate != ""
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
