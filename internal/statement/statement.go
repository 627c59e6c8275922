// Package statement extracts base financial figures from line oriented text
// such as a reconstructed PDF balance sheet.
//
// Each field is searched independently in two steps applied per line, in
// document order:
//
//  1. label: the first keyword of the field (in priority order) contained
//     in the line;
//  2. amount: the first numeric token after that keyword on the same line.
//
// The first line passing both steps wins. A line that carries the label but
// no amount does not stop the search.
package statement

import (
	"regexp"
	"strings"

	"fjacquet/bilanci/internal/currencyutils"
	"fjacquet/bilanci/internal/keywords"
	"fjacquet/bilanci/internal/logging"
	"fjacquet/bilanci/internal/models"
)

// numericToken accepts an optional parenthesis or minus before the first
// digit so negatives survive into ParseNumber.
var numericToken = regexp.MustCompile(`\(?-?\d[\d.,]*\)?`)

// Match describes where a value was found.
type Match struct {
	Line    int     `json:"line"`
	Keyword string  `json:"keyword"`
	Token   string  `json:"token"`
	Value   float64 `json:"value"`
}

// FindMatch returns the first line matching one of kws together with the
// amount that follows the keyword. Matching is case-insensitive.
func FindMatch(text string, kws []string) (Match, bool) {
	if text == "" || len(kws) == 0 {
		return Match{}, false
	}
	lowered := make([]string, len(kws))
	for i, kw := range kws {
		lowered[i] = strings.ToLower(kw)
	}

	for n, line := range strings.Split(text, "\n") {
		line = strings.ToLower(strings.TrimRight(line, "\r"))
		for _, kw := range lowered {
			if kw == "" {
				continue
			}
			if token, ok := amountAfter(line, kw); ok {
				return Match{
					Line:    n + 1,
					Keyword: kw,
					Token:   token,
					Value:   currencyutils.ParseNumber(token),
				}, true
			}
		}
	}
	return Match{}, false
}

func amountAfter(line, kw string) (string, bool) {
	idx := strings.Index(line, kw)
	if idx < 0 {
		return "", false
	}
	token := numericToken.FindString(line[idx+len(kw):])
	return token, token != ""
}

// ExtractValue returns the value of the first labeled line, or 0.
func ExtractValue(text string, kws []string) float64 {
	m, _ := FindMatch(text, kws)
	return m.Value
}

// Extractor builds a FinancialRecord from text using a strict keyword table.
type Extractor struct {
	table  keywords.Table
	logger logging.Logger
}

// NewExtractor returns an Extractor over table. A nil table uses the Italian
// statement labels.
func NewExtractor(table keywords.Table, logger logging.Logger) *Extractor {
	if table == nil {
		table = keywords.DefaultStrict()
	}
	return &Extractor{table: table, logger: logging.OrDefault(logger)}
}

// Extract searches every field of the table. Missing fields stay 0 and the
// record is never partial. Derived figures are left to the metrics package.
func (e *Extractor) Extract(text string) models.FinancialRecord {
	record, _ := e.ExtractWithMatches(text)
	return record
}

// ExtractWithMatches is Extract plus the match found for each field.
func (e *Extractor) ExtractWithMatches(text string) (models.FinancialRecord, map[models.Field]Match) {
	var record models.FinancialRecord
	matches := make(map[models.Field]Match)
	normalized := strings.ToLower(text)

	for _, entry := range e.table {
		m, ok := FindMatch(normalized, entry.Keywords)
		if !ok {
			e.logger.Debug("No value found for field",
				logging.Field{Key: logging.FieldField, Value: entry.Field})
			continue
		}
		record.Set(entry.Field, m.Value)
		matches[entry.Field] = m
		e.logger.Debug("Found value for field",
			logging.Field{Key: logging.FieldField, Value: entry.Field},
			logging.Field{Key: logging.FieldKeyword, Value: m.Keyword},
			logging.Field{Key: logging.FieldValue, Value: m.Value})
	}
	return record, matches
}
