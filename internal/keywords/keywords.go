// Package keywords holds the field keyword tables used to locate financial
// figures by label. Tables are ordered: field order decides which field a
// loose label belongs to, and keyword order decides match priority within a
// field.
package keywords

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/bilanci/internal/models"

	"gopkg.in/yaml.v3"
)

// Entry binds a field to its candidate labels, highest priority first.
type Entry struct {
	Field    models.Field `yaml:"field"`
	Keywords []string     `yaml:"keywords"`
}

// Table is an ordered field keyword table.
type Table []Entry

// Keywords returns the labels for f, or nil if f is not in the table.
func (t Table) Keywords(f models.Field) []string {
	for _, e := range t {
		if e.Field == f {
			return e.Keywords
		}
	}
	return nil
}

// Fields returns the fields of t in table order.
func (t Table) Fields() []models.Field {
	out := make([]models.Field, len(t))
	for i, e := range t {
		out[i] = e.Field
	}
	return out
}

// Match returns the first field (in table order) with a keyword contained
// in label. label is expected to be lowercase already.
func (t Table) Match(label string) (models.Field, string, bool) {
	for _, e := range t {
		for _, kw := range e.Keywords {
			if strings.Contains(label, kw) {
				return e.Field, kw, true
			}
		}
	}
	return "", "", false
}

// Tables carries both matching modes.
type Tables struct {
	// Strict labels are financial statement line items ("totale attivo").
	Strict Table `yaml:"strict"`
	// Loose labels are general ledger style descriptions ("ricavi").
	Loose Table `yaml:"loose"`
}

// DefaultStrict returns the Italian statement labels.
func DefaultStrict() Table {
	return Table{
		{Field: models.FieldTotalRevenue, Keywords: []string{"totale valore della produzione"}},
		{Field: models.FieldTotalCosts, Keywords: []string{"totale costi della produzione"}},
		{Field: models.FieldNetIncome, Keywords: []string{"utile (perdita) dell'esercizio", "utile (perdita) dell’esercizio"}},
		{Field: models.FieldCurrentAssets, Keywords: []string{"totale attivo circolante"}},
		{Field: models.FieldTotalAssets, Keywords: []string{"totale attivo"}},
		{Field: models.FieldCurrentLiabilities, Keywords: []string{"totale debiti"}},
		{Field: models.FieldTotalEquity, Keywords: []string{"totale patrimonio netto"}},
		{Field: models.FieldAmortization, Keywords: []string{"totale ammortamenti e svalutazioni"}},
	}
}

// DefaultLoose returns the Italian ledger labels. "netto" sits under net
// income ahead of equity, so "patrimonio netto" rows count as net income.
func DefaultLoose() Table {
	return Table{
		{Field: models.FieldTotalRevenue, Keywords: []string{"ricavi", "ricavo", "vendite", "fatturato", "valore produzione"}},
		{Field: models.FieldTotalCosts, Keywords: []string{"costi", "costo", "spese", "uscite"}},
		{Field: models.FieldNetIncome, Keywords: []string{"utile", "perdita", "risultato", "netto"}},
		{Field: models.FieldCurrentAssets, Keywords: []string{"attivo circolante", "liquidità"}},
		{Field: models.FieldTotalAssets, Keywords: []string{"attivo", "totale attivo"}},
		{Field: models.FieldCurrentLiabilities, Keywords: []string{"debiti", "passività correnti"}},
		{Field: models.FieldTotalEquity, Keywords: []string{"patrimonio", "capitale"}},
		{Field: models.FieldAmortization, Keywords: []string{"ammortamenti", "svalutazioni"}},
	}
}

// Default returns the built-in Italian tables.
func Default() *Tables {
	return &Tables{Strict: DefaultStrict(), Loose: DefaultLoose()}
}

// Parse reads tables from YAML. A mode missing from the document keeps its
// default table. Keywords are lowercased and trimmed.
func Parse(data []byte) (*Tables, error) {
	var raw Tables
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse keyword tables: %w", err)
	}

	tables := Default()
	if len(raw.Strict) > 0 {
		t, err := normalize(raw.Strict)
		if err != nil {
			return nil, fmt.Errorf("strict table: %w", err)
		}
		tables.Strict = t
	}
	if len(raw.Loose) > 0 {
		t, err := normalize(raw.Loose)
		if err != nil {
			return nil, fmt.Errorf("loose table: %w", err)
		}
		tables.Loose = t
	}
	return tables, nil
}

// LoadFile reads tables from a YAML file.
func LoadFile(path string) (*Tables, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword file %s: %w", path, err)
	}
	return Parse(data)
}

func normalize(t Table) (Table, error) {
	seen := make(map[models.Field]bool, len(t))
	out := make(Table, 0, len(t))
	for _, e := range t {
		f, ok := models.ParseField(string(e.Field))
		if !ok {
			return nil, fmt.Errorf("unknown field %q", e.Field)
		}
		if seen[f] {
			return nil, fmt.Errorf("duplicate field %q", f)
		}
		seen[f] = true

		kws := make([]string, 0, len(e.Keywords))
		for _, kw := range e.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				kws = append(kws, kw)
			}
		}
		if len(kws) == 0 {
			return nil, fmt.Errorf("field %q has no keywords", f)
		}
		out = append(out, Entry{Field: f, Keywords: kws})
	}
	return out, nil
}
