package keywords

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/bilanci/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTablesCoverExtractedFields(t *testing.T) {
	tables := Default()
	assert.Equal(t, models.ExtractedFields, tables.Strict.Fields())
	assert.Equal(t, models.ExtractedFields, tables.Loose.Fields())
	for _, f := range models.ExtractedFields {
		assert.NotEmpty(t, tables.Strict.Keywords(f), f)
		assert.NotEmpty(t, tables.Loose.Keywords(f), f)
	}
	assert.Nil(t, tables.Strict.Keywords(models.FieldEBITDA))
}

func TestTable_Match(t *testing.T) {
	loose := DefaultLoose()
	tests := []struct {
		label   string
		field   models.Field
		keyword string
		ok      bool
	}{
		{"ricavi delle vendite", models.FieldTotalRevenue, "ricavi", true},
		{"costi per servizi", models.FieldTotalCosts, "costi", true},
		{"patrimonio netto", models.FieldNetIncome, "netto", true},
		{"capitale sociale", models.FieldTotalEquity, "capitale", true},
		{"attivo circolante", models.FieldCurrentAssets, "attivo circolante", true},
		{"debiti verso fornitori", models.FieldCurrentLiabilities, "debiti", true},
		{"note integrative", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			f, kw, ok := loose.Match(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.field, f)
			assert.Equal(t, tt.keyword, kw)
		})
	}
}

func TestParse_OverridesOneMode(t *testing.T) {
	data := []byte(`
loose:
  - field: totalRevenue
    keywords: ["  Revenue ", "Sales"]
  - field: totalCosts
    keywords: [costs]
`)
	tables, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"revenue", "sales"}, tables.Loose.Keywords(models.FieldTotalRevenue))
	assert.Len(t, tables.Loose, 2)
	assert.Equal(t, DefaultStrict(), tables.Strict)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "strict: ["},
		{"unknown field", "strict:\n  - field: margin\n    keywords: [x]\n"},
		{"derived field", "strict:\n  - field: roi\n    keywords: [x]\n"},
		{"repeated field", "loose:\n  - field: totalCosts\n    keywords: [a]\n  - field: totalCosts\n    keywords: [b]\n"},
		{"no keywords", "loose:\n  - field: totalCosts\n    keywords: ['  ']\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strict:\n  - field: totalRevenue\n    keywords: [turnover]\n"), 0600))

	tables, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"turnover"}, tables.Strict.Keywords(models.FieldTotalRevenue))

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
