package tabular

import (
	"testing"

	"fjacquet/bilanci/internal/keywords"
	"fjacquet/bilanci/internal/logging"
	"fjacquet/bilanci/internal/models"

	"github.com/stretchr/testify/assert"
)

func newTestMapper() *Mapper {
	return NewMapper(nil, logging.NewMockLogger())
}

func TestMapRows(t *testing.T) {
	tests := []struct {
		name  string
		rows  []Row
		check func(t *testing.T, r models.FinancialRecord)
	}{
		{
			name: "repeated label keeps the largest value",
			rows: []Row{{"Ricavi", "100"}, {"ricavi", "300"}},
			check: func(t *testing.T, r models.FinancialRecord) {
				assert.Equal(t, 300.0, r.TotalRevenue)
			},
		},
		{
			name: "largest magnitude wins over sign",
			rows: []Row{{"Perdita", "(5.000)"}, {"utile", "1.000"}},
			check: func(t *testing.T, r models.FinancialRecord) {
				assert.Equal(t, -5000.0, r.NetIncome)
			},
		},
		{
			name: "first field in table order wins",
			rows: []Row{{"Patrimonio netto", "10"}, {"Capitale sociale", "20"}},
			check: func(t *testing.T, r models.FinancialRecord) {
				assert.Equal(t, 10.0, r.NetIncome)
				assert.Equal(t, 20.0, r.TotalEquity)
			},
		},
		{
			name: "several fields",
			rows: []Row{
				{"Voce", "Importo"},
				{"Fatturato", "1.200,50"},
				{"Costi del personale", "400"},
				{"Attivo circolante", "900"},
				{"Debiti verso banche", "300"},
				{"Ammortamenti", "50"},
			},
			check: func(t *testing.T, r models.FinancialRecord) {
				assert.Equal(t, 1200.5, r.TotalRevenue)
				assert.Equal(t, 400.0, r.TotalCosts)
				assert.Equal(t, 900.0, r.CurrentAssets)
				assert.Equal(t, 300.0, r.CurrentLiabilities)
				assert.Equal(t, 50.0, r.Amortization)
			},
		},
		{
			name: "short and blank rows are skipped",
			rows: []Row{{"ricavi"}, {"", "5"}, {}},
			check: func(t *testing.T, r models.FinancialRecord) {
				assert.True(t, r.IsEmpty())
			},
		},
		{
			name: "no rows",
			rows: nil,
			check: func(t *testing.T, r models.FinancialRecord) {
				assert.Equal(t, models.FinancialRecord{}, r)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, newTestMapper().MapRows(tt.rows))
		})
	}
}

func TestMapRows_UnknownLabelsProduceEmptyRecord(t *testing.T) {
	r := newTestMapper().MapRows([]Row{{"Data", "Descrizione", "Importo"}, {"01/01", "Bonifico", "100"}})
	assert.True(t, r.IsEmpty())
}

func TestApplyMapping(t *testing.T) {
	rows := []Row{
		{"01/01", "100", "10"},
		{"02/01", "200", "20"},
		{"03/01", "300"},
	}
	mapping := models.ColumnMapping{
		models.FieldTotalRevenue: models.Column(1),
		models.FieldTotalCosts:   models.Column(2),
		models.FieldNetIncome:    nil,
		models.FieldTotalAssets:  models.Column(9),
		models.FieldTotalEquity:  models.Column(-1),
	}

	r := newTestMapper().ApplyMapping(rows, mapping)
	assert.Equal(t, 600.0, r.TotalRevenue)
	assert.Equal(t, 30.0, r.TotalCosts)
	assert.Zero(t, r.NetIncome)
	assert.Zero(t, r.TotalAssets)
	assert.Zero(t, r.TotalEquity)
}

func TestApplyMapping_DecimalSum(t *testing.T) {
	rows := []Row{{"0,1"}, {"0,2"}}
	r := newTestMapper().ApplyMapping(rows, models.ColumnMapping{models.FieldTotalRevenue: models.Column(0)})
	assert.Equal(t, 0.3, r.TotalRevenue)
}

func TestApplyMapping_IgnoresDerivedColumns(t *testing.T) {
	rows := []Row{{"7"}, {"8"}}
	r := newTestMapper().ApplyMapping(rows, models.ColumnMapping{models.FieldEBITDA: models.Column(0)})
	assert.Zero(t, r.EBITDA)
	assert.True(t, r.IsEmpty())
}

func TestHeadersAndDataRows(t *testing.T) {
	rows := []Row{{" Data ", "Importo"}, {"01/01", "5"}}
	assert.Equal(t, []string{"Data", "Importo"}, Headers(rows))
	assert.Equal(t, []Row{{"01/01", "5"}}, DataRows(rows))
	assert.Empty(t, Headers(nil))
	assert.Nil(t, DataRows(rows[:1]))
}

func TestNewMapper_CustomTable(t *testing.T) {
	table := keywords.Table{{Field: models.FieldTotalCosts, Keywords: []string{"expenses"}}}
	r := NewMapper(table, nil).MapRows([]Row{{"Expenses", "12"}})
	assert.Equal(t, 12.0, r.TotalCosts)
}
