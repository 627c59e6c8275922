package invoice

import (
	"testing"

	"fjacquet/bilanci/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitColumns(t *testing.T) {
	assert.Equal(t, []string{"a b", "2", "3,00"}, splitColumns("a b\t2\t 3,00 "))
	assert.Equal(t, []string{"Licenza software", "1", "200,00"}, splitColumns("Licenza software   1  200,00"))
	assert.Equal(t, []string{"una sola colonna"}, splitColumns("una sola colonna"))
}

func TestParseItem(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		keep      bool
		quantity  *float64
		unitPrice *float64
		taxRate   *float64
		amount    *float64
	}{
		{
			name: "quantity price and amount", line: "Canone    12    10,00    120,00",
			keep: true, quantity: ptr(12), unitPrice: ptr(10), amount: ptr(120),
		},
		{
			name: "tab separated with rate", line: "Consulenza\t2\t500,00\t22%\t1.000,00",
			keep: true, quantity: ptr(2), unitPrice: ptr(500), taxRate: ptr(22), amount: ptr(1000),
		},
		{
			name: "unit price within tolerance", line: "Materiale    3    33,00    100,00",
			keep: true, quantity: ptr(3), unitPrice: ptr(33), amount: ptr(100),
		},
		{
			name: "fractional quantity is not a quantity", line: "Ore    2,5    80,00",
			keep: true, quantity: ptr(80), amount: ptr(80),
		},
		{
			name: "discount has only an amount", line: "Sconto    (50,00)",
			keep: true, amount: ptr(-50),
		},
		{
			name: "decimal rate", line: "Libro    1    10,00    4,5 %    10,00",
			keep: true, quantity: ptr(1), unitPrice: ptr(10), taxRate: ptr(4.5), amount: ptr(10),
		},
		{name: "single spaced line", line: "Consulenza 2 500,00", keep: false},
		{name: "no figures", line: "Note    vedi allegato", keep: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, keep := parseItem(tt.line)
			require.Equal(t, tt.keep, keep)
			if !keep {
				return
			}
			assert.Equal(t, tt.quantity, item.Quantity, "quantity")
			assert.Equal(t, tt.unitPrice, item.UnitPrice, "unit price")
			assert.Equal(t, tt.taxRate, item.TaxRate, "tax rate")
			assert.Equal(t, tt.amount, item.Amount, "amount")
		})
	}
}

func TestExtractItems(t *testing.T) {
	text := "Intestazione\nArticolo  Q.tà  Prezzo unitario  Importo\n\nPenne  10  1,50  15,00\nNota interna\nQuaderni  5  2,00  10,00\nTotale 25,00\nFuori tabella  1  1,00  1,00"
	inv := &models.InvoiceRecord{}
	assert.True(t, extractItems(docOf(text), inv))
	require.Len(t, inv.Items, 2)
	assert.Equal(t, "Penne", inv.Items[0].Description)
	assert.Equal(t, "Quaderni", inv.Items[1].Description)
	assert.Equal(t, 1, inv.Confidence)
}

func TestExtractItems_NoHeader(t *testing.T) {
	inv := &models.InvoiceRecord{}
	assert.False(t, extractItems(docOf("Penne  10  1,50  15,00"), inv))
	assert.Empty(t, inv.Items)
	assert.Equal(t, -1, findItemHeader([]string{"Descrizione senza colonne"}))
}
