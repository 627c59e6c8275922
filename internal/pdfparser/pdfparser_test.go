package pdfparser

import (
	"errors"
	"testing"

	"fjacquet/bilanci/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstructLines(t *testing.T) {
	tests := []struct {
		name      string
		fragments []Fragment
		tolerance float64
		expected  []string
	}{
		{
			name: "groups by y and orders by x",
			fragments: []Fragment{
				{X: 300, Y: 700, Text: "45.000,00"},
				{X: 50, Y: 701.5, Text: "Totale attivo circolante"},
				{X: 50, Y: 680, Text: "Totale attivo"},
				{X: 300, Y: 679, Text: "120.000,00"},
			},
			tolerance: 3,
			expected:  []string{"Totale attivo circolante 45.000,00", "Totale attivo 120.000,00"},
		},
		{
			name: "lines sorted top to bottom",
			fragments: []Fragment{
				{X: 0, Y: 100, Text: "bottom"},
				{X: 0, Y: 500, Text: "top"},
				{X: 0, Y: 300, Text: "middle"},
			},
			tolerance: 3,
			expected:  []string{"top", "middle", "bottom"},
		},
		{
			name: "first line within tolerance wins and keeps its y",
			fragments: []Fragment{
				{X: 0, Y: 100, Text: "a"},
				{X: 10, Y: 103, Text: "b"},
				{X: 20, Y: 105.5, Text: "c"},
			},
			tolerance: 3,
			expected:  []string{"c", "a b"},
		},
		{
			name: "zero tolerance uses default",
			fragments: []Fragment{
				{X: 10, Y: 50, Text: "destra"},
				{X: 0, Y: 52, Text: "sinistra"},
			},
			tolerance: 0,
			expected:  []string{"sinistra destra"},
		},
		{
			name: "blank fragments trimmed",
			fragments: []Fragment{
				{X: 0, Y: 10, Text: " "},
				{X: 5, Y: 10, Text: "x "},
			},
			tolerance: 3,
			expected:  []string{"x"},
		},
		{name: "no fragments", fragments: nil, tolerance: 3, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReconstructLines(tt.fragments, tt.tolerance))
		})
	}
}

func TestReconstructLines_WidthAwareJoin(t *testing.T) {
	glyph := func(x float64, s string) Fragment {
		return Fragment{X: x, Y: 100, W: 5, FontSize: 10, Text: s}
	}
	fragments := []Fragment{
		glyph(0, "I"), glyph(5, "V"), glyph(10, "A"),
		glyph(20, "2"), glyph(25, "2"),
		glyph(60, "1"), glyph(65, "0"),
	}
	assert.Equal(t, []string{"IVA 22  10"}, ReconstructLines(fragments, 3))
}

func TestPageText(t *testing.T) {
	text := PageText([]Fragment{{X: 0, Y: 20, Text: "uno"}, {X: 0, Y: 10, Text: "due"}}, 3)
	assert.Equal(t, "uno\ndue", text)
}

func TestRealPDFExtractor_InvalidData(t *testing.T) {
	e := NewRealPDFExtractor(0, logging.NewMockLogger())
	_, err := e.ExtractText([]byte("not a pdf"))
	require.Error(t, err)

	_, err = e.ExtractText(nil)
	assert.Error(t, err)
}

func TestMockPDFExtractor(t *testing.T) {
	m := NewMockPDFExtractor("testo", nil)
	text, err := m.ExtractText([]byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "testo", text)
	assert.Equal(t, 1, m.Calls)

	m = NewMockPDFExtractor("", errors.New("boom"))
	_, err = m.ExtractText(nil)
	assert.EqualError(t, err, "boom")
}
