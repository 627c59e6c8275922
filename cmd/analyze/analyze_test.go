package analyze_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/bilanci/cmd/analyze"
	"fjacquet/bilanci/cmd/root"
	"fjacquet/bilanci/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statementText = "Totale valore della produzione 1.000.000,00\n" +
	"Totale costi della produzione 850.000,00\n" +
	"Utile (perdita) dell'esercizio 98.765,43\n"

func init() {
	root.Init()
	root.Cmd.AddCommand(analyze.Cmd)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("BILANCI_DATA_DIRECTORY", t.TempDir())
	root.SharedFlags = root.CommonFlags{}

	var out bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetArgs(args)
	err := root.Cmd.Execute()
	return out.String(), err
}

func TestAnalyze_Summary(t *testing.T) {
	input := filepath.Join(t.TempDir(), "bilancio.txt")
	require.NoError(t, os.WriteFile(input, []byte(statementText), models.PermissionFile))

	out, err := run(t, "analyze", "-i", input)
	require.NoError(t, err)
	assert.Contains(t, out, "€ 1.000.000,00")
	assert.Contains(t, out, "Margine Netto")
}

func TestAnalyze_ExportFile(t *testing.T) {
	input := filepath.Join(t.TempDir(), "bilancio.txt")
	require.NoError(t, os.WriteFile(input, []byte(statementText), models.PermissionFile))
	output := filepath.Join(t.TempDir(), "analisi.json")

	_, err := run(t, "analyze", "-i", input, "-o", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var a models.Analysis
	require.NoError(t, json.Unmarshal(data, &a))
	assert.Equal(t, 1000000.0, a.Record.TotalRevenue)
	assert.InDelta(t, 98765.43, a.Record.EBITDA, 1e-6)
	assert.Len(t, a.Record.HistoricalData, 12)
}

func TestAnalyze_Errors(t *testing.T) {
	ledger := filepath.Join(t.TempDir(), "movimenti.csv")
	require.NoError(t, os.WriteFile(ledger, []byte("Data,Entrate\n01/01,100\n"), models.PermissionFile))

	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{name: "missing input", args: []string{"analyze"}, errMsg: "an input file is required"},
		{name: "missing file", args: []string{"analyze", "-i", "nope.pdf"}, errMsg: "error analyzing"},
		{name: "mapping required", args: []string{"analyze", "-i", ledger}, errMsg: "bilanci map"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
