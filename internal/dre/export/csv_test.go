package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cooperval/controladoria/internal/dre"
)

func TestWriteReportCSV(t *testing.T) {
	report := dre.Report{
		Columns: []string{"Q1", "Q2"},
		Lines: []dre.DRELine{
			{ID: "type-T1", Label: "Custo", Level: 0, Values: []float64{60, 0}, BudgetedValues: []float64{50, 0}},
			{ID: "group-G1", Label: "  Logística", Level: 1, Values: []float64{60, 0}, BudgetedValues: []float64{0, 0}},
		},
		Totals:         []float64{60, 0},
		BudgetedTotals: []float64{50, 0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(&buf, report))

	rows := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, rows, 4)
	require.Equal(t, "Nivel,Descricao,Q1,Q1 (Orçado),Q1 (Δ),Q2,Q2 (Orçado),Q2 (Δ)", rows[0])
	require.Equal(t, "0,Custo,60.00,50.00,10.00,0.00,0.00,0.00", rows[1])
	require.True(t, strings.HasPrefix(rows[2], "1,Logística,"), "indent must be stripped: %s", rows[2])
	require.Equal(t, ",Total,60.00,50.00,10.00,0.00,0.00,0.00", rows[3])
}
