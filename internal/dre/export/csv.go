// Package export serialises DRE reports for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/cooperval/controladoria/internal/dre"
)

// WriteReportCSV emits the report as CSV: one header row with the column
// labels (actual and budgeted interleaved per column), then one row per
// line with the indented label stripped to a plain name plus level.
func WriteReportCSV(w io.Writer, report dre.Report) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"Nivel", "Descricao"}
	for _, col := range report.Columns {
		header = append(header, col, col+" (Orçado)", col+" (Δ)")
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, line := range report.Lines {
		record := []string{
			strconv.Itoa(line.Level),
			strings.TrimLeft(line.Label, " "),
		}
		variance := dre.Variance(line.Values, line.BudgetedValues)
		for i := range report.Columns {
			record = append(record,
				formatFloat(valueAt(line.Values, i)),
				formatFloat(valueAt(line.BudgetedValues, i)),
				formatFloat(valueAt(variance, i)),
			)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	totals := []string{"", "Total"}
	totalVariance := dre.Variance(report.Totals, report.BudgetedTotals)
	for i := range report.Columns {
		totals = append(totals,
			formatFloat(valueAt(report.Totals, i)),
			formatFloat(valueAt(report.BudgetedTotals, i)),
			formatFloat(valueAt(totalVariance, i)),
		)
	}
	if err := writer.Write(totals); err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}

func valueAt(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
