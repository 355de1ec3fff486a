package dre

import (
	"fmt"
	"math"
	"strconv"
)

// forecastPeriodIndex derives the vector index from the raw month_year
// string. The month is read out of the text ("YYYY-MM-...") instead of
// going through time.Parse so a backend date serialized in another timezone
// cannot shift it into a neighboring month.
func forecastPeriodIndex(monthYear string, years []int) (int, bool) {
	if len(monthYear) < 7 {
		return 0, false
	}
	year, err := strconv.Atoi(monthYear[0:4])
	if err != nil {
		return 0, false
	}
	month, err := strconv.Atoi(monthYear[5:7])
	if err != nil || month < 1 || month > monthsPerYear {
		return 0, false
	}
	offset := yearOffset(year, years)
	if offset < 0 {
		return 0, false
	}
	return month - 1 + monthsPerYear*offset, true
}

// Reconcile folds forecast rows into the hierarchy's budgeted vectors. Each
// amount lands at the most specific level the row names and is added to
// every ancestor on the path, so parent budgeted totals stay equal to the
// sum of their children. Nodes named only by forecasts are created from the
// configuration tables with zero actuals; the hierarchy is the union of
// nodes touched by actuals and nodes touched by budget.
//
// Returned warnings describe rows that were skipped or demoted (unknown
// type, commitment without its group, out-of-range month).
func Reconcile(h *Hierarchy, forecasts []ForecastRecord, configs ConfigBundle, years []int) []string {
	var warnings []string
	for _, fc := range forecasts {
		idx, ok := forecastPeriodIndex(fc.MonthYear, years)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("previsão ignorada: mês %q fora do período selecionado", fc.MonthYear))
			continue
		}
		if fc.CommitmentTypeID == "" {
			warnings = append(warnings, fmt.Sprintf("previsão ignorada: sem tipo de natureza (mês %s)", fc.MonthYear))
			continue
		}
		amount := fc.BudgetedAmount
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			amount = 0
		}

		typeNode := h.Types[fc.CommitmentTypeID]
		if typeNode == nil {
			typeNode = newNode(fc.CommitmentTypeID, configName(configs.CommitmentTypes, fc.CommitmentTypeID, UnknownTypeName), 0, h.VectorLength)
			h.Types[fc.CommitmentTypeID] = typeNode
		}
		typeNode.BudgetedValues[idx] += amount

		groupID := fc.CommitmentGroupID
		commitmentID := fc.CommitmentID
		if commitmentID != "" && groupID == "" {
			// A commitment-level forecast must carry its group; without it
			// the row is demoted to type level.
			warnings = append(warnings, fmt.Sprintf("previsão de natureza %s sem grupo: valor lançado no tipo %s", commitmentID, fc.CommitmentTypeID))
			continue
		}
		if groupID == "" {
			continue
		}

		groupNode := typeNode.Children[groupID]
		if groupNode == nil {
			groupNode = newNode(groupID, configName(configs.Groups, groupID, UnknownGroupName), 1, h.VectorLength)
			typeNode.Children[groupID] = groupNode
		}
		groupNode.BudgetedValues[idx] += amount

		if commitmentID == "" {
			continue
		}
		commitmentNode := groupNode.Children[commitmentID]
		if commitmentNode == nil {
			commitmentNode = newNode(commitmentID, configName(configs.Commitments, commitmentID, commitmentID), 2, h.VectorLength)
			groupNode.Children[commitmentID] = commitmentNode
		}
		commitmentNode.BudgetedValues[idx] += amount
	}
	return warnings
}

func configName(table map[string]ConfigEntry, id, fallback string) string {
	if entry, ok := table[id]; ok && entry.Name != "" {
		return entry.Name
	}
	return fallback
}

// Variance returns actual minus budgeted, elementwise. Aggregation is a
// linear sum, so aggregating each side first and subtracting after yields
// the same result as aggregating this difference.
func Variance(actual, budgeted []float64) []float64 {
	n := len(actual)
	if len(budgeted) > n {
		n = len(budgeted)
	}
	out := make([]float64, n)
	for i := range out {
		var a, b float64
		if i < len(actual) {
			a = actual[i]
		}
		if i < len(budgeted) {
			b = budgeted[i]
		}
		out[i] = a - b
	}
	return out
}
