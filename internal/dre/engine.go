package dre

// ReportInput carries one aggregation pass's already-fetched record sets.
// The engine is synchronous and deterministic: the same input produces the
// same report regardless of the order the records were fetched in.
type ReportInput struct {
	Mode            ReportMode
	View            ViewType
	Years           []int
	Transactions    []TransactionRecord
	Classifications map[int64]ClassificationRef
	Forecasts       []ForecastRecord
	Configs         ConfigBundle
}

// BuildReport runs the full pipeline: resolve classifications, accumulate
// actuals into the hierarchy, reconcile forecasts, then flatten into
// period-aggregated lines. The hierarchy is local to this call and
// discarded before returning, so concurrent calls never share state.
func BuildReport(in ReportInput) (Report, error) {
	if len(in.Years) == 0 {
		return Report{Lines: []DRELine{}, Columns: []string{}}, nil
	}
	if in.Mode == "" {
		in.Mode = ModeBudget
	}
	if in.View == "" {
		in.View = ViewMonth
	}
	if _, err := bucketSize(in.View); err != nil {
		return Report{}, err
	}

	h := NewHierarchy(monthsPerYear * len(in.Years))

	unclassified := 0
	for _, tx := range in.Transactions {
		ref, ok := in.Classifications[tx.ID]
		var refPtr *ClassificationRef
		if ok {
			refPtr = &ref
		}
		path, ok := ResolvePath(refPtr, in.Mode, in.Configs)
		if !ok {
			unclassified++
			continue
		}
		idx, ok := PeriodIndex(tx.Date, in.Years)
		if !ok {
			continue
		}
		h.Accumulate(path, idx, SignedAmount(tx))
	}

	warnings := Reconcile(h, in.Forecasts, in.Configs, in.Years)

	lines, err := MaterializeLines(h, in.View, in.Years)
	if err != nil {
		return Report{}, err
	}
	columns, err := ColumnLabels(in.View, in.Years)
	if err != nil {
		return Report{}, err
	}

	totals := make([]float64, len(columns))
	budgetedTotals := make([]float64, len(columns))
	for _, line := range lines {
		if line.Level != 0 {
			continue
		}
		for i := range columns {
			if i < len(line.Values) {
				totals[i] += line.Values[i]
			}
			if i < len(line.BudgetedValues) {
				budgetedTotals[i] += line.BudgetedValues[i]
			}
		}
	}

	return Report{
		Lines:             lines,
		Columns:           columns,
		Totals:            totals,
		BudgetedTotals:    budgetedTotals,
		UnclassifiedCount: unclassified,
		Warnings:          warnings,
	}, nil
}
