package dre

import (
	"reflect"
	"testing"
	"time"
)

func januaryScenarioInput() ReportInput {
	jan := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	return ReportInput{
		Mode:  ModeBudget,
		View:  ViewMonth,
		Years: []int{2024},
		Transactions: []TransactionRecord{
			{ID: 1, Amount: 100, Date: jan, Kind: KindCredit},
			{ID: 2, Amount: 40, Date: jan, Kind: KindDebit},
		},
		Classifications: map[int64]ClassificationRef{
			1: {
				TransactionID:   1,
				Commitment:      &EntityRef{ID: "A", Name: "Frete"},
				CommitmentGroup: &EntityRef{ID: "G1", Name: "Logística"},
				CommitmentType:  &EntityRef{ID: "T1", Name: "Custo"},
			},
			2: {
				TransactionID:   2,
				Commitment:      &EntityRef{ID: "A", Name: "Frete"},
				CommitmentGroup: &EntityRef{ID: "G1", Name: "Logística"},
				CommitmentType:  &EntityRef{ID: "T1", Name: "Custo"},
			},
		},
		Forecasts: []ForecastRecord{
			{MonthYear: "2024-01-01", CommitmentTypeID: "T1", BudgetedAmount: 50},
		},
		Configs: testConfigs(),
	}
}

func lineByID(t *testing.T, lines []DRELine, id string) DRELine {
	t.Helper()
	for _, l := range lines {
		if l.ID == id {
			return l
		}
	}
	t.Fatalf("line %s not found", id)
	return DRELine{}
}

func TestBuildReportJanuaryScenario(t *testing.T) {
	report, err := BuildReport(januaryScenarioInput())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	typeLine := lineByID(t, report.Lines, "type-T1")
	if typeLine.Values[0] != 60 {
		t.Fatalf("expected T1 January actual 60, got %v", typeLine.Values[0])
	}
	if typeLine.BudgetedValues[0] != 50 {
		t.Fatalf("expected T1 January budgeted 50, got %v", typeLine.BudgetedValues[0])
	}

	groupLine := lineByID(t, report.Lines, "group-G1")
	if groupLine.Values[0] != 60 {
		t.Fatalf("expected G1 January actual 60, got %v", groupLine.Values[0])
	}
	if groupLine.BudgetedValues[0] != 0 {
		t.Fatalf("type-only forecast must not touch the group, got %v", groupLine.BudgetedValues[0])
	}

	commitmentLine := lineByID(t, report.Lines, "commitment-A")
	if commitmentLine.Values[0] != 60 {
		t.Fatalf("expected commitment A January actual 60, got %v", commitmentLine.Values[0])
	}

	variance := Variance(typeLine.Values, typeLine.BudgetedValues)
	if variance[0] != 10 {
		t.Fatalf("expected January variance 10, got %v", variance[0])
	}

	if report.Totals[0] != 60 || report.BudgetedTotals[0] != 50 {
		t.Fatalf("unexpected grand totals %v / %v", report.Totals, report.BudgetedTotals)
	}
}

func TestBuildReportCountsUnclassified(t *testing.T) {
	in := januaryScenarioInput()
	in.Transactions = append(in.Transactions, TransactionRecord{
		ID: 3, Amount: 99, Date: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), Kind: KindCredit,
	})
	report, err := BuildReport(in)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if report.UnclassifiedCount != 1 {
		t.Fatalf("expected 1 unclassified, got %d", report.UnclassifiedCount)
	}
	if report.Totals[0] != 60 {
		t.Fatalf("unclassified row must not contribute, got %v", report.Totals[0])
	}
}

func TestBuildReportStatementModeKeepsPartial(t *testing.T) {
	in := januaryScenarioInput()
	in.Mode = ModeStatement
	in.Transactions = append(in.Transactions, TransactionRecord{
		ID: 3, Amount: 10, Date: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), Kind: KindCredit,
	})
	in.Classifications[3] = ClassificationRef{
		TransactionID:   3,
		CommitmentGroup: &EntityRef{ID: "G1", Name: "Logística"},
		CommitmentType:  &EntityRef{ID: "T1", Name: "Custo"},
	}
	report, err := BuildReport(in)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if report.UnclassifiedCount != 0 {
		t.Fatalf("partial classification is not unclassified in statement mode")
	}
	outros := lineByID(t, report.Lines, "commitment-"+OthersID)
	if outros.Values[0] != 10 {
		t.Fatalf("expected Outros bucket 10, got %v", outros.Values[0])
	}
	if lineByID(t, report.Lines, "group-G1").Values[0] != 70 {
		t.Fatalf("group must absorb the partial row")
	}
}

func TestBuildReportDeterministic(t *testing.T) {
	first, err := BuildReport(januaryScenarioInput())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := BuildReport(januaryScenarioInput())
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("report not deterministic")
		}
	}
}

func TestBuildReportEmptyYears(t *testing.T) {
	report, err := BuildReport(ReportInput{Mode: ModeBudget, View: ViewMonth})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(report.Lines) != 0 || len(report.Columns) != 0 {
		t.Fatalf("empty year selection must yield an empty report")
	}
}

func TestBuildReportRejectsUnknownView(t *testing.T) {
	in := januaryScenarioInput()
	in.View = ViewType("weekly")
	if _, err := BuildReport(in); err == nil {
		t.Fatalf("expected invalid view error")
	}
}

func TestBuildReportSkipsOutOfRangeTransaction(t *testing.T) {
	in := januaryScenarioInput()
	in.Transactions = append(in.Transactions, TransactionRecord{
		ID: 4, Amount: 500, Date: time.Date(2022, time.May, 1, 0, 0, 0, 0, time.UTC), Kind: KindCredit,
	})
	in.Classifications[4] = in.Classifications[1]
	report, err := BuildReport(in)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if report.Totals[4] != 0 {
		t.Fatalf("out-of-range year must not contribute")
	}
	if lineByID(t, report.Lines, "type-T1").Values[0] != 60 {
		t.Fatalf("January total must be unchanged")
	}
}
