package dre

import (
	"reflect"
	"testing"
)

func TestAggregateQuarter(t *testing.T) {
	monthly := []float64{10, 20, 30, 10, 20, 30, 10, 20, 30, 10, 20, 30}
	got, err := AggregatePeriods(monthly, ViewQuarter, 1)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	want := []float64{60, 60, 60, 60}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v got %v", want, got)
	}
}

func TestAggregateMonthIsIdentity(t *testing.T) {
	monthly := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	got, err := AggregatePeriods(monthly, ViewMonth, 1)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if !reflect.DeepEqual(got, monthly) {
		t.Fatalf("expected identity, got %v", got)
	}
}

func TestAggregateSemesterAndYear(t *testing.T) {
	monthly := []float64{1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2}
	semester, err := AggregatePeriods(monthly, ViewSemester, 1)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if !reflect.DeepEqual(semester, []float64{6, 12}) {
		t.Fatalf("unexpected semesters %v", semester)
	}
	year, err := AggregatePeriods(monthly, ViewYear, 1)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if !reflect.DeepEqual(year, []float64{18}) {
		t.Fatalf("unexpected year %v", year)
	}
}

func TestMultiYearNoBleed(t *testing.T) {
	// 2023 months hold 1s, 2024 months hold 10s; yearly buckets must not mix.
	values := make([]float64, 24)
	for i := 0; i < 12; i++ {
		values[i] = 1
		values[12+i] = 10
	}
	got, err := AggregatePeriods(values, ViewYear, 2)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if !reflect.DeepEqual(got, []float64{12, 120}) {
		t.Fatalf("expected [12 120] got %v", got)
	}

	quarters, err := AggregatePeriods(values, ViewQuarter, 2)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(quarters) != 8 {
		t.Fatalf("expected 8 quarter columns, got %d", len(quarters))
	}
	if quarters[0] != 3 || quarters[4] != 30 {
		t.Fatalf("quarters bled across years: %v", quarters)
	}
}

func TestAggregateRejectsUnknownView(t *testing.T) {
	if _, err := AggregatePeriods(make([]float64, 12), ViewType("weekly"), 1); err == nil {
		t.Fatalf("expected error for unknown view")
	}
}

func TestColumnLabelsSingleYear(t *testing.T) {
	labels, err := ColumnLabels(ViewQuarter, []int{2024})
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	if !reflect.DeepEqual(labels, []string{"Q1", "Q2", "Q3", "Q4"}) {
		t.Fatalf("unexpected labels %v", labels)
	}
	months, _ := ColumnLabels(ViewMonth, []int{2024})
	if len(months) != 12 || months[0] != "Jan" || months[11] != "Dez" {
		t.Fatalf("unexpected month labels %v", months)
	}
}

func TestColumnLabelsMultiYearLockstep(t *testing.T) {
	years := []int{2023, 2024}
	labels, err := ColumnLabels(ViewSemester, years)
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	want := []string{"S1/2023", "S2/2023", "S1/2024", "S2/2024"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("expected %v got %v", want, labels)
	}
	values, _ := AggregatePeriods(make([]float64, 24), ViewSemester, 2)
	if len(values) != len(labels) {
		t.Fatalf("labels and values out of lockstep: %d vs %d", len(labels), len(values))
	}
}
