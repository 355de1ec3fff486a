package dre

import "strconv"

const monthsPerYear = 12

var monthLabels = [monthsPerYear]string{
	"Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
	"Jul", "Ago", "Set", "Out", "Nov", "Dez",
}

// bucketSize returns how many months collapse into one column, or an error
// for an unknown view type.
func bucketSize(view ViewType) (int, error) {
	switch view {
	case ViewMonth:
		return 1, nil
	case ViewQuarter:
		return 3, nil
	case ViewSemester:
		return 6, nil
	case ViewYear:
		return monthsPerYear, nil
	default:
		return 0, ErrInvalidViewType
	}
}

// AggregatePeriods collapses a 12*N monthly vector into the requested
// granularity. Each year's 12-slice is aggregated independently and the
// results concatenated in year order; no value ever crosses a year
// boundary. A vector shorter than expected is treated as zero-padded.
func AggregatePeriods(values []float64, view ViewType, yearCount int) ([]float64, error) {
	size, err := bucketSize(view)
	if err != nil {
		return nil, err
	}
	if yearCount < 1 {
		yearCount = 1
	}
	perYear := monthsPerYear / size
	out := make([]float64, perYear*yearCount)
	for y := 0; y < yearCount; y++ {
		base := y * monthsPerYear
		for m := 0; m < monthsPerYear; m++ {
			idx := base + m
			if idx >= len(values) {
				break
			}
			out[y*perYear+m/size] += values[idx]
		}
	}
	return out, nil
}

// ColumnLabels produces the display label for every aggregated column, in
// lockstep with AggregatePeriods: label index i always describes value
// index i. Single-year selections use bare period labels; multi-year
// selections suffix the year onto every label.
func ColumnLabels(view ViewType, years []int) ([]string, error) {
	size, err := bucketSize(view)
	if err != nil {
		return nil, err
	}
	multi := len(years) > 1
	perYear := monthsPerYear / size
	labels := make([]string, 0, perYear*maxInt(len(years), 1))
	appendYear := func(base []string, year int) {
		for _, l := range base {
			if multi {
				l = l + "/" + strconv.Itoa(year)
			}
			labels = append(labels, l)
		}
	}
	base := basePeriodLabels(view)
	if len(years) == 0 {
		appendYear(base, 0)
		return labels, nil
	}
	for _, year := range years {
		appendYear(base, year)
	}
	return labels, nil
}

func basePeriodLabels(view ViewType) []string {
	switch view {
	case ViewQuarter:
		return []string{"Q1", "Q2", "Q3", "Q4"}
	case ViewSemester:
		return []string{"S1", "S2"}
	case ViewYear:
		return []string{"Ano"}
	default:
		return monthLabels[:]
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
