// Package dre implements the hierarchical DRE (Demonstrativo de Resultado)
// aggregation engine: classification resolution, three-level roll-up of
// signed monthly amounts, period aggregation and budget reconciliation.
package dre

import (
	"errors"
	"time"
)

// TransactionKind distinguishes money in from money out.
type TransactionKind string

const (
	// KindCredit marks an inflow; it contributes a positive amount.
	KindCredit TransactionKind = "credit"
	// KindDebit marks an outflow; it contributes a negative amount.
	KindDebit TransactionKind = "debit"
)

// ReportMode selects which report the engine builds.
type ReportMode string

const (
	// ModeBudget builds the budget-vs-actual report. Transactions without a
	// full commitment classification are excluded.
	ModeBudget ReportMode = "budget"
	// ModeStatement builds the financial statement. Partially classified
	// transactions fall back to coarser "Outros" buckets.
	ModeStatement ReportMode = "statement"
)

// ViewType is the period granularity the report is collapsed to.
type ViewType string

const (
	ViewMonth    ViewType = "month"
	ViewQuarter  ViewType = "quarter"
	ViewSemester ViewType = "semester"
	ViewYear     ViewType = "year"
)

// ErrInvalidViewType indicates an unsupported period granularity.
var ErrInvalidViewType = errors.New("dre: invalid view type")

// TransactionRecord is a classified financial movement as fetched from the
// backend. Amount is a magnitude; the sign is derived from Kind.
type TransactionRecord struct {
	ID     int64
	Amount float64
	Date   time.Time
	Kind   TransactionKind
}

// EntityRef is an id/name pair carried on a classification row.
type EntityRef struct {
	ID   string
	Name string
}

// ClassificationRef links a transaction to its hierarchy triple. The group
// and type here are the classification row's own denormalized fields, which
// may differ from the commitment master record's defaults.
type ClassificationRef struct {
	TransactionID   int64
	Commitment      *EntityRef
	CommitmentGroup *EntityRef
	CommitmentType  *EntityRef
}

// ForecastRecord is a planned amount at exactly one hierarchy level for one
// month. MonthYear is the raw first-of-month date string ("2006-01-02"); the
// month is parsed out of it textually to avoid timezone reinterpretation.
type ForecastRecord struct {
	CompanyID         int64
	MonthYear         string
	CommitmentTypeID  string
	CommitmentGroupID string
	CommitmentID      string
	BudgetedAmount    float64
}

// ConfigEntry is a reference row from the configuration tables.
type ConfigEntry struct {
	ID   string
	Name string
	// ParentID is the commitment's group or the group's type.
	ParentID string
}

// ConfigBundle holds the id-indexed reference tables the engine consults
// when a forecast names a node no transaction has touched.
type ConfigBundle struct {
	CommitmentTypes map[string]ConfigEntry
	Groups          map[string]ConfigEntry
	Commitments     map[string]ConfigEntry
}

// LineType tags the hierarchy level of a materialized line.
type LineType string

const (
	LineCommitmentType  LineType = "commitmentType"
	LineCommitmentGroup LineType = "commitmentGroup"
	LineCommitment      LineType = "commitment"
)

// DRELine is one display row of the flattened report. Lines are rebuilt on
// every aggregation pass and never mutated in place.
type DRELine struct {
	ID             string    `json:"id"`
	Label          string    `json:"label"`
	Type           LineType  `json:"type"`
	Level          int       `json:"level"`
	Values         []float64 `json:"values"`
	BudgetedValues []float64 `json:"budgeted_values"`
	Expandable     bool      `json:"expandable"`
	ParentID       string    `json:"parent_id,omitempty"`
	ItemID         string    `json:"item_id"`
}

// Report is the engine's output handed to the rendering layer.
type Report struct {
	Lines             []DRELine `json:"lines"`
	Columns           []string  `json:"columns"`
	Totals            []float64 `json:"totals"`
	BudgetedTotals    []float64 `json:"budgeted_totals"`
	UnclassifiedCount int       `json:"unclassified_count"`
	Warnings          []string  `json:"warnings,omitempty"`
}

// Placeholder ids and labels used when classification data is missing.
const (
	UnknownID        = "unknown"
	OthersID         = "outros"
	OthersName       = "Outros"
	UnknownGroupName = "Grupo Desconhecido"
	UnknownTypeName  = "Tipo Desconhecido"
)
