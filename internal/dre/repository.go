package dre

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// classificationChunkSize caps how many transaction ids a single
// classification query may carry; larger requests are split and merged.
const classificationChunkSize = 200

// Repository provides the four record streams the engine consumes.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a DRE repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FetchTransactions returns movements for the company (optionally one
// branch) inside [from, to].
func (r *Repository) FetchTransactions(ctx context.Context, companyID int64, branchID *int64, from, to time.Time) ([]TransactionRecord, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("dre repo not initialised")
	}
	const query = `
		SELECT id, amount, movement_date, kind
		FROM financial_transactions
		WHERE company_id = $1
		  AND ($2::bigint IS NULL OR branch_id = $2)
		  AND movement_date BETWEEN $3 AND $4
		ORDER BY id`
	branch := pgtype.Int8{}
	if branchID != nil {
		branch = pgtype.Int8{Int64: *branchID, Valid: true}
	}
	rows, err := r.pool.Query(ctx, query, companyID, branch, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransactionRecord
	for rows.Next() {
		var tx TransactionRecord
		var kind string
		if err := rows.Scan(&tx.ID, &tx.Amount, &tx.Date, &kind); err != nil {
			return nil, err
		}
		tx.Kind = TransactionKind(kind)
		out = append(out, tx)
	}
	return out, rows.Err()
}

// FetchClassifications resolves classification rows for the given
// transaction ids, chunking the id list to respect the backend's IN-clause
// limit and merging the partial results.
func (r *Repository) FetchClassifications(ctx context.Context, transactionIDs []int64) (map[int64]ClassificationRef, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("dre repo not initialised")
	}
	out := make(map[int64]ClassificationRef, len(transactionIDs))
	for start := 0; start < len(transactionIDs); start += classificationChunkSize {
		end := start + classificationChunkSize
		if end > len(transactionIDs) {
			end = len(transactionIDs)
		}
		if err := r.fetchClassificationChunk(ctx, transactionIDs[start:end], out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Repository) fetchClassificationChunk(ctx context.Context, ids []int64, out map[int64]ClassificationRef) error {
	const query = `
		SELECT transaction_id,
		       commitment_id, commitment_name,
		       commitment_group_id, commitment_group_name,
		       commitment_type_id, commitment_type_name
		FROM transaction_classifications
		WHERE transaction_id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ref ClassificationRef
		var commitmentID, commitmentName *string
		var groupID, groupName *string
		var typeID, typeName *string
		if err := rows.Scan(&ref.TransactionID, &commitmentID, &commitmentName, &groupID, &groupName, &typeID, &typeName); err != nil {
			return err
		}
		ref.Commitment = entityRef(commitmentID, commitmentName)
		ref.CommitmentGroup = entityRef(groupID, groupName)
		ref.CommitmentType = entityRef(typeID, typeName)
		out[ref.TransactionID] = ref
	}
	return rows.Err()
}

func entityRef(id, name *string) *EntityRef {
	if id == nil || *id == "" {
		return nil
	}
	ref := &EntityRef{ID: *id}
	if name != nil {
		ref.Name = *name
	}
	return ref
}

// FetchForecasts returns budget rows for the company inside [from, to].
// The month_year column is read as text so the engine can parse the month
// without calendar reinterpretation.
func (r *Repository) FetchForecasts(ctx context.Context, companyID int64, from, to time.Time) ([]ForecastRecord, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("dre repo not initialised")
	}
	const query = `
		SELECT company_id, month_year::text,
		       commitment_type_id,
		       COALESCE(commitment_group_id, ''),
		       COALESCE(commitment_id, ''),
		       COALESCE(budgeted_amount, 0)
		FROM budget_forecasts
		WHERE company_id = $1
		  AND month_year BETWEEN $2 AND $3
		ORDER BY month_year, commitment_type_id`
	rows, err := r.pool.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ForecastRecord
	for rows.Next() {
		var fc ForecastRecord
		if err := rows.Scan(&fc.CompanyID, &fc.MonthYear, &fc.CommitmentTypeID, &fc.CommitmentGroupID, &fc.CommitmentID, &fc.BudgetedAmount); err != nil {
			return nil, err
		}
		out = append(out, fc)
	}
	return out, rows.Err()
}

// FetchConfigs loads the id-indexed reference tables for the company.
func (r *Repository) FetchConfigs(ctx context.Context, companyID int64) (ConfigBundle, error) {
	if r == nil || r.pool == nil {
		return ConfigBundle{}, fmt.Errorf("dre repo not initialised")
	}
	bundle := ConfigBundle{
		CommitmentTypes: make(map[string]ConfigEntry),
		Groups:          make(map[string]ConfigEntry),
		Commitments:     make(map[string]ConfigEntry),
	}
	queries := []struct {
		sql  string
		dest map[string]ConfigEntry
	}{
		{`SELECT id, name, '' FROM commitment_types WHERE company_id = $1`, bundle.CommitmentTypes},
		{`SELECT id, name, COALESCE(commitment_type_id, '') FROM commitment_groups WHERE company_id = $1`, bundle.Groups},
		{`SELECT id, name, COALESCE(commitment_group_id, '') FROM commitments WHERE company_id = $1`, bundle.Commitments},
	}
	for _, q := range queries {
		rows, err := r.pool.Query(ctx, q.sql, companyID)
		if err != nil {
			return ConfigBundle{}, err
		}
		for rows.Next() {
			var entry ConfigEntry
			if err := rows.Scan(&entry.ID, &entry.Name, &entry.ParentID); err != nil {
				rows.Close()
				return ConfigBundle{}, err
			}
			q.dest[entry.ID] = entry
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return ConfigBundle{}, err
		}
	}
	return bundle, nil
}
