package types

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cooperval/controladoria/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, companyID int64, filters shared.ListFilters) ([]CommitmentType, int, error)
	Get(ctx context.Context, companyID int64, id string) (CommitmentType, error)
	Create(ctx context.Context, in Input) (CommitmentType, error)
	Update(ctx context.Context, in Input) error
	Delete(ctx context.Context, companyID int64, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, companyID int64, filters shared.ListFilters) ([]CommitmentType, int, error) {
	filters = filters.Normalize()
	query := `SELECT id, company_id, name FROM commitment_types WHERE company_id = $1`
	args := []interface{}{companyID}
	if filters.Search != "" {
		query += ` AND (name ILIKE $2 OR id ILIKE $2)`
		args = append(args, "%"+filters.Search+"%")
	}

	countQuery := `SELECT COUNT(*) FROM commitment_types WHERE company_id = $1`
	countArgs := []interface{}{companyID}
	if filters.Search != "" {
		countQuery += ` AND (name ILIKE $2 OR id ILIKE $2)`
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if filters.SortDir == "desc" {
		dir = "DESC"
	}
	query += " ORDER BY name " + dir
	query += " LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, filters.Limit, (filters.Page-1)*filters.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []CommitmentType
	for rows.Next() {
		var t CommitmentType
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Name); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, companyID int64, id string) (CommitmentType, error) {
	const query = `SELECT id, company_id, name FROM commitment_types WHERE company_id = $1 AND id = $2`
	var t CommitmentType
	if err := r.pool.QueryRow(ctx, query, companyID, id).Scan(&t.ID, &t.CompanyID, &t.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CommitmentType{}, shared.ErrNotFound
		}
		return CommitmentType{}, err
	}
	return t, nil
}

func (r *repository) Create(ctx context.Context, in Input) (CommitmentType, error) {
	const query = `INSERT INTO commitment_types (id, company_id, name) VALUES ($1, $2, $3) RETURNING id, company_id, name`
	var t CommitmentType
	if err := r.pool.QueryRow(ctx, query, in.ID, in.CompanyID, in.Name).Scan(&t.ID, &t.CompanyID, &t.Name); err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return CommitmentType{}, shared.ErrDuplicate
		}
		return CommitmentType{}, err
	}
	return t, nil
}

func (r *repository) Update(ctx context.Context, in Input) error {
	const query = `UPDATE commitment_types SET name = $3 WHERE company_id = $2 AND id = $1`
	tag, err := r.pool.Exec(ctx, query, in.ID, in.CompanyID, in.Name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, companyID int64, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM commitment_types WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23503" {
			return shared.ErrInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
