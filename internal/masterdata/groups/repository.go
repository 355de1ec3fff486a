package groups

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
	List(ctx context.Context, companyID int64, filters shared.ListFilters) ([]CommitmentGroup, int, error)
	Get(ctx context.Context, companyID int64, id string) (CommitmentGroup, error)
	Create(ctx context.Context, in Input) (CommitmentGroup, error)
	Update(ctx context.Context, in Input) error
	Delete(ctx context.Context, companyID int64, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, companyID int64, filters shared.ListFilters) ([]CommitmentGroup, int, error) {
	filters = filters.Normalize()
	query := `SELECT id, company_id, commitment_type_id, name FROM commitment_groups WHERE company_id = $1`
	args := []interface{}{companyID}
	if filters.Search != "" {
		query += ` AND (name ILIKE $2 OR id ILIKE $2)`
		args = append(args, "%"+filters.Search+"%")
	}

	countQuery := `SELECT COUNT(*) FROM commitment_groups WHERE company_id = $1`
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

	var out []CommitmentGroup
	for rows.Next() {
		var g CommitmentGroup
		if err := rows.Scan(&g.ID, &g.CompanyID, &g.CommitmentTypeID, &g.Name); err != nil {
			return nil, 0, err
		}
		out = append(out, g)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, companyID int64, id string) (CommitmentGroup, error) {
	const query = `SELECT id, company_id, commitment_type_id, name FROM commitment_groups WHERE company_id = $1 AND id = $2`
	var g CommitmentGroup
	if err := r.pool.QueryRow(ctx, query, companyID, id).Scan(&g.ID, &g.CompanyID, &g.CommitmentTypeID, &g.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CommitmentGroup{}, shared.ErrNotFound
		}
		return CommitmentGroup{}, err
	}
	return g, nil
}

func (r *repository) Create(ctx context.Context, in Input) (CommitmentGroup, error) {
	const query = `
		INSERT INTO commitment_groups (id, company_id, commitment_type_id, name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, company_id, commitment_type_id, name`
	var g CommitmentGroup
	if err := r.pool.QueryRow(ctx, query, in.ID, in.CompanyID, in.CommitmentTypeID, in.Name).Scan(&g.ID, &g.CompanyID, &g.CommitmentTypeID, &g.Name); err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			switch pgErr.Code {
			case "23505":
				return CommitmentGroup{}, shared.ErrDuplicate
			case "23503":
				return CommitmentGroup{}, shared.ErrValidation
			}
		}
		return CommitmentGroup{}, err
	}
	return g, nil
}

func (r *repository) Update(ctx context.Context, in Input) error {
	const query = `UPDATE commitment_groups SET commitment_type_id = $3, name = $4 WHERE id = $1 AND company_id = $2`
	tag, err := r.pool.Exec(ctx, query, in.ID, in.CompanyID, in.CommitmentTypeID, in.Name)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23503" {
			return shared.ErrValidation
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, companyID int64, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM commitment_groups WHERE company_id = $1 AND id = $2`, companyID, id)
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
