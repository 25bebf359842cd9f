package branches

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/attendly/attendly/internal/shared"
)

type Repository interface {
	List(ctx context.Context, tenantID *uuid.UUID, filters shared.ListFilters) ([]Branch, int, error)
	Get(ctx context.Context, id uuid.UUID) (Branch, error)
	Create(ctx context.Context, branch Branch) (Branch, error)
	Update(ctx context.Context, id uuid.UUID, branch Branch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const branchColumns = `id, tenant_id, code, name, address, created_at, updated_at`

func (r *repository) List(ctx context.Context, tenantID *uuid.UUID, filters shared.ListFilters) ([]Branch, int, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM branches WHERE 1=1`
	args := []any{}

	if tenantID != nil {
		args = append(args, *tenantID)
		clause := ` AND tenant_id = $` + strconv.Itoa(len(args))
		query += clause
		countQuery += clause
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		clause := ` AND (name ILIKE $` + strconv.Itoa(len(args)) + ` OR code ILIKE $` + strconv.Itoa(len(args)) + `)`
		query += clause
		countQuery += clause
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY name ASC`
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var branches []Branch
	for rows.Next() {
		var b Branch
		if err := rows.Scan(&b.ID, &b.TenantID, &b.Code, &b.Name, &b.Address, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		branches = append(branches, b)
	}
	return branches, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Branch, error) {
	var b Branch
	err := r.db.QueryRow(ctx, `SELECT `+branchColumns+` FROM branches WHERE id = $1`, id).
		Scan(&b.ID, &b.TenantID, &b.Code, &b.Name, &b.Address, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Branch{}, shared.ErrNotFound
	}
	return b, err
}

func (r *repository) Create(ctx context.Context, branch Branch) (Branch, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO branches (id, tenant_id, code, name, address) VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`,
		branch.ID, branch.TenantID, branch.Code, branch.Name, branch.Address).
		Scan(&branch.CreatedAt, &branch.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Branch{}, shared.ErrDuplicate
		}
		return Branch{}, err
	}
	return branch, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, branch Branch) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE branches SET code = $1, name = $2, address = $3, updated_at = NOW() WHERE id = $4`,
		branch.Code, branch.Name, branch.Address, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
