package teachers

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
	List(ctx context.Context, tenantID *uuid.UUID, filters shared.ListFilters) ([]Teacher, int, error)
	Get(ctx context.Context, id uuid.UUID) (Teacher, error)
	Create(ctx context.Context, teacher Teacher) (Teacher, error)
	Update(ctx context.Context, id uuid.UUID, teacher Teacher) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const teacherColumns = `id, tenant_id, branch_id, employee_code, full_name, email, subject, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, tenantID *uuid.UUID, filters shared.ListFilters) ([]Teacher, int, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM teachers WHERE 1=1`
	args := []any{}

	if tenantID != nil {
		args = append(args, *tenantID)
		clause := ` AND tenant_id = $` + strconv.Itoa(len(args))
		query += clause
		countQuery += clause
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		clause := ` AND (full_name ILIKE $` + strconv.Itoa(len(args)) + ` OR employee_code ILIKE $` + strconv.Itoa(len(args)) + `)`
		query += clause
		countQuery += clause
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY full_name ASC`
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

	var teachers []Teacher
	for rows.Next() {
		var t Teacher
		if err := rows.Scan(&t.ID, &t.TenantID, &t.BranchID, &t.EmployeeCode, &t.FullName, &t.Email, &t.Subject, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		teachers = append(teachers, t)
	}
	return teachers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Teacher, error) {
	var t Teacher
	err := r.db.QueryRow(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE id = $1`, id).
		Scan(&t.ID, &t.TenantID, &t.BranchID, &t.EmployeeCode, &t.FullName, &t.Email, &t.Subject, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Teacher{}, shared.ErrNotFound
	}
	return t, err
}

func (r *repository) Create(ctx context.Context, teacher Teacher) (Teacher, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO teachers (id, tenant_id, branch_id, employee_code, full_name, email, subject, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at, updated_at`,
		teacher.ID, teacher.TenantID, teacher.BranchID, teacher.EmployeeCode, teacher.FullName, teacher.Email, teacher.Subject, teacher.IsActive).
		Scan(&teacher.CreatedAt, &teacher.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Teacher{}, shared.ErrDuplicate
		}
		return Teacher{}, err
	}
	return teacher, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, teacher Teacher) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE teachers SET branch_id = $1, full_name = $2, email = $3, subject = $4, is_active = $5, updated_at = NOW() WHERE id = $6`,
		teacher.BranchID, teacher.FullName, teacher.Email, teacher.Subject, teacher.IsActive, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
