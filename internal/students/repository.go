package students

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
	List(ctx context.Context, tenantID *uuid.UUID, filters shared.ListFilters) ([]Student, int, error)
	Get(ctx context.Context, id uuid.UUID) (Student, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (Student, error)
	Create(ctx context.Context, student Student) (Student, error)
	Update(ctx context.Context, id uuid.UUID, student Student) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const studentColumns = `id, tenant_id, branch_id, student_code, full_name, pin_hash, is_active, created_at, updated_at`

func scanStudent(row pgx.Row) (Student, error) {
	var s Student
	err := row.Scan(&s.ID, &s.TenantID, &s.BranchID, &s.Code, &s.FullName, &s.PINHash, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Student{}, shared.ErrNotFound
	}
	return s, err
}

func (r *repository) List(ctx context.Context, tenantID *uuid.UUID, filters shared.ListFilters) ([]Student, int, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM students WHERE 1=1`
	args := []any{}

	if tenantID != nil {
		args = append(args, *tenantID)
		clause := ` AND tenant_id = $` + strconv.Itoa(len(args))
		query += clause
		countQuery += clause
	}
	if filters.BranchID != nil {
		if parsed, err := uuid.Parse(*filters.BranchID); err == nil {
			args = append(args, parsed)
			clause := ` AND branch_id = $` + strconv.Itoa(len(args))
			query += clause
			countQuery += clause
		}
	}
	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		clause := ` AND is_active = $` + strconv.Itoa(len(args))
		query += clause
		countQuery += clause
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		clause := ` AND (full_name ILIKE $` + strconv.Itoa(len(args)) + ` OR student_code ILIKE $` + strconv.Itoa(len(args)) + `)`
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

	var students []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.TenantID, &s.BranchID, &s.Code, &s.FullName, &s.PINHash, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		students = append(students, s)
	}
	return students, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Student, error) {
	return scanStudent(r.db.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id))
}

func (r *repository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (Student, error) {
	return scanStudent(r.db.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE tenant_id = $1 AND student_code = $2`, tenantID, code))
}

func (r *repository) Create(ctx context.Context, student Student) (Student, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO students (id, tenant_id, branch_id, student_code, full_name, pin_hash, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`,
		student.ID, student.TenantID, student.BranchID, student.Code, student.FullName, student.PINHash, student.IsActive).
		Scan(&student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Student{}, shared.ErrDuplicate
		}
		return Student{}, err
	}
	return student, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, student Student) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE students SET branch_id = $1, full_name = $2, pin_hash = $3, is_active = $4, updated_at = NOW() WHERE id = $5`,
		student.BranchID, student.FullName, student.PINHash, student.IsActive, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
