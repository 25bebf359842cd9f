package devices

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
	List(ctx context.Context, tenantID *uuid.UUID, filters shared.ListFilters) ([]Device, int, error)
	Get(ctx context.Context, id uuid.UUID) (Device, error)
	Create(ctx context.Context, device Device) (Device, error)
	Update(ctx context.Context, id uuid.UUID, device Device) error
	Delete(ctx context.Context, id uuid.UUID) error
	CreateEnrollment(ctx context.Context, enrollment Enrollment) (Enrollment, error)
	ListEnrollments(ctx context.Context, deviceID uuid.UUID) ([]Enrollment, error)
	DeleteEnrollment(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const deviceColumns = `id, tenant_id, branch_id, serial_number, name, model, location, ip_address, timezone_offset, status, created_at, updated_at`

func scanDevice(row pgx.Row) (Device, error) {
	var d Device
	err := row.Scan(&d.ID, &d.TenantID, &d.BranchID, &d.SerialNumber, &d.Name, &d.Model, &d.Location, &d.IPAddress, &d.TimezoneOffset, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Device{}, shared.ErrNotFound
	}
	return d, err
}

func (r *repository) List(ctx context.Context, tenantID *uuid.UUID, filters shared.ListFilters) ([]Device, int, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM devices WHERE 1=1`
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
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		clause := ` AND (name ILIKE $` + strconv.Itoa(len(args)) + ` OR serial_number ILIKE $` + strconv.Itoa(len(args)) + `)`
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
		if offset > 0 {
			args = append(args, offset)
			query += ` OFFSET $` + strconv.Itoa(len(args))
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, 0, err
		}
		devices = append(devices, d)
	}
	return devices, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Device, error) {
	row := r.db.QueryRow(ctx, `SELECT `+deviceColumns+` FROM devices WHERE id = $1`, id)
	return scanDevice(row)
}

func (r *repository) Create(ctx context.Context, device Device) (Device, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO devices (id, tenant_id, branch_id, serial_number, name, model, location, ip_address, timezone_offset, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+deviceColumns,
		device.ID, device.TenantID, device.BranchID, device.SerialNumber, device.Name, device.Model, device.Location, device.IPAddress, device.TimezoneOffset, device.Status)
	created, err := scanDevice(row)
	if err != nil {
		return Device{}, mapPgError(err)
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, device Device) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE devices SET name = $1, model = $2, location = $3, ip_address = $4, timezone_offset = $5, status = $6, updated_at = NOW() WHERE id = $7`,
		device.Name, device.Model, device.Location, device.IPAddress, device.TimezoneOffset, device.Status, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM devices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) CreateEnrollment(ctx context.Context, enrollment Enrollment) (Enrollment, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO device_enrollments (id, device_id, student_id, device_user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, device_id, student_id, device_user_id, created_at`,
		enrollment.ID, enrollment.DeviceID, enrollment.StudentID, enrollment.DeviceUserID)
	var e Enrollment
	if err := row.Scan(&e.ID, &e.DeviceID, &e.StudentID, &e.DeviceUserID, &e.CreatedAt); err != nil {
		return Enrollment{}, mapPgError(err)
	}
	return e, nil
}

func (r *repository) ListEnrollments(ctx context.Context, deviceID uuid.UUID) ([]Enrollment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, device_id, student_id, device_user_id, created_at FROM device_enrollments WHERE device_id = $1 ORDER BY created_at ASC`,
		deviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []Enrollment
	for rows.Next() {
		var e Enrollment
		if err := rows.Scan(&e.ID, &e.DeviceID, &e.StudentID, &e.DeviceUserID, &e.CreatedAt); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

func (r *repository) DeleteEnrollment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM device_enrollments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}
