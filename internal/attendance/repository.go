package attendance

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/attendly/attendly/internal/shared"
)

type Repository interface {
	List(ctx context.Context, tenantID *uuid.UUID, filters shared.ListFilters) ([]Event, int, error)
	Get(ctx context.Context, id uuid.UUID) (Event, error)
	FindOpenByStudent(ctx context.Context, studentID uuid.UUID) (Event, error)
	ListOpen(ctx context.Context) ([]Event, error)
	Create(ctx context.Context, event Event) (Event, error)
	Close(ctx context.Context, id uuid.UUID, checkoutTime time.Time, durationMinutes int, autoClosed bool) error
	SummarizeDay(ctx context.Context, tenantID uuid.UUID, day time.Time) (DaySummary, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const eventColumns = `id, tenant_id, branch_id, student_id, student_name, student_code, checkin_time, checkout_time, duration_minutes, auto_closed, created_at, updated_at`

func scanEvent(row pgx.Row) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.TenantID, &e.BranchID, &e.StudentID, &e.StudentName, &e.StudentCode, &e.CheckinTime, &e.CheckoutTime, &e.DurationMinutes, &e.AutoClosed, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Event{}, shared.ErrNotFound
	}
	return e, err
}

func (r *repository) List(ctx context.Context, tenantID *uuid.UUID, filters shared.ListFilters) ([]Event, int, error) {
	query := `SELECT ` + eventColumns + ` FROM attendance_events WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM attendance_events WHERE 1=1`
	args := []any{}

	appendClause := func(clause string) {
		query += clause
		countQuery += clause
	}

	if tenantID != nil {
		args = append(args, *tenantID)
		appendClause(` AND tenant_id = $` + strconv.Itoa(len(args)))
	}
	if filters.BranchID != nil {
		if parsed, err := uuid.Parse(*filters.BranchID); err == nil {
			args = append(args, parsed)
			appendClause(` AND branch_id = $` + strconv.Itoa(len(args)))
		}
	}
	if filters.StudentID != nil {
		if parsed, err := uuid.Parse(*filters.StudentID); err == nil {
			args = append(args, parsed)
			appendClause(` AND student_id = $` + strconv.Itoa(len(args)))
		}
	}
	if filters.From != nil {
		args = append(args, *filters.From)
		appendClause(` AND checkin_time >= $` + strconv.Itoa(len(args)))
	}
	if filters.To != nil {
		args = append(args, *filters.To)
		appendClause(` AND checkin_time < $` + strconv.Itoa(len(args)))
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY checkin_time DESC`
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

	var events []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Event, error) {
	row := r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM attendance_events WHERE id = $1`, id)
	return scanEvent(row)
}

func (r *repository) FindOpenByStudent(ctx context.Context, studentID uuid.UUID) (Event, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM attendance_events WHERE student_id = $1 AND checkout_time IS NULL ORDER BY checkin_time DESC LIMIT 1`,
		studentID)
	return scanEvent(row)
}

func (r *repository) ListOpen(ctx context.Context) ([]Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+` FROM attendance_events WHERE checkout_time IS NULL ORDER BY checkin_time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *repository) Create(ctx context.Context, event Event) (Event, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO attendance_events (id, tenant_id, branch_id, student_id, student_name, student_code, checkin_time)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+eventColumns,
		event.ID, event.TenantID, event.BranchID, event.StudentID, event.StudentName, event.StudentCode, event.CheckinTime)
	return scanEvent(row)
}

func (r *repository) Close(ctx context.Context, id uuid.UUID, checkoutTime time.Time, durationMinutes int, autoClosed bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE attendance_events SET checkout_time = $1, duration_minutes = $2, auto_closed = $3, updated_at = NOW()
		 WHERE id = $4 AND checkout_time IS NULL`,
		checkoutTime, durationMinutes, autoClosed, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DaySummary aggregates one tenant's attendance for a single day.
type DaySummary struct {
	TenantID       uuid.UUID          `json:"tenant_id"`
	Day            string             `json:"day"`
	Checkins       int                `json:"checkins"`
	Checkouts      int                `json:"checkouts"`
	StillOpen      int                `json:"still_open"`
	TotalMinutes   int                `json:"total_minutes"`
	UniqueStudents int                `json:"unique_students"`
	Branches       []BranchDaySummary `json:"branches,omitempty"`
}

// BranchDaySummary is the per-branch slice of a DaySummary.
type BranchDaySummary struct {
	BranchID   uuid.UUID `json:"branch_id"`
	BranchName string    `json:"branch_name"`
	Checkins   int       `json:"checkins"`
	StillOpen  int       `json:"still_open"`
	AvgMinutes int       `json:"avg_minutes"`
}

func (r *repository) SummarizeDay(ctx context.Context, tenantID uuid.UUID, day time.Time) (DaySummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	summary := DaySummary{TenantID: tenantID, Day: start.Format("2006-01-02")}
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(checkout_time),
		        COUNT(*) FILTER (WHERE checkout_time IS NULL),
		        COALESCE(SUM(duration_minutes), 0),
		        COUNT(DISTINCT student_id)
		 FROM attendance_events
		 WHERE tenant_id = $1 AND checkin_time >= $2 AND checkin_time < $3`,
		tenantID, start, end).
		Scan(&summary.Checkins, &summary.Checkouts, &summary.StillOpen, &summary.TotalMinutes, &summary.UniqueStudents)
	if err != nil {
		return summary, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT e.branch_id,
		        COALESCE(b.name, ''),
		        COUNT(*),
		        COUNT(*) FILTER (WHERE e.checkout_time IS NULL),
		        COALESCE(AVG(e.duration_minutes), 0)::int
		 FROM attendance_events e
		 LEFT JOIN branches b ON b.id = e.branch_id
		 WHERE e.tenant_id = $1 AND e.checkin_time >= $2 AND e.checkin_time < $3
		 GROUP BY e.branch_id, b.name
		 ORDER BY b.name`,
		tenantID, start, end)
	if err != nil {
		return summary, err
	}
	defer rows.Close()

	for rows.Next() {
		var b BranchDaySummary
		if err := rows.Scan(&b.BranchID, &b.BranchName, &b.Checkins, &b.StillOpen, &b.AvgMinutes); err != nil {
			return summary, err
		}
		summary.Branches = append(summary.Branches, b)
	}
	return summary, rows.Err()
}
