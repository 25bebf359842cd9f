package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/attendly/attendly/internal/attendance"
	jobmetrics "github.com/attendly/attendly/internal/jobs"
)

// DaySummarizer is the slice of the attendance service the summary job needs.
type DaySummarizer interface {
	SummarizeDay(ctx context.Context, tenantID uuid.UUID, day time.Time) (attendance.DaySummary, error)
}

// DailySummaryJob materialises one summary row per active tenant per day.
type DailySummaryJob struct {
	Pool       *pgxpool.Pool
	Summarizer DaySummarizer
	Logger     *slog.Logger
	Metrics    *jobmetrics.Metrics
	clock      func() time.Time
}

// NewDailySummaryJob initialises the summary handler.
func NewDailySummaryJob(pool *pgxpool.Pool, summarizer DaySummarizer, logger *slog.Logger, metrics *jobmetrics.Metrics) *DailySummaryJob {
	return &DailySummaryJob{
		Pool:       pool,
		Summarizer: summarizer,
		Logger:     logger,
		Metrics:    metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle summarises the requested day (default: yesterday) for every active
// tenant and upserts the rows into daily_summaries.
func (j *DailySummaryJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil || j.Summarizer == nil {
		return errors.New("daily summary: handler not configured")
	}
	var payload DailySummaryPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	day := j.clock().AddDate(0, 0, -1)
	if payload.Date != "" {
		parsed, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			return asynq.SkipRetry
		}
		day = parsed
	}

	tracker := j.Metrics.Track(TaskReportsDailySummary)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	rows, err := j.Pool.Query(ctx, `SELECT id FROM tenants WHERE status = 'active'`)
	if err != nil {
		resultErr = err
		return err
	}
	defer rows.Close()

	var tenantIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			resultErr = err
			return err
		}
		tenantIDs = append(tenantIDs, id)
	}
	if err := rows.Err(); err != nil {
		resultErr = err
		return err
	}

	summarised := 0
	for _, tenantID := range tenantIDs {
		summary, err := j.Summarizer.SummarizeDay(ctx, tenantID, day)
		if err != nil {
			j.Logger.Error("summarise tenant day",
				slog.String("tenant_id", tenantID.String()),
				slog.Any("error", err))
			continue
		}
		if err := j.upsert(ctx, summary); err != nil {
			j.Logger.Error("store daily summary",
				slog.String("tenant_id", tenantID.String()),
				slog.Any("error", err))
			continue
		}
		summarised++
	}

	j.Logger.Info("daily summary complete",
		slog.String("day", day.Format("2006-01-02")),
		slog.Int("tenants", summarised))
	return nil
}

func (j *DailySummaryJob) upsert(ctx context.Context, summary attendance.DaySummary) error {
	_, err := j.Pool.Exec(ctx,
		`INSERT INTO daily_summaries (tenant_id, day, checkins, checkouts, still_open, total_minutes, unique_students)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (tenant_id, day) DO UPDATE SET
		   checkins = EXCLUDED.checkins,
		   checkouts = EXCLUDED.checkouts,
		   still_open = EXCLUDED.still_open,
		   total_minutes = EXCLUDED.total_minutes,
		   unique_students = EXCLUDED.unique_students`,
		summary.TenantID, summary.Day, summary.Checkins, summary.Checkouts, summary.StillOpen, summary.TotalMinutes, summary.UniqueStudents)
	return err
}
