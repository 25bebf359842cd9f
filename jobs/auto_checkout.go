package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/attendly/attendly/internal/jobs"
)

// SessionCloser is the slice of the attendance service the sweep needs.
type SessionCloser interface {
	AutoCheckoutOpenSessions(ctx context.Context, at time.Time) (int, error)
}

// AutoCheckoutJob force-closes sessions students forgot to check out of.
type AutoCheckoutJob struct {
	Service SessionCloser
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewAutoCheckoutJob initialises the nightly sweep handler.
func NewAutoCheckoutJob(service SessionCloser, logger *slog.Logger, metrics *jobmetrics.Metrics) *AutoCheckoutJob {
	return &AutoCheckoutJob{
		Service: service,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the sweep.
func (j *AutoCheckoutJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("auto checkout: handler not configured")
	}
	var payload AutoCheckoutPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	at := j.clock()
	if payload.At != "" {
		parsed, err := time.Parse(time.RFC3339, payload.At)
		if err != nil {
			return asynq.SkipRetry
		}
		at = parsed
	}

	tracker := j.Metrics.Track(TaskAttendanceAutoCheckout)
	closed, err := j.Service.AutoCheckoutOpenSessions(ctx, at)
	if err = tracker.End(err); err != nil {
		j.Logger.Error("auto checkout sweep", slog.Any("error", err))
		return err
	}

	j.Metrics.AddClosedSessions(closed)
	j.Logger.Info("auto checkout sweep complete",
		slog.Int("closed", closed),
		slog.Time("at", at))
	return nil
}
