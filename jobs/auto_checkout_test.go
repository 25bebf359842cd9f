package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCloser struct {
	closed int
	gotAt  time.Time
	err    error
}

func (s *stubCloser) AutoCheckoutOpenSessions(ctx context.Context, at time.Time) (int, error) {
	s.gotAt = at
	return s.closed, s.err
}

func autoCheckoutTask(t *testing.T, payload AutoCheckoutPayload) *asynq.Task {
	t.Helper()
	task, err := NewAutoCheckoutTask(payload)
	require.NoError(t, err)
	return task
}

func TestAutoCheckoutUsesPayloadTimestamp(t *testing.T) {
	closer := &stubCloser{closed: 3}
	job := NewAutoCheckoutJob(closer, slog.Default(), nil)

	at := time.Date(2026, 3, 9, 23, 50, 0, 0, time.UTC)
	err := job.Handle(context.Background(), autoCheckoutTask(t, AutoCheckoutPayload{At: at.Format(time.RFC3339)}))
	require.NoError(t, err)
	assert.True(t, closer.gotAt.Equal(at))
}

func TestAutoCheckoutDefaultsToClock(t *testing.T) {
	closer := &stubCloser{}
	job := NewAutoCheckoutJob(closer, slog.Default(), nil)
	fixed := time.Date(2026, 3, 9, 23, 50, 0, 0, time.UTC)
	job.clock = func() time.Time { return fixed }

	err := job.Handle(context.Background(), autoCheckoutTask(t, AutoCheckoutPayload{}))
	require.NoError(t, err)
	assert.True(t, closer.gotAt.Equal(fixed))
}

func TestAutoCheckoutPropagatesFailure(t *testing.T) {
	closer := &stubCloser{err: errors.New("db offline")}
	job := NewAutoCheckoutJob(closer, slog.Default(), nil)

	err := job.Handle(context.Background(), autoCheckoutTask(t, AutoCheckoutPayload{}))
	assert.Error(t, err)
}

func TestAutoCheckoutSkipsRetryOnGarbagePayload(t *testing.T) {
	job := NewAutoCheckoutJob(&stubCloser{}, slog.Default(), nil)

	task := asynq.NewTask(TaskAttendanceAutoCheckout, []byte("{not json"))
	err := job.Handle(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)

	bad, err := json.Marshal(map[string]string{"at": "noon"})
	require.NoError(t, err)
	err = job.Handle(context.Background(), asynq.NewTask(TaskAttendanceAutoCheckout, bad))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
