package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAttendanceAutoCheckout closes every open session at end of day.
	TaskAttendanceAutoCheckout = "attendance:auto_checkout"
	// TaskReportsDailySummary materialises per-tenant daily summaries.
	TaskReportsDailySummary = "reports:daily_summary"
)

// AutoCheckoutPayload optionally pins the checkout timestamp; when empty the
// handler uses its own clock.
type AutoCheckoutPayload struct {
	At string `json:"at,omitempty"` // RFC3339
}

// NewAutoCheckoutTask constructs the nightly sweep task.
func NewAutoCheckoutTask(payload AutoCheckoutPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAttendanceAutoCheckout, data), nil
}

// DailySummaryPayload selects the day to summarise; when empty the handler
// summarises the previous day.
type DailySummaryPayload struct {
	Date string `json:"date,omitempty"` // YYYY-MM-DD
}

// NewDailySummaryTask constructs the summary task.
func NewDailySummaryTask(payload DailySummaryPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsDailySummary, data), nil
}
