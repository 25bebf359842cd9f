package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Event is one attendance session. An event with a nil checkout time is an
// open session; a student can hold at most one open session at a time.
type Event struct {
	ID              uuid.UUID  `json:"id"`
	TenantID        uuid.UUID  `json:"tenant_id"`
	BranchID        uuid.UUID  `json:"branch_id"`
	StudentID       uuid.UUID  `json:"student_id"`
	StudentName     string     `json:"student_name"`
	StudentCode     string     `json:"student_code"`
	CheckinTime     time.Time  `json:"checkin_time"`
	CheckoutTime    *time.Time `json:"checkout_time,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	AutoClosed      bool       `json:"auto_closed,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Open reports whether the session has not been checked out yet.
func (e Event) Open() bool {
	return e.CheckoutTime == nil
}
