package devices

import (
	"time"

	"github.com/google/uuid"
)

// Device statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Device is a biometric terminal registered to a branch.
type Device struct {
	ID             uuid.UUID `json:"id"`
	TenantID       uuid.UUID `json:"tenant_id"`
	BranchID       uuid.UUID `json:"branch_id"`
	SerialNumber   string    `json:"serial_number"`
	Name           string    `json:"name"`
	Model          string    `json:"model,omitempty"`
	Location       string    `json:"location,omitempty"`
	IPAddress      string    `json:"ip_address,omitempty"`
	TimezoneOffset int       `json:"timezone_offset"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Enrollment maps a student to the identifier the device knows them by.
type Enrollment struct {
	ID           uuid.UUID `json:"id"`
	DeviceID     uuid.UUID `json:"device_id"`
	StudentID    uuid.UUID `json:"student_id"`
	DeviceUserID string    `json:"device_user_id"`
	CreatedAt    time.Time `json:"created_at"`
}
