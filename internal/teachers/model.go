package teachers

import (
	"time"

	"github.com/google/uuid"
)

// Teacher represents a staff record.
type Teacher struct {
	ID           uuid.UUID `json:"id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	BranchID     uuid.UUID `json:"branch_id"`
	EmployeeCode string    `json:"employee_code"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Subject      string    `json:"subject"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TeacherForm carries create/update payloads.
type TeacherForm struct {
	BranchID     string `json:"branch_id" validate:"required,uuid4"`
	EmployeeCode string `json:"employee_code" validate:"required,max=30"`
	FullName     string `json:"full_name" validate:"required,max=255"`
	Email        string `json:"email" validate:"omitempty,email,max=255"`
	Subject      string `json:"subject" validate:"max=100"`
}
