package students

import (
	"time"

	"github.com/google/uuid"
)

// Student represents an enrolled student. The PIN hash is never serialized.
type Student struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	BranchID  uuid.UUID `json:"branch_id"`
	Code      string    `json:"student_code"`
	FullName  string    `json:"full_name"`
	PINHash   string    `json:"-"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StudentForm carries create payloads.
type StudentForm struct {
	BranchID string `json:"branch_id" validate:"required,uuid4"`
	Code     string `json:"student_code" validate:"required,max=30"`
	FullName string `json:"full_name" validate:"required,max=255"`
	PIN      string `json:"pin" validate:"required,numeric,min=4,max=6"`
}

// UpdateForm carries partial updates. Nil fields are left unchanged.
type UpdateForm struct {
	BranchID *string `json:"branch_id" validate:"omitempty,uuid4"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	PIN      *string `json:"pin" validate:"omitempty,numeric,min=4,max=6"`
	IsActive *bool   `json:"is_active"`
}
