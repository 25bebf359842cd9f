package users

import (
	"time"

	"github.com/google/uuid"
)

// Account statuses mirror the auth package. Deactivated accounts keep their
// rows but fail identity resolution on the next request.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User is a staff or administrator account. The password hash never leaves
// the server.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Role         string     `json:"role"`
	TenantID     *uuid.UUID `json:"tenant_id,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
