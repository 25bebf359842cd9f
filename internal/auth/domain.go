package auth

import (
	"time"

	"github.com/google/uuid"
)

// Account and tenant statuses. Anything other than "active" denies access.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// Account represents an authenticated user account.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	TenantID     *uuid.UUID
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Tenant carries the live tenant fields needed during identity resolution.
type Tenant struct {
	ID     uuid.UUID
	Code   string
	Name   string
	Status string
}
