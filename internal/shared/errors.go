package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized indicates a request without a valid identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates a valid identity lacking permission.
	ErrForbidden = errors.New("forbidden")
	// ErrTenantSuspended indicates the principal's tenant is not active.
	ErrTenantSuspended = errors.New("tenant suspended")
)
