package branches

import (
	"time"

	"github.com/google/uuid"
)

// Branch represents a physical location under a tenant. Kiosk check-in
// events are scoped to a branch.
type Branch struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BranchForm carries create/update payloads.
type BranchForm struct {
	TenantID string `json:"tenant_id" validate:"required,uuid4"`
	Code     string `json:"code" validate:"required,max=20"`
	Name     string `json:"name" validate:"required,max=255"`
	Address  string `json:"address" validate:"max=500"`
}
