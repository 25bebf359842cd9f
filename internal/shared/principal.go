package shared

import "github.com/google/uuid"

// Role names form a closed set; the rbac package maps them to permissions.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleTeacher    = "teacher"
	RoleViewer     = "viewer"
)

// Principal describes the authenticated actor resolved from a bearer token.
// It is built once per request and never mutated afterwards.
type Principal struct {
	UserID      uuid.UUID
	Email       string
	Role        string
	TenantID    *uuid.UUID
	CompanyCode string
	CompanyName string
}

// IsSuperAdmin reports whether the principal spans all tenants.
func (p *Principal) IsSuperAdmin() bool {
	return p != nil && p.Role == RoleSuperAdmin
}

// BelongsTo reports whether the principal may operate on the given tenant.
// Super admins may operate on any tenant.
func (p *Principal) BelongsTo(tenantID uuid.UUID) bool {
	if p == nil {
		return false
	}
	if p.IsSuperAdmin() {
		return true
	}
	return p.TenantID != nil && *p.TenantID == tenantID
}
