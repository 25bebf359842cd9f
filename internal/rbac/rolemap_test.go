package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendly/internal/shared"
)

func TestHasPermissionTruthTable(t *testing.T) {
	for _, role := range Roles() {
		granted := make(map[Permission]struct{})
		for _, p := range RolePermissions(role) {
			granted[p] = struct{}{}
		}
		for _, p := range AllPermissions() {
			_, want := granted[p]
			assert.Equal(t, want, HasPermission(role, p), "role=%s perm=%s", role, p)
		}
	}
}

func TestUnknownRoleFailsClosed(t *testing.T) {
	for _, p := range AllPermissions() {
		assert.False(t, HasPermission("intruder", p))
		assert.False(t, HasPermission("", p))
	}
	assert.Nil(t, RolePermissions("intruder"))
	assert.False(t, KnownRole("intruder"))
}

func TestSuperAdminHoldsFullUniverse(t *testing.T) {
	universe := AllPermissions()
	granted := RolePermissions(shared.RoleSuperAdmin)
	require.Len(t, granted, len(universe))
	for _, p := range universe {
		assert.True(t, HasPermission(shared.RoleSuperAdmin, p), "super_admin missing %s", p)
	}
}

func TestEveryRoleIsSubsetOfUniverse(t *testing.T) {
	universe := make(map[Permission]struct{})
	for _, p := range AllPermissions() {
		universe[p] = struct{}{}
	}
	for _, role := range Roles() {
		for _, p := range RolePermissions(role) {
			_, ok := universe[p]
			assert.True(t, ok, "role %s grants %s outside the universe", role, p)
		}
	}
}

func TestViewerAttendanceScenario(t *testing.T) {
	assert.False(t, HasPermission(shared.RoleViewer, PermAttendanceCreate))
	assert.True(t, HasPermission(shared.RoleViewer, PermAttendanceRead))
}
