package rbac

import (
	"sort"

	"github.com/attendly/attendly/internal/shared"
)

type permissionSet map[Permission]struct{}

// roleMap is built once at package init and read-only afterwards. There is no
// mutation API: role policy changes ship as code changes.
var roleMap = buildRoleMap()

func buildRoleMap() map[string]permissionSet {
	grants := map[string][]Permission{
		shared.RoleSuperAdmin: AllPermissions(),
		shared.RoleAdmin: {
			PermBranchesRead,
			PermBranchesCreate,
			PermBranchesUpdate,
			PermBranchesDelete,
			PermStudentsRead,
			PermStudentsCreate,
			PermStudentsUpdate,
			PermStudentsDelete,
			PermTeachersRead,
			PermTeachersCreate,
			PermTeachersUpdate,
			PermTeachersDelete,
			PermUsersRead,
			PermUsersCreate,
			PermUsersUpdate,
			PermDevicesRead,
			PermDevicesCreate,
			PermDevicesUpdate,
			PermDevicesDelete,
			PermDevicesEnroll,
			PermAttendanceRead,
			PermAttendanceCreate,
			PermAttendanceUpdate,
			PermReportsRead,
			PermAuditRead,
			PermJobsRun,
			PermPermissionsRead,
		},
		shared.RoleTeacher: {
			PermStudentsRead,
			PermAttendanceRead,
			PermAttendanceCreate,
			PermAttendanceUpdate,
			PermReportsRead,
		},
		shared.RoleViewer: {
			PermStudentsRead,
			PermTeachersRead,
			PermBranchesRead,
			PermAttendanceRead,
			PermReportsRead,
		},
	}

	m := make(map[string]permissionSet, len(grants))
	for role, perms := range grants {
		set := make(permissionSet, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		m[role] = set
	}
	return m
}

// HasPermission reports whether the role grants the permission. Unknown roles
// hold the empty set, so the check fails closed rather than erroring.
func HasPermission(role string, perm Permission) bool {
	set, ok := roleMap[role]
	if !ok {
		return false
	}
	_, granted := set[perm]
	return granted
}

// Roles returns the configured role names, sorted.
func Roles() []string {
	names := make([]string, 0, len(roleMap))
	for name := range roleMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KnownRole reports whether a role name exists in the role map.
func KnownRole(role string) bool {
	_, ok := roleMap[role]
	return ok
}

// RolePermissions returns the sorted permission tags granted to a role.
// Unknown roles yield an empty slice.
func RolePermissions(role string) []Permission {
	set, ok := roleMap[role]
	if !ok {
		return nil
	}
	perms := make([]Permission, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}
