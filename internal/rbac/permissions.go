package rbac

// Permission is an opaque "resource:action" tag identifying one unit of
// authorizable behaviour. The set is closed at compile time.
type Permission string

const (
	PermTenantsRead   Permission = "tenants:read"
	PermTenantsCreate Permission = "tenants:create"
	PermTenantsUpdate Permission = "tenants:update"
	PermTenantsDelete Permission = "tenants:delete"

	PermBranchesRead   Permission = "branches:read"
	PermBranchesCreate Permission = "branches:create"
	PermBranchesUpdate Permission = "branches:update"
	PermBranchesDelete Permission = "branches:delete"

	PermStudentsRead   Permission = "students:read"
	PermStudentsCreate Permission = "students:create"
	PermStudentsUpdate Permission = "students:update"
	PermStudentsDelete Permission = "students:delete"

	PermTeachersRead   Permission = "teachers:read"
	PermTeachersCreate Permission = "teachers:create"
	PermTeachersUpdate Permission = "teachers:update"
	PermTeachersDelete Permission = "teachers:delete"

	PermUsersRead   Permission = "users:read"
	PermUsersCreate Permission = "users:create"
	PermUsersUpdate Permission = "users:update"

	PermDevicesRead   Permission = "devices:read"
	PermDevicesCreate Permission = "devices:create"
	PermDevicesUpdate Permission = "devices:update"
	PermDevicesDelete Permission = "devices:delete"
	PermDevicesEnroll Permission = "devices:enroll"

	PermAttendanceRead   Permission = "attendance:read"
	PermAttendanceCreate Permission = "attendance:create"
	PermAttendanceUpdate Permission = "attendance:update"

	PermReportsRead Permission = "reports:read"

	PermAuditRead Permission = "audit:read"

	PermJobsRun Permission = "jobs:run"

	PermPermissionsRead Permission = "permissions:read"
)

// AllPermissions enumerates the full permission universe. Tests assert that
// the super_admin role set equals this enumeration, so a permission added
// here without a role map update fails fast.
func AllPermissions() []Permission {
	return []Permission{
		PermTenantsRead,
		PermTenantsCreate,
		PermTenantsUpdate,
		PermTenantsDelete,
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
	}
}
