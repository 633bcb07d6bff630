package rbac

import "strings"

// Role is the closed set of user roles. Inputs from older clients may still
// carry the DEPARTMENT_HEAD alias; Normalize maps it onto RoleDepartment.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleDepartment Role = "DEPARTMENT"
	RoleField      Role = "FIELD"
)

// Normalize maps a raw role string onto the canonical Role set. Unknown
// values fall through to RoleField, the least privileged role.
func Normalize(raw string) Role {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "ADMIN":
		return RoleAdmin
	case "MANAGER":
		return RoleManager
	case "DEPARTMENT", "DEPARTMENT_HEAD":
		return RoleDepartment
	case "FIELD":
		return RoleField
	default:
		return RoleField
	}
}

// Valid reports whether raw is a recognized role, canonical or alias.
func Valid(raw string) bool {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "ADMIN", "MANAGER", "DEPARTMENT", "DEPARTMENT_HEAD", "FIELD":
		return true
	default:
		return false
	}
}

func IsAdmin(r Role) bool      { return r == RoleAdmin }
func IsManager(r Role) bool    { return r == RoleManager }
func IsDepartment(r Role) bool { return r == RoleDepartment }
func IsField(r Role) bool      { return r == RoleField }

func CanManageUsers(r Role) bool {
	return r == RoleAdmin || r == RoleManager
}

func CanManageProjects(r Role) bool {
	return r == RoleAdmin || r == RoleManager
}

func CanManageTasks(r Role) bool {
	return r == RoleAdmin || r == RoleManager || r == RoleDepartment
}

func CanViewAnalytics(r Role) bool {
	return r == RoleAdmin || r == RoleManager || r == RoleDepartment
}
