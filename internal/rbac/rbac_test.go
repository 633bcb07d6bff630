package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		raw  string
		want Role
	}{
		{"ADMIN", RoleAdmin},
		{"admin", RoleAdmin},
		{" Manager ", RoleManager},
		{"DEPARTMENT", RoleDepartment},
		{"DEPARTMENT_HEAD", RoleDepartment},
		{"department_head", RoleDepartment},
		{"FIELD", RoleField},
		{"", RoleField},
		{"SUPERUSER", RoleField},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, Normalize(c.raw), "raw %q", c.raw)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("ADMIN"))
	assert.True(t, Valid("manager"))
	assert.True(t, Valid("DEPARTMENT_HEAD"))
	assert.True(t, Valid(" field "))
	assert.False(t, Valid(""))
	assert.False(t, Valid("ROOT"))
}

func TestPermissionPredicates(t *testing.T) {
	assert.True(t, CanManageUsers(RoleAdmin))
	assert.True(t, CanManageUsers(RoleManager))
	assert.False(t, CanManageUsers(RoleDepartment))
	assert.False(t, CanManageUsers(RoleField))

	assert.True(t, CanManageProjects(RoleManager))
	assert.False(t, CanManageProjects(RoleDepartment))

	assert.True(t, CanManageTasks(RoleDepartment))
	assert.False(t, CanManageTasks(RoleField))

	assert.True(t, CanViewAnalytics(RoleAdmin))
	assert.True(t, CanViewAnalytics(RoleDepartment))
	assert.False(t, CanViewAnalytics(RoleField))
}
