package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/temsafy/temsafy/internal/rbac"
)

// DefaultCapacityHours is the weekly capacity assigned to users created
// without an explicit capacity.
const DefaultCapacityHours = 8

type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         rbac.Role  `db:"role" json:"role"`
	Capacity     float64    `db:"capacity" json:"capacity"`
	DepartmentID *uuid.UUID `db:"department_id" json:"departmentId,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// CreateUserRequest captures payload for creating a user
type CreateUserRequest struct {
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Password     string     `json:"password"`
	Role         string     `json:"role"`
	Capacity     *float64   `json:"capacity,omitempty"`
	DepartmentID *uuid.UUID `json:"departmentId,omitempty"`
}

// UpdateUserRequest captures payload for updating a user
type UpdateUserRequest struct {
	Name         *string    `json:"name,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Password     *string    `json:"password,omitempty"`
	Role         *string    `json:"role,omitempty"`
	Capacity     *float64   `json:"capacity,omitempty"`
	DepartmentID *uuid.UUID `json:"departmentId,omitempty"`
}

// ListUsersFilter narrows List results
type ListUsersFilter struct {
	DepartmentID *uuid.UUID
	Role         *rbac.Role
}
