package department

import (
	"time"

	"github.com/google/uuid"
)

type Department struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	HeadID    *uuid.UUID `db:"head_id" json:"headId,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}

type CreateDepartmentRequest struct {
	Name   string     `json:"name"`
	HeadID *uuid.UUID `json:"headId,omitempty"`
}

type UpdateDepartmentRequest struct {
	Name   *string    `json:"name,omitempty"`
	HeadID *uuid.UUID `json:"headId,omitempty"`
}
