package project

import (
	"time"

	"github.com/google/uuid"
)

// ParticipationRole distinguishes managing participants from regular ones.
type ParticipationRole string

const (
	ParticipationManager     ParticipationRole = "MANAGER"
	ParticipationParticipant ParticipationRole = "PARTICIPANT"
)

type Project struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Participation links a user to a project with a role.
type Participation struct {
	ProjectID uuid.UUID         `db:"project_id" json:"projectId"`
	UserID    uuid.UUID         `db:"user_id" json:"userId"`
	Role      ParticipationRole `db:"role" json:"role"`
	CreatedAt time.Time         `db:"created_at" json:"createdAt"`
}

// Progress is the derived completion view for a project: per-task phase
// completion ratios averaged over all tasks.
type Progress struct {
	ProjectID      uuid.UUID `json:"projectId"`
	TotalTasks     int       `json:"totalTasks"`
	CompletedTasks int       `json:"completedTasks"`
	Completion     float64   `json:"completion"`
}

type CreateProjectRequest struct {
	Name          string      `json:"name"`
	Status        string      `json:"status,omitempty"`
	DepartmentIDs []uuid.UUID `json:"departmentIds,omitempty"`
}

type UpdateProjectRequest struct {
	Name          *string      `json:"name,omitempty"`
	Status        *string      `json:"status,omitempty"`
	DepartmentIDs *[]uuid.UUID `json:"departmentIds,omitempty"`
}

type AddParticipantRequest struct {
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role,omitempty"`
}
