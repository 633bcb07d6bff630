package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the canonical task status set. Older clients may still send
// TODO, which normalizes onto StatusPending.
type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusCancelled  TaskStatus = "CANCELLED"
)

// NormalizeStatus maps a raw status string onto the canonical set. The bool
// reports whether the input was recognized.
func NormalizeStatus(raw string) (TaskStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PENDING", "TODO":
		return StatusPending, true
	case "IN_PROGRESS":
		return StatusInProgress, true
	case "COMPLETED":
		return StatusCompleted, true
	case "CANCELLED":
		return StatusCancelled, true
	default:
		return "", false
	}
}

// IsActive reports whether tasks in this status count towards workload hours.
func (s TaskStatus) IsActive() bool {
	return s == StatusPending || s == StatusInProgress
}

// TaskPriority is the canonical priority set. CRITICAL is a legacy alias
// for URGENT.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// NormalizePriority maps a raw priority string onto the canonical set.
func NormalizePriority(raw string) (TaskPriority, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "LOW":
		return PriorityLow, true
	case "MEDIUM":
		return PriorityMedium, true
	case "HIGH":
		return PriorityHigh, true
	case "URGENT", "CRITICAL":
		return PriorityUrgent, true
	default:
		return "", false
	}
}

type Task struct {
	ID             uuid.UUID    `db:"id" json:"id"`
	Title          string       `db:"title" json:"title"`
	Description    *string      `db:"description" json:"description,omitempty"`
	Status         TaskStatus   `db:"status" json:"status"`
	Priority       TaskPriority `db:"priority" json:"priority"`
	EstimatedHours *float64     `db:"estimated_hours" json:"estimatedHours,omitempty"`
	AssigneeID     *uuid.UUID   `db:"assignee_id" json:"assigneeId,omitempty"`
	ProjectID      uuid.UUID    `db:"project_id" json:"projectId"`
	DepartmentID   *uuid.UUID   `db:"department_id" json:"departmentId,omitempty"`
	CreatedByID    *uuid.UUID   `db:"created_by_id" json:"createdById,omitempty"`
	EndDate        *time.Time   `db:"end_date" json:"endDate,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updatedAt"`
}

// TaskPhase is an ordered sub-unit of a task.
type TaskPhase struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	TaskID        uuid.UUID  `db:"task_id" json:"taskId"`
	Name          string     `db:"name" json:"name"`
	PhaseOrder    int        `db:"phase_order" json:"order"`
	Status        TaskStatus `db:"status" json:"status"`
	EstimatedTime *float64   `db:"estimated_time" json:"estimatedTime,omitempty"`
	ActualTime    *float64   `db:"actual_time" json:"actualTime,omitempty"`
	AssignedToID  *uuid.UUID `db:"assigned_to_id" json:"assignedToId,omitempty"`
	StartDate     *time.Time `db:"start_date" json:"startDate,omitempty"`
	EndDate       *time.Time `db:"end_date" json:"endDate,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

type CreateTaskRequest struct {
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	Status         string     `json:"status,omitempty"`
	Priority       string     `json:"priority,omitempty"`
	EstimatedHours *float64   `json:"estimatedHours,omitempty"`
	AssigneeID     *uuid.UUID `json:"assigneeId,omitempty"`
	ProjectID      uuid.UUID  `json:"projectId"`
	DepartmentID   *uuid.UUID `json:"departmentId,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
}

type UpdateTaskRequest struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Status         *string    `json:"status,omitempty"`
	Priority       *string    `json:"priority,omitempty"`
	EstimatedHours *float64   `json:"estimatedHours,omitempty"`
	AssigneeID     *uuid.UUID `json:"assigneeId,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
}

type CreatePhaseRequest struct {
	Name          string     `json:"name"`
	PhaseOrder    int        `json:"order"`
	Status        string     `json:"status,omitempty"`
	EstimatedTime *float64   `json:"estimatedTime,omitempty"`
	AssignedToID  *uuid.UUID `json:"assignedToId,omitempty"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
}

type UpdatePhaseRequest struct {
	Name          *string    `json:"name,omitempty"`
	PhaseOrder    *int       `json:"order,omitempty"`
	Status        *string    `json:"status,omitempty"`
	EstimatedTime *float64   `json:"estimatedTime,omitempty"`
	ActualTime    *float64   `json:"actualTime,omitempty"`
	AssignedToID  *uuid.UUID `json:"assignedToId,omitempty"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
}

// ListTasksFilter narrows List results
type ListTasksFilter struct {
	Status       *TaskStatus
	Priority     *TaskPriority
	AssigneeID   *uuid.UUID
	ProjectID    *uuid.UUID
	DepartmentID *uuid.UUID
}
