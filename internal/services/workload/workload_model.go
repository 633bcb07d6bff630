package workload

import (
	"time"

	"github.com/google/uuid"

	"github.com/temsafy/temsafy/internal/services/task"
	"github.com/temsafy/temsafy/internal/services/user"
)

// Status buckets for a user's utilization rate. Classification is total:
// every rate maps to exactly one bucket.
type Status string

const (
	StatusAvailable  Status = "available"
	StatusModerate   Status = "moderate"
	StatusBusy       Status = "busy"
	StatusCritical   Status = "critical"
	StatusOverloaded Status = "overloaded"
)

// Snapshot is the derived, never-persisted utilization view of one user.
// It reflects store state at query time only.
type Snapshot struct {
	UserID          uuid.UUID    `json:"userId"`
	Name            string       `json:"name"`
	Role            string       `json:"role"`
	DepartmentID    *uuid.UUID   `json:"departmentId,omitempty"`
	Capacity        float64      `json:"capacity"`
	CurrentHours    float64      `json:"currentHours"`
	UpcomingHours   float64      `json:"upcomingHours"`
	AvailableHours  float64      `json:"availableHours"`
	UtilizationRate int          `json:"utilizationRate"`
	Status          Status       `json:"status"`
	ActiveTaskCount int          `json:"activeTaskCount"`
	OverdueTasks    []*task.Task `json:"overdueTasks,omitempty"`
	UrgentTasks     []*task.Task `json:"urgentTasks,omitempty"`
}

// TeamSummary aggregates a set of snapshots.
type TeamSummary struct {
	AvgUtilization     int            `json:"avgUtilization"`
	StatusDistribution map[Status]int `json:"statusDistribution"`
	TotalCapacity      float64        `json:"totalCapacity"`
	TotalAssigned      float64        `json:"totalAssigned"`
	TotalAvailable     float64        `json:"totalAvailable"`
}

// AlertType identifies what triggered an alert.
type AlertType string

const (
	AlertWorkload AlertType = "workload"
	AlertOverdue  AlertType = "overdue"
	AlertUrgent   AlertType = "urgent_tasks"
)

type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is a pure derivation over snapshots; there is no persistence,
// de-duplication or acknowledgment state.
type Alert struct {
	UserID         uuid.UUID     `json:"userId"`
	UserName       string        `json:"userName"`
	Type           AlertType     `json:"type"`
	Severity       AlertSeverity `json:"severity"`
	Message        string        `json:"message"`
	ActionRequired bool          `json:"actionRequired"`
}

// AlertSummary accompanies the alert list.
type AlertSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
}

// MemberLoad pairs a user with their currently active tasks; the engine's
// input unit.
type MemberLoad struct {
	User        *user.User
	ActiveTasks []*task.Task
}

// CandidateTask is a task eligible for rebalancing away from an
// overloaded user.
type CandidateTask struct {
	ID    uuid.UUID
	Hours float64
}

// Reassignment is one planned task move.
type Reassignment struct {
	TaskID     uuid.UUID `json:"taskId"`
	FromUserID uuid.UUID `json:"fromUserId"`
	ToUserID   uuid.UUID `json:"toUserId"`
	Hours      float64   `json:"hours"`
}

// RebalanceResult reports the outcome of one rebalancing pass.
type RebalanceResult struct {
	Rebalanced      bool           `json:"rebalanced"`
	TasksRebalanced int            `json:"tasksRebalanced"`
	OverloadedUsers int            `json:"overloadedUsers"`
	AvailableUsers  int            `json:"availableUsers"`
	Reassignments   []Reassignment `json:"reassignments,omitempty"`
}

// Stats is the aggregate view served to managers.
type Stats struct {
	TotalUsers       int `json:"totalUsers"`
	OverloadedUsers  int `json:"overloadedUsers"`
	BusyUsers        int `json:"busyUsers"`
	AvailableUsers   int `json:"availableUsers"`
	AverageWorkload  int `json:"averageWorkload"`
	TotalActiveTasks int `json:"totalActiveTasks"`
}

// WorkloadQuery narrows whose workload is computed.
type WorkloadQuery struct {
	UserID                     *uuid.UUID
	DepartmentID               *uuid.UUID
	IncludeProjectParticipants bool
}

// now is factored out for tests.
type Clock func() time.Time
