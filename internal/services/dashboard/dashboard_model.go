package dashboard

import (
	"time"

	"github.com/temsafy/temsafy/internal/services/project"
	"github.com/temsafy/temsafy/internal/services/task"
	"github.com/temsafy/temsafy/internal/services/workload"
)

// Snapshot is the unified view polled by dashboard clients.
type Snapshot struct {
	Summary   Summary      `json:"summary"`
	Critical  Critical     `json:"critical"`
	Workload  WorkloadView `json:"workload"`
	Recent    Recent       `json:"recent"`
	Timestamp time.Time    `json:"timestamp"`
}

type Summary struct {
	TotalTasks     int            `json:"totalTasks"`
	TasksByStatus  map[string]int `json:"tasksByStatus"`
	TotalProjects  int            `json:"totalProjects"`
	CompletionRate int            `json:"completionRate"`
}

type Critical struct {
	OverdueTasks []*task.Task `json:"overdueTasks"`
	UrgentTasks  []*task.Task `json:"urgentTasks"`
}

type WorkloadView struct {
	Users       []workload.Snapshot   `json:"users"`
	TeamSummary *workload.TeamSummary `json:"teamSummary,omitempty"`
}

// Recent feeds the client-side diff layer; both lists are keyed by id there.
type Recent struct {
	Tasks    []*task.Task       `json:"tasks"`
	Projects []*project.Project `json:"projects"`
}
