package analytics

import "time"

// Overview is the dashboard aggregate: grouped counts and completion ratio.
type Overview struct {
	TotalUsers      int            `json:"totalUsers"`
	TotalProjects   int            `json:"totalProjects"`
	TotalTasks      int            `json:"totalTasks"`
	UsersByRole     map[string]int `json:"usersByRole"`
	TasksByStatus   map[string]int `json:"tasksByStatus"`
	TasksByPriority map[string]int `json:"tasksByPriority"`
	CompletionRate  int            `json:"completionRate"`
	Trend           []TrendPoint   `json:"trend"`
}

// TrendPoint is one day in the time-windowed series.
type TrendPoint struct {
	Date      time.Time `json:"date"`
	Created   int       `json:"created"`
	Completed int       `json:"completed"`
}
