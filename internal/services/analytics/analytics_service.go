package analytics

import (
	"context"
	"math"
	"time"
)

// AnalyticsService produces the dashboard aggregates. No caching; results
// reflect store state at query time.
type AnalyticsService struct {
	repo *AnalyticsRepo
}

func NewAnalyticsService(repo *AnalyticsRepo) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// Overview builds the full analytics view. days bounds the trend window and
// defaults to 7.
func (s *AnalyticsService) Overview(ctx context.Context, days int) (*Overview, error) {
	if days <= 0 {
		days = 7
	}

	totalUsers, err := s.repo.Count(ctx, "users")
	if err != nil {
		return nil, err
	}

	totalProjects, err := s.repo.Count(ctx, "projects")
	if err != nil {
		return nil, err
	}

	totalTasks, err := s.repo.Count(ctx, "tasks")
	if err != nil {
		return nil, err
	}

	usersByRole, err := s.repo.GroupCount(ctx, "users", "role")
	if err != nil {
		return nil, err
	}

	tasksByStatus, err := s.repo.GroupCount(ctx, "tasks", "status")
	if err != nil {
		return nil, err
	}

	tasksByPriority, err := s.repo.GroupCount(ctx, "tasks", "priority")
	if err != nil {
		return nil, err
	}

	completed, err := s.repo.CompletedTaskCount(ctx)
	if err != nil {
		return nil, err
	}

	trend, err := s.repo.Trend(ctx, time.Now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		TotalUsers:      totalUsers,
		TotalProjects:   totalProjects,
		TotalTasks:      totalTasks,
		UsersByRole:     usersByRole,
		TasksByStatus:   tasksByStatus,
		TasksByPriority: tasksByPriority,
		Trend:           trend,
	}

	if totalTasks > 0 {
		overview.CompletionRate = int(math.Round(float64(completed) / float64(totalTasks) * 100))
	}

	return overview, nil
}
