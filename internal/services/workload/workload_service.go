package workload

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WorkloadService glues the store queries to the pure engine. Any store
// error aborts the whole computation; there are no partial results.
type WorkloadService struct {
	repo *WorkloadRepo
	now  Clock
}

func NewWorkloadService(repo *WorkloadRepo) *WorkloadService {
	return &WorkloadService{repo: repo, now: time.Now}
}

// Snapshots computes per-user utilization snapshots for the query, with a
// team summary when more than one user is in scope.
func (s *WorkloadService) Snapshots(ctx context.Context, q *WorkloadQuery) ([]Snapshot, *TeamSummary, error) {
	users, err := s.repo.ListUsers(ctx, q)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	tasksByUser, err := s.repo.ActiveTasksByAssignee(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	snapshots := make([]Snapshot, 0, len(users))
	for _, u := range users {
		snapshots = append(snapshots, BuildSnapshot(MemberLoad{
			User:        u,
			ActiveTasks: tasksByUser[u.ID],
		}, now))
	}

	var summary *TeamSummary
	if q.UserID == nil {
		s := Summarize(snapshots)
		summary = &s
	}

	return snapshots, summary, nil
}

// Alerts recomputes the full alert set for the query scope.
func (s *WorkloadService) Alerts(ctx context.Context, departmentID *uuid.UUID, severity string) ([]Alert, AlertSummary, error) {
	snapshots, _, err := s.Snapshots(ctx, &WorkloadQuery{DepartmentID: departmentID})
	if err != nil {
		return nil, AlertSummary{}, err
	}

	alerts := ComputeAlerts(snapshots)

	if severity != "" {
		filtered := alerts[:0]
		for _, a := range alerts {
			if string(a.Severity) == severity {
				filtered = append(filtered, a)
			}
		}
		alerts = filtered
	}

	return alerts, SummarizeAlerts(alerts), nil
}

// Rebalance runs one greedy rebalancing pass and persists each planned move.
// Writes are sequential with no transaction; a failure partway through
// leaves prior reassignments committed.
func (s *WorkloadService) Rebalance(ctx context.Context) (*RebalanceResult, error) {
	users, err := s.repo.ListUsers(ctx, &WorkloadQuery{})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	tasksByUser, err := s.repo.ActiveTasksByAssignee(ctx, ids)
	if err != nil {
		return nil, err
	}

	loads := make(map[uuid.UUID]float64, len(users))
	for _, u := range users {
		total := 0.0
		for _, t := range tasksByUser[u.ID] {
			if t.EstimatedHours != nil {
				total += *t.EstimatedHours
			}
		}
		loads[u.ID] = total
	}

	// Fetch movable tasks only for users the plan will treat as overloaded.
	candidates := make(map[uuid.UUID][]CandidateTask)
	for id, hours := range loads {
		if workloadPercentage(hours) > rebalanceOverloadedAbove {
			tasks, err := s.repo.RebalanceCandidates(ctx, id, rebalanceMaxTasksPerUser)
			if err != nil {
				return nil, err
			}
			candidates[id] = tasks
		}
	}

	result := PlanRebalance(loads, candidates)

	for _, move := range result.Reassignments {
		if err := s.repo.Reassign(ctx, move.TaskID, move.ToUserID); err != nil {
			return nil, fmt.Errorf("rebalance aborted after %d move(s): %w", result.TasksRebalanced, err)
		}
	}

	return &result, nil
}

// Stats aggregates team-wide workload counters for the manager dashboard.
func (s *WorkloadService) Stats(ctx context.Context) (*Stats, error) {
	snapshots, summary, err := s.Snapshots(ctx, &WorkloadQuery{})
	if err != nil {
		return nil, err
	}

	totalActive, err := s.repo.CountActiveTasks(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalUsers:       len(snapshots),
		AverageWorkload:  summary.AvgUtilization,
		TotalActiveTasks: totalActive,
	}

	for _, snap := range snapshots {
		switch snap.Status {
		case StatusOverloaded:
			stats.OverloadedUsers++
		case StatusBusy, StatusCritical:
			stats.BusyUsers++
		default:
			stats.AvailableUsers++
		}
	}

	return stats, nil
}
