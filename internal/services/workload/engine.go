package workload

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/temsafy/temsafy/internal/services/task"
)

// rebalanceBaselineHours is the fixed weekly baseline the rebalancer uses
// for its percentage math. It deliberately ignores per-user capacity; the
// utilization snapshots do not.
const rebalanceBaselineHours = 40.0

const (
	rebalanceOverloadedAbove = 90.0
	rebalanceAvailableBelow  = 70.0
	rebalanceTargetCap       = 80.0
	rebalanceMaxTasksPerUser = 3
	workloadPercentageCeil   = 200.0
)

// Classify maps a utilization rate onto a status bucket. Thresholds are
// evaluated top-down, first match wins.
func Classify(utilizationRate int) Status {
	switch {
	case utilizationRate >= 100:
		return StatusOverloaded
	case utilizationRate >= 90:
		return StatusCritical
	case utilizationRate >= 70:
		return StatusBusy
	case utilizationRate >= 40:
		return StatusModerate
	default:
		return StatusAvailable
	}
}

// BuildSnapshot derives the utilization view for one user from their active
// tasks. Tasks that are not active are ignored regardless of what the caller
// passes in.
func BuildSnapshot(load MemberLoad, now time.Time) Snapshot {
	u := load.User

	snap := Snapshot{
		UserID:       u.ID,
		Name:         u.Name,
		Role:         string(u.Role),
		DepartmentID: u.DepartmentID,
		Capacity:     u.Capacity,
	}

	for _, t := range load.ActiveTasks {
		if !t.Status.IsActive() {
			continue
		}

		hours := 0.0
		if t.EstimatedHours != nil {
			hours = *t.EstimatedHours
		}

		snap.CurrentHours += hours
		snap.ActiveTaskCount++

		if t.Status == task.StatusPending {
			snap.UpcomingHours += hours
		}
		if t.EndDate != nil && t.EndDate.Before(now) {
			snap.OverdueTasks = append(snap.OverdueTasks, t)
		}
		if t.Priority == task.PriorityUrgent {
			snap.UrgentTasks = append(snap.UrgentTasks, t)
		}
	}

	if u.Capacity > 0 {
		snap.UtilizationRate = int(math.Round(snap.CurrentHours / u.Capacity * 100))
	}
	snap.AvailableHours = math.Max(0, u.Capacity-snap.CurrentHours)
	snap.Status = Classify(snap.UtilizationRate)

	return snap
}

// Summarize aggregates snapshots into a team view. The average rounds ties
// half up.
func Summarize(snapshots []Snapshot) TeamSummary {
	summary := TeamSummary{
		StatusDistribution: map[Status]int{},
	}

	if len(snapshots) == 0 {
		return summary
	}

	total := 0
	for _, s := range snapshots {
		total += s.UtilizationRate
		summary.StatusDistribution[s.Status]++
		summary.TotalCapacity += s.Capacity
		summary.TotalAssigned += s.CurrentHours
		summary.TotalAvailable += s.AvailableHours
	}

	summary.AvgUtilization = int(math.Round(float64(total) / float64(len(snapshots))))

	return summary
}

// ComputeAlerts derives the full alert set from snapshots. Stateless: every
// call recomputes from scratch.
func ComputeAlerts(snapshots []Snapshot) []Alert {
	var alerts []Alert

	for _, s := range snapshots {
		if s.UtilizationRate >= 90 {
			severity := SeverityWarning
			if s.UtilizationRate >= 100 {
				severity = SeverityCritical
			}
			alerts = append(alerts, Alert{
				UserID:         s.UserID,
				UserName:       s.Name,
				Type:           AlertWorkload,
				Severity:       severity,
				Message:        fmt.Sprintf("%s is at %d%% capacity", s.Name, s.UtilizationRate),
				ActionRequired: severity == SeverityCritical,
			})
		}

		if len(s.OverdueTasks) > 0 {
			severity := SeverityWarning
			if len(s.OverdueTasks) >= 3 {
				severity = SeverityCritical
			}
			alerts = append(alerts, Alert{
				UserID:         s.UserID,
				UserName:       s.Name,
				Type:           AlertOverdue,
				Severity:       severity,
				Message:        fmt.Sprintf("%s has %d overdue task(s)", s.Name, len(s.OverdueTasks)),
				ActionRequired: severity == SeverityCritical,
			})
		}

		if len(s.UrgentTasks) >= 2 {
			severity := SeverityWarning
			if len(s.UrgentTasks) >= 4 {
				severity = SeverityCritical
			}
			alerts = append(alerts, Alert{
				UserID:         s.UserID,
				UserName:       s.Name,
				Type:           AlertUrgent,
				Severity:       severity,
				Message:        fmt.Sprintf("%s has %d urgent task(s)", s.Name, len(s.UrgentTasks)),
				ActionRequired: severity == SeverityCritical,
			})
		}
	}

	return alerts
}

// SummarizeAlerts counts alerts by severity.
func SummarizeAlerts(alerts []Alert) AlertSummary {
	summary := AlertSummary{Total: len(alerts)}
	for _, a := range alerts {
		if a.Severity == SeverityCritical {
			summary.Critical++
		} else {
			summary.Warning++
		}
	}
	return summary
}

// workloadPercentage is the rebalancer's load figure: hours against the
// fixed 40h baseline, capped at 200.
func workloadPercentage(currentHours float64) float64 {
	return math.Min(currentHours/rebalanceBaselineHours*100, workloadPercentageCeil)
}

// userLoad tracks the in-pass mutable load counter for one user.
type userLoad struct {
	id    uuid.UUID
	hours float64
}

// PlanRebalance computes a greedy reassignment plan. candidates maps each
// overloaded user to their movable tasks (pending, non-urgent), already
// ordered by estimated hours descending; at most rebalanceMaxTasksPerUser
// entries per user are considered.
//
// The plan is best-effort: it may leave overloaded users overloaded, and a
// task is skipped whenever moving it would push the best target to 80% or
// beyond.
func PlanRebalance(loads map[uuid.UUID]float64, candidates map[uuid.UUID][]CandidateTask) RebalanceResult {
	var overloaded, available []*userLoad

	// Deterministic iteration order for the pass.
	ids := make([]uuid.UUID, 0, len(loads))
	for id := range loads {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		ul := &userLoad{id: id, hours: loads[id]}
		pct := workloadPercentage(ul.hours)
		switch {
		case pct > rebalanceOverloadedAbove:
			overloaded = append(overloaded, ul)
		case pct < rebalanceAvailableBelow:
			available = append(available, ul)
		}
	}

	result := RebalanceResult{
		OverloadedUsers: len(overloaded),
		AvailableUsers:  len(available),
	}

	if len(overloaded) == 0 || len(available) == 0 {
		return result
	}

	for _, source := range overloaded {
		tasks := candidates[source.id]
		if len(tasks) > rebalanceMaxTasksPerUser {
			tasks = tasks[:rebalanceMaxTasksPerUser]
		}

		for _, t := range tasks {
			// Pick the currently least-loaded available user. Recomputed per
			// task so earlier moves in this pass are visible.
			var target *userLoad
			for _, a := range available {
				if target == nil || workloadPercentage(a.hours) < workloadPercentage(target.hours) {
					target = a
				}
			}

			projected := workloadPercentage(target.hours) + t.Hours/rebalanceBaselineHours*100
			if projected >= rebalanceTargetCap {
				continue
			}

			target.hours += t.Hours
			source.hours -= t.Hours

			result.Reassignments = append(result.Reassignments, Reassignment{
				TaskID:     t.ID,
				FromUserID: source.id,
				ToUserID:   target.id,
				Hours:      t.Hours,
			})
			result.TasksRebalanced++
		}
	}

	result.Rebalanced = result.TasksRebalanced > 0

	return result
}
