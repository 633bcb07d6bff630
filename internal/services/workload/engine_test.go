package workload

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temsafy/temsafy/internal/rbac"
	"github.com/temsafy/temsafy/internal/services/task"
	"github.com/temsafy/temsafy/internal/services/user"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		rate int
		want Status
	}{
		{0, StatusAvailable},
		{39, StatusAvailable},
		{40, StatusModerate},
		{69, StatusModerate},
		{70, StatusBusy},
		{89, StatusBusy},
		{90, StatusCritical},
		{99, StatusCritical},
		{100, StatusOverloaded},
		{150, StatusOverloaded},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.rate), "rate %d", c.rate)
	}
}

func hoursTask(hours float64, status task.TaskStatus) *task.Task {
	return &task.Task{
		ID:             uuid.New(),
		Status:         status,
		Priority:       task.PriorityMedium,
		EstimatedHours: &hours,
	}
}

func TestBuildSnapshotBusyUser(t *testing.T) {
	u := &user.User{
		ID:       uuid.New(),
		Name:     "Jon",
		Role:     rbac.RoleField,
		Capacity: 8,
	}

	snap := BuildSnapshot(MemberLoad{
		User: u,
		ActiveTasks: []*task.Task{
			hoursTask(3, task.StatusPending),
			hoursTask(4, task.StatusInProgress),
		},
	}, time.Now())

	assert.Equal(t, 7.0, snap.CurrentHours)
	assert.Equal(t, 88, snap.UtilizationRate)
	assert.Equal(t, StatusBusy, snap.Status)
	assert.Equal(t, 1.0, snap.AvailableHours)
	assert.Equal(t, 2, snap.ActiveTaskCount)
	assert.Equal(t, 3.0, snap.UpcomingHours)
}

func TestBuildSnapshotOverloadedUser(t *testing.T) {
	u := &user.User{ID: uuid.New(), Capacity: 40}

	snap := BuildSnapshot(MemberLoad{
		User: u,
		ActiveTasks: []*task.Task{
			hoursTask(20, task.StatusInProgress),
			hoursTask(24, task.StatusPending),
		},
	}, time.Now())

	assert.Equal(t, 110, snap.UtilizationRate)
	assert.Equal(t, StatusOverloaded, snap.Status)
	assert.Equal(t, 0.0, snap.AvailableHours)
}

func TestBuildSnapshotZeroCapacity(t *testing.T) {
	u := &user.User{ID: uuid.New(), Capacity: 0}

	snap := BuildSnapshot(MemberLoad{
		User:        u,
		ActiveTasks: []*task.Task{hoursTask(5, task.StatusPending)},
	}, time.Now())

	assert.Equal(t, 0, snap.UtilizationRate)
	assert.Equal(t, StatusAvailable, snap.Status)
}

func TestBuildSnapshotIgnoresInactiveTasks(t *testing.T) {
	u := &user.User{ID: uuid.New(), Capacity: 8}

	snap := BuildSnapshot(MemberLoad{
		User: u,
		ActiveTasks: []*task.Task{
			hoursTask(3, task.StatusCompleted),
			hoursTask(2, task.StatusCancelled),
			hoursTask(4, task.StatusPending),
		},
	}, time.Now())

	assert.Equal(t, 4.0, snap.CurrentHours)
	assert.Equal(t, 1, snap.ActiveTaskCount)
}

func TestBuildSnapshotOverdueAndUrgent(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)

	overdue := hoursTask(2, task.StatusInProgress)
	overdue.EndDate = &past

	urgent := hoursTask(1, task.StatusPending)
	urgent.Priority = task.PriorityUrgent

	snap := BuildSnapshot(MemberLoad{
		User:        &user.User{ID: uuid.New(), Capacity: 8},
		ActiveTasks: []*task.Task{overdue, urgent},
	}, now)

	require.Len(t, snap.OverdueTasks, 1)
	require.Len(t, snap.UrgentTasks, 1)
	assert.Equal(t, overdue.ID, snap.OverdueTasks[0].ID)
	assert.Equal(t, urgent.ID, snap.UrgentTasks[0].ID)
}

func TestSummarizeAveragesRates(t *testing.T) {
	snaps := []Snapshot{
		{UtilizationRate: 50, Status: StatusModerate, Capacity: 8, CurrentHours: 4, AvailableHours: 4},
		{UtilizationRate: 75, Status: StatusBusy, Capacity: 8, CurrentHours: 6, AvailableHours: 2},
	}

	summary := Summarize(snaps)

	// 62.5 rounds half up.
	assert.Equal(t, 63, summary.AvgUtilization)
	assert.Equal(t, 16.0, summary.TotalCapacity)
	assert.Equal(t, 10.0, summary.TotalAssigned)
	assert.Equal(t, 1, summary.StatusDistribution[StatusModerate])
	assert.Equal(t, 1, summary.StatusDistribution[StatusBusy])
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.AvgUtilization)
	assert.Empty(t, summary.StatusDistribution)
}

func TestComputeAlertsWorkload(t *testing.T) {
	snaps := []Snapshot{
		{UserID: uuid.New(), Name: "warn", UtilizationRate: 92},
		{UserID: uuid.New(), Name: "crit", UtilizationRate: 105},
		{UserID: uuid.New(), Name: "fine", UtilizationRate: 60},
	}

	alerts := ComputeAlerts(snaps)
	require.Len(t, alerts, 2)

	assert.Equal(t, AlertWorkload, alerts[0].Type)
	assert.Equal(t, SeverityWarning, alerts[0].Severity)
	assert.False(t, alerts[0].ActionRequired)

	assert.Equal(t, SeverityCritical, alerts[1].Severity)
	assert.True(t, alerts[1].ActionRequired)
}

func TestComputeAlertsOverdueAndUrgent(t *testing.T) {
	overdue := make([]*task.Task, 3)
	for i := range overdue {
		overdue[i] = hoursTask(1, task.StatusPending)
	}
	urgent := []*task.Task{
		hoursTask(1, task.StatusPending),
		hoursTask(1, task.StatusPending),
	}

	snaps := []Snapshot{
		{UserID: uuid.New(), Name: "busy", OverdueTasks: overdue, UrgentTasks: urgent},
	}

	alerts := ComputeAlerts(snaps)
	require.Len(t, alerts, 2)

	assert.Equal(t, AlertOverdue, alerts[0].Type)
	assert.Equal(t, SeverityCritical, alerts[0].Severity)

	assert.Equal(t, AlertUrgent, alerts[1].Type)
	assert.Equal(t, SeverityWarning, alerts[1].Severity)

	summary := SummarizeAlerts(alerts)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Critical)
	assert.Equal(t, 1, summary.Warning)
}

func TestPlanRebalanceMovesLargestFirst(t *testing.T) {
	src := uuid.New()
	dst := uuid.New()

	loads := map[uuid.UUID]float64{
		src: 45,
		dst: 5,
	}
	candidates := map[uuid.UUID][]CandidateTask{
		src: {
			{ID: uuid.New(), Hours: 10},
			{ID: uuid.New(), Hours: 8},
			{ID: uuid.New(), Hours: 5},
		},
	}

	result := PlanRebalance(loads, candidates)

	assert.True(t, result.Rebalanced)
	assert.Equal(t, 1, result.OverloadedUsers)
	assert.Equal(t, 1, result.AvailableUsers)
	require.NotEmpty(t, result.Reassignments)

	// Largest task moves first and lands on the available user.
	first := result.Reassignments[0]
	assert.Equal(t, 10.0, first.Hours)
	assert.Equal(t, src, first.FromUserID)
	assert.Equal(t, dst, first.ToUserID)

	// 5h + 10h + 8h + 5h stays under the 80% cap at every step.
	assert.Equal(t, 3, result.TasksRebalanced)
}

func TestPlanRebalanceNoOverloaded(t *testing.T) {
	loads := map[uuid.UUID]float64{
		uuid.New(): 20,
		uuid.New(): 10,
	}

	result := PlanRebalance(loads, nil)

	assert.False(t, result.Rebalanced)
	assert.Equal(t, 0, result.TasksRebalanced)
	assert.Equal(t, 0, result.OverloadedUsers)
}

func TestPlanRebalanceNoAvailable(t *testing.T) {
	loads := map[uuid.UUID]float64{
		uuid.New(): 45,
		uuid.New(): 30, // 75%, neither overloaded nor available
	}

	result := PlanRebalance(loads, nil)

	assert.False(t, result.Rebalanced)
	assert.Equal(t, 1, result.OverloadedUsers)
	assert.Equal(t, 0, result.AvailableUsers)
}

func TestPlanRebalanceCapsTasksPerUser(t *testing.T) {
	src := uuid.New()
	dst := uuid.New()

	loads := map[uuid.UUID]float64{src: 60, dst: 0}
	candidates := map[uuid.UUID][]CandidateTask{
		src: {
			{ID: uuid.New(), Hours: 2},
			{ID: uuid.New(), Hours: 2},
			{ID: uuid.New(), Hours: 2},
			{ID: uuid.New(), Hours: 2},
			{ID: uuid.New(), Hours: 2},
		},
	}

	result := PlanRebalance(loads, candidates)

	assert.Equal(t, 3, result.TasksRebalanced)
}

func TestPlanRebalanceRespectsTargetCap(t *testing.T) {
	src := uuid.New()
	dst := uuid.New()

	// Target sits at 67.5%; an 8h move would project to 87.5%.
	loads := map[uuid.UUID]float64{src: 45, dst: 27}
	candidates := map[uuid.UUID][]CandidateTask{
		src: {{ID: uuid.New(), Hours: 8}},
	}

	result := PlanRebalance(loads, candidates)

	assert.False(t, result.Rebalanced)
	assert.Equal(t, 0, result.TasksRebalanced)
	assert.Equal(t, 1, result.AvailableUsers)
}
