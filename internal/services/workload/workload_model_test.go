package workload

import (
	"testing"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// All workload payloads serialize with camelCase keys, matching the field
// names the dashboard client reads.
func TestWorkloadPayloadsUseCamelCaseKeys(t *testing.T) {
	id := uuid.New()

	cases := []struct {
		name    string
		payload any
		keys    []string
	}{
		{
			name:    "snapshot",
			payload: Snapshot{UserID: id, UtilizationRate: 88, Status: StatusBusy, ActiveTaskCount: 2},
			keys:    []string{`"userId"`, `"currentHours"`, `"utilizationRate"`, `"activeTaskCount"`},
		},
		{
			name:    "team summary",
			payload: TeamSummary{AvgUtilization: 50, StatusDistribution: map[Status]int{StatusBusy: 1}},
			keys:    []string{`"avgUtilization"`, `"statusDistribution"`, `"totalCapacity"`},
		},
		{
			name:    "alert",
			payload: Alert{UserID: id, UserName: "Dana", Type: AlertWorkload, Severity: SeverityWarning, ActionRequired: true},
			keys:    []string{`"userName"`, `"actionRequired"`},
		},
		{
			name:    "rebalance result",
			payload: RebalanceResult{Rebalanced: true, TasksRebalanced: 1, OverloadedUsers: 1, AvailableUsers: 2},
			keys:    []string{`"tasksRebalanced"`, `"overloadedUsers"`, `"availableUsers"`},
		},
		{
			name:    "stats",
			payload: Stats{TotalUsers: 3, AverageWorkload: 40},
			keys:    []string{`"averageWorkload"`, `"totalActiveTasks"`},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, err := json.Marshal(tc.payload)
			require.NoError(t, err)

			for _, key := range tc.keys {
				assert.Contains(t, string(body), key)
			}
			assert.NotContains(t, string(body), "_")
		})
	}
}
