package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want TaskStatus
		ok   bool
	}{
		{"PENDING", StatusPending, true},
		{"pending", StatusPending, true},
		{"TODO", StatusPending, true},
		{" in_progress ", StatusInProgress, true},
		{"COMPLETED", StatusCompleted, true},
		{"CANCELLED", StatusCancelled, true},
		{"DONE", "", false},
		{"", "", false},
	}

	for _, c := range cases {
		got, ok := NormalizeStatus(c.raw)
		assert.Equal(t, c.ok, ok, "raw %q", c.raw)
		assert.Equal(t, c.want, got, "raw %q", c.raw)
	}
}

func TestNormalizePriority(t *testing.T) {
	cases := []struct {
		raw  string
		want TaskPriority
		ok   bool
	}{
		{"LOW", PriorityLow, true},
		{"medium", PriorityMedium, true},
		{"HIGH", PriorityHigh, true},
		{"URGENT", PriorityUrgent, true},
		{"CRITICAL", PriorityUrgent, true},
		{"critical", PriorityUrgent, true},
		{"BLOCKER", "", false},
	}

	for _, c := range cases {
		got, ok := NormalizePriority(c.raw)
		assert.Equal(t, c.ok, ok, "raw %q", c.raw)
		assert.Equal(t, c.want, got, "raw %q", c.raw)
	}
}

func TestTaskStatusIsActive(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusInProgress.IsActive())
	assert.False(t, StatusCompleted.IsActive())
	assert.False(t, StatusCancelled.IsActive())
}
