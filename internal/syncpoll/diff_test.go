package syncpoll

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temsafy/temsafy/internal/services/dashboard"
	"github.com/temsafy/temsafy/internal/services/project"
	"github.com/temsafy/temsafy/internal/services/task"
)

func snapshotWithTasks(tasks ...*task.Task) *dashboard.Snapshot {
	return &dashboard.Snapshot{Recent: dashboard.Recent{Tasks: tasks}}
}

func cloneTask(t *task.Task) *task.Task {
	c := *t
	return &c
}

func TestDiffSnapshotsAssignment(t *testing.T) {
	viewer := Viewer{UserID: uuid.New()}

	before := &task.Task{ID: uuid.New(), Title: "Pour foundation", Status: task.StatusPending}
	after := cloneTask(before)
	after.AssigneeID = &viewer.UserID

	events := DiffSnapshots(snapshotWithTasks(before), snapshotWithTasks(after), viewer)

	require.Len(t, events, 1)
	assert.Equal(t, EventAssigned, events[0].Type)
	assert.Equal(t, "task", events[0].Entity)
	assert.Equal(t, before.ID, events[0].EntityID)
}

func TestDiffSnapshotsStatusChangeOnly(t *testing.T) {
	viewer := Viewer{UserID: uuid.New()}

	before := &task.Task{ID: uuid.New(), Title: "Inspect wiring", Status: task.StatusPending, AssigneeID: &viewer.UserID}
	after := cloneTask(before)
	after.Status = task.StatusInProgress

	events := DiffSnapshots(snapshotWithTasks(before), snapshotWithTasks(after), viewer)

	require.Len(t, events, 1)
	assert.Equal(t, EventUpdated, events[0].Type)
}

func TestDiffSnapshotsAssignmentSuppressesUpdate(t *testing.T) {
	// When assignment and status change land in the same poll, only the
	// assigned event fires.
	viewer := Viewer{UserID: uuid.New()}

	before := &task.Task{ID: uuid.New(), Status: task.StatusPending}
	after := cloneTask(before)
	after.AssigneeID = &viewer.UserID
	after.Status = task.StatusInProgress

	events := DiffSnapshots(snapshotWithTasks(before), snapshotWithTasks(after), viewer)

	require.Len(t, events, 1)
	assert.Equal(t, EventAssigned, events[0].Type)
}

func TestDiffSnapshotsCreated(t *testing.T) {
	viewer := Viewer{UserID: uuid.New()}

	created := &task.Task{ID: uuid.New(), Title: "New survey", Status: task.StatusPending, AssigneeID: &viewer.UserID}

	events := DiffSnapshots(snapshotWithTasks(), snapshotWithTasks(created), viewer)

	require.Len(t, events, 1)
	assert.Equal(t, EventCreated, events[0].Type)
}

func TestDiffSnapshotsRelevanceFilter(t *testing.T) {
	viewer := Viewer{UserID: uuid.New()}
	otherUser := uuid.New()
	otherDept := uuid.New()

	// Belongs to someone else in another department; not relevant.
	before := &task.Task{ID: uuid.New(), Status: task.StatusPending, AssigneeID: &otherUser, DepartmentID: &otherDept}
	after := cloneTask(before)
	after.Status = task.StatusCompleted

	events := DiffSnapshots(snapshotWithTasks(before), snapshotWithTasks(after), viewer)
	assert.Empty(t, events)

	// Same department makes it relevant.
	viewer.DepartmentID = &otherDept
	events = DiffSnapshots(snapshotWithTasks(before), snapshotWithTasks(after), viewer)
	require.Len(t, events, 1)
	assert.Equal(t, EventUpdated, events[0].Type)
}

func TestDiffSnapshotsIdentical(t *testing.T) {
	viewer := Viewer{UserID: uuid.New()}

	tk := &task.Task{ID: uuid.New(), Status: task.StatusPending}
	events := DiffSnapshots(snapshotWithTasks(tk), snapshotWithTasks(cloneTask(tk)), viewer)

	assert.Empty(t, events)
}

func TestDiffSnapshotsProjects(t *testing.T) {
	viewer := Viewer{UserID: uuid.New()}

	p := &project.Project{ID: uuid.New(), Name: "Depot refit", Status: "ACTIVE"}
	changed := *p
	changed.Status = "COMPLETED"

	prev := &dashboard.Snapshot{Recent: dashboard.Recent{Projects: []*project.Project{p}}}
	curr := &dashboard.Snapshot{Recent: dashboard.Recent{Projects: []*project.Project{&changed}}}

	events := DiffSnapshots(prev, curr, viewer)
	require.Len(t, events, 1)
	assert.Equal(t, EventUpdated, events[0].Type)
	assert.Equal(t, "project", events[0].Entity)

	fresh := &project.Project{ID: uuid.New(), Name: "New yard"}
	curr.Recent.Projects = append(curr.Recent.Projects, fresh)

	events = DiffSnapshots(prev, curr, viewer)
	require.Len(t, events, 2)
	assert.Equal(t, EventCreated, events[1].Type)
}

func TestDiffSnapshotsNilInputs(t *testing.T) {
	viewer := Viewer{UserID: uuid.New()}
	assert.Nil(t, DiffSnapshots(nil, snapshotWithTasks(), viewer))
	assert.Nil(t, DiffSnapshots(snapshotWithTasks(), nil, viewer))
}
