package syncpoll

import (
	"fmt"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/temsafy/temsafy/internal/services/dashboard"
	"github.com/temsafy/temsafy/internal/services/project"
	"github.com/temsafy/temsafy/internal/services/task"
)

// EventType classifies a detected change.
type EventType string

const (
	EventAssigned EventType = "assigned"
	EventUpdated  EventType = "updated"
	EventCreated  EventType = "created"
)

// Event is one detected change between two consecutive snapshots. An event
// is emitted once, at the poll cycle where the change first appears.
type Event struct {
	Type     EventType `json:"type"`
	Entity   string    `json:"entity"`
	EntityID uuid.UUID `json:"entityId"`
	Message  string    `json:"message"`
}

// Viewer scopes diff events to what the watching user cares about.
type Viewer struct {
	UserID       uuid.UUID
	DepartmentID *uuid.UUID
}

// ParseSnapshot decodes a polled snapshot body.
func ParseSnapshot(body []byte) (*dashboard.Snapshot, error) {
	var snap dashboard.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// DiffSnapshots compares the task and project lists of two consecutive
// snapshots by id. A task whose assignee just became the viewer yields an
// assigned event; otherwise a status change yields an updated event, so a
// single change never produces both. New entries yield created events.
// Task events are filtered to the viewer's department, assignments and
// authored tasks; project events are not scoped.
func DiffSnapshots(prev, curr *dashboard.Snapshot, viewer Viewer) []Event {
	if prev == nil || curr == nil {
		return nil
	}

	var events []Event

	prevTasks := make(map[uuid.UUID]*task.Task, len(prev.Recent.Tasks))
	for _, t := range prev.Recent.Tasks {
		prevTasks[t.ID] = t
	}

	for _, t := range curr.Recent.Tasks {
		old, seen := prevTasks[t.ID]
		if !seen {
			if relevantTask(t, viewer) {
				events = append(events, Event{
					Type:     EventCreated,
					Entity:   "task",
					EntityID: t.ID,
					Message:  fmt.Sprintf("New task: %s", t.Title),
				})
			}
			continue
		}

		if assigneeChanged(old.AssigneeID, t.AssigneeID) && t.AssigneeID != nil && *t.AssigneeID == viewer.UserID {
			events = append(events, Event{
				Type:     EventAssigned,
				Entity:   "task",
				EntityID: t.ID,
				Message:  fmt.Sprintf("Task assigned to you: %s", t.Title),
			})
			continue
		}

		if old.Status != t.Status && relevantTask(t, viewer) {
			events = append(events, Event{
				Type:     EventUpdated,
				Entity:   "task",
				EntityID: t.ID,
				Message:  fmt.Sprintf("Task %s is now %s", t.Title, t.Status),
			})
		}
	}

	prevProjects := make(map[uuid.UUID]*project.Project, len(prev.Recent.Projects))
	for _, p := range prev.Recent.Projects {
		prevProjects[p.ID] = p
	}

	for _, p := range curr.Recent.Projects {
		old, seen := prevProjects[p.ID]
		if !seen {
			events = append(events, Event{
				Type:     EventCreated,
				Entity:   "project",
				EntityID: p.ID,
				Message:  fmt.Sprintf("New project: %s", p.Name),
			})
			continue
		}

		if old.Status != p.Status {
			events = append(events, Event{
				Type:     EventUpdated,
				Entity:   "project",
				EntityID: p.ID,
				Message:  fmt.Sprintf("Project %s is now %s", p.Name, p.Status),
			})
		}
	}

	return events
}

func assigneeChanged(old, curr *uuid.UUID) bool {
	if old == nil && curr == nil {
		return false
	}
	if old == nil || curr == nil {
		return true
	}
	return *old != *curr
}

func relevantTask(t *task.Task, viewer Viewer) bool {
	if t.AssigneeID != nil && *t.AssigneeID == viewer.UserID {
		return true
	}
	if t.CreatedByID != nil && *t.CreatedByID == viewer.UserID {
		return true
	}
	if t.DepartmentID != nil && viewer.DepartmentID != nil && *t.DepartmentID == *viewer.DepartmentID {
		return true
	}
	return false
}
