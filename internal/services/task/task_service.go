package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/temsafy/temsafy/internal/services/notification"
)

var (
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
)

// TaskService contains business logic for tasks and phases
type TaskService struct {
	repo     *TaskRepo
	notifier *notification.NotificationService
}

func NewTaskService(repo *TaskRepo, notifier *notification.NotificationService) *TaskService {
	return &TaskService{repo: repo, notifier: notifier}
}

// notifyAssignee records an in-app notification for the task's assignee.
// Notification failures never fail the write that triggered them.
func (s *TaskService) notifyAssignee(ctx context.Context, t *Task, notifType notification.NotificationType, message string) {
	if s.notifier == nil || t.AssigneeID == nil {
		return
	}
	if _, err := s.notifier.Notify(ctx, *t.AssigneeID, notifType, message, &t.ID); err != nil {
		slog.Warn("Failed to record task notification", slog.Any("error", err))
	}
}

// Create registers a new task. Status and priority default to PENDING/MEDIUM
// and legacy aliases (TODO, CRITICAL) are normalized at this boundary.
func (s *TaskService) Create(ctx context.Context, req *CreateTaskRequest, createdByID uuid.UUID) (*Task, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("task title is required")
	}
	if req.ProjectID == uuid.Nil {
		return nil, fmt.Errorf("project id is required")
	}

	status := StatusPending
	if req.Status != "" {
		normalized, ok := NormalizeStatus(req.Status)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
		}
		status = normalized
	}

	priority := PriorityMedium
	if req.Priority != "" {
		normalized, ok := NormalizePriority(req.Priority)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPriority, req.Priority)
		}
		priority = normalized
	}

	t, err := s.repo.Create(ctx, req, status, priority, createdByID)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.notifyAssignee(ctx, t, notification.TypeAssigned, fmt.Sprintf("Task assigned to you: %s", t.Title))

	return t, nil
}

func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TaskService) List(ctx context.Context, filter *ListTasksFilter) ([]*Task, error) {
	return s.repo.List(ctx, filter)
}

func (s *TaskService) Update(ctx context.Context, id uuid.UUID, req *UpdateTaskRequest) (*Task, error) {
	var status *TaskStatus
	if req.Status != nil {
		normalized, ok := NormalizeStatus(*req.Status)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *req.Status)
		}
		status = &normalized
	}

	var priority *TaskPriority
	if req.Priority != nil {
		normalized, ok := NormalizePriority(*req.Priority)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPriority, *req.Priority)
		}
		priority = &normalized
	}

	t, err := s.repo.Update(ctx, id, req, status, priority)
	if err != nil {
		return nil, err
	}

	if status != nil {
		s.notifyAssignee(ctx, t, notification.TypeUpdated, fmt.Sprintf("Task %s is now %s", t.Title, t.Status))
	}

	return t, nil
}

// Assign moves a task to a new assignee.
func (s *TaskService) Assign(ctx context.Context, id uuid.UUID, assigneeID uuid.UUID) (*Task, error) {
	if err := s.repo.Reassign(ctx, id, assigneeID); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notifyAssignee(ctx, t, notification.TypeAssigned, fmt.Sprintf("Task assigned to you: %s", t.Title))

	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *TaskService) CreatePhase(ctx context.Context, taskID uuid.UUID, req *CreatePhaseRequest) (*TaskPhase, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("phase name is required")
	}

	// Validate parent task exists first
	if _, err := s.repo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	status := StatusPending
	if req.Status != "" {
		normalized, ok := NormalizeStatus(req.Status)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
		}
		status = normalized
	}

	return s.repo.CreatePhase(ctx, taskID, req, status)
}

func (s *TaskService) ListPhases(ctx context.Context, taskID uuid.UUID) ([]*TaskPhase, error) {
	return s.repo.ListPhases(ctx, taskID)
}

func (s *TaskService) UpdatePhase(ctx context.Context, phaseID uuid.UUID, req *UpdatePhaseRequest) (*TaskPhase, error) {
	var status *TaskStatus
	if req.Status != nil {
		normalized, ok := NormalizeStatus(*req.Status)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *req.Status)
		}
		status = &normalized
	}

	return s.repo.UpdatePhase(ctx, phaseID, req, status)
}

func (s *TaskService) DeletePhase(ctx context.Context, phaseID uuid.UUID) error {
	return s.repo.DeletePhase(ctx, phaseID)
}

// PhaseCompletion returns the completed/total phase ratio for a task,
// used by project progress views. Returns 0 when the task has no phases.
func (s *TaskService) PhaseCompletion(ctx context.Context, taskID uuid.UUID) (float64, error) {
	phases, err := s.repo.ListPhases(ctx, taskID)
	if err != nil {
		return 0, err
	}

	if len(phases) == 0 {
		return 0, nil
	}

	completed := 0
	for _, p := range phases {
		if p.Status == StatusCompleted {
			completed++
		}
	}

	return float64(completed) / float64(len(phases)), nil
}
