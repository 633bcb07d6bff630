package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrPhaseNotFound = errors.New("task phase not found")
)

// TaskRepo handles database operations for tasks and their phases
type TaskRepo struct {
	db *sqlx.DB
}

func NewTaskRepo(db *sqlx.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

const taskColumns = `id, title, description, status, priority, estimated_hours, assignee_id, project_id, department_id, created_by_id, end_date, created_at, updated_at`

func (r *TaskRepo) Create(ctx context.Context, req *CreateTaskRequest, status TaskStatus, priority TaskPriority, createdByID uuid.UUID) (*Task, error) {
	query := `
        INSERT INTO tasks (title, description, status, priority, estimated_hours, assignee_id, project_id, department_id, created_by_id, end_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING ` + taskColumns + `
    `

	var t Task
	err := r.db.GetContext(ctx, &t, query,
		req.Title, req.Description, status, priority, req.EstimatedHours,
		req.AssigneeID, req.ProjectID, req.DepartmentID, createdByID, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return &t, nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	var t Task
	err := r.db.GetContext(ctx, &t, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &t, nil
}

func (r *TaskRepo) List(ctx context.Context, filter *ListTasksFilter) ([]*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`

	where := []string{}
	args := []interface{}{}

	if filter != nil {
		if filter.Status != nil {
			where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
			args = append(args, *filter.Status)
		}
		if filter.Priority != nil {
			where = append(where, fmt.Sprintf("priority = $%d", len(args)+1))
			args = append(args, *filter.Priority)
		}
		if filter.AssigneeID != nil {
			where = append(where, fmt.Sprintf("assignee_id = $%d", len(args)+1))
			args = append(args, *filter.AssigneeID)
		}
		if filter.ProjectID != nil {
			where = append(where, fmt.Sprintf("project_id = $%d", len(args)+1))
			args = append(args, *filter.ProjectID)
		}
		if filter.DepartmentID != nil {
			where = append(where, fmt.Sprintf("department_id = $%d", len(args)+1))
			args = append(args, *filter.DepartmentID)
		}
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var tasks []*Task
	err := r.db.SelectContext(ctx, &tasks, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepo) Update(ctx context.Context, id uuid.UUID, req *UpdateTaskRequest, status *TaskStatus, priority *TaskPriority) (*Task, error) {
	setParts := []string{}
	args := []interface{}{}

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", len(args)+1))
		args = append(args, *req.Title)
	}
	if req.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", len(args)+1))
		args = append(args, *req.Description)
	}
	if status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *status)
	}
	if priority != nil {
		setParts = append(setParts, fmt.Sprintf("priority = $%d", len(args)+1))
		args = append(args, *priority)
	}
	if req.EstimatedHours != nil {
		setParts = append(setParts, fmt.Sprintf("estimated_hours = $%d", len(args)+1))
		args = append(args, *req.EstimatedHours)
	}
	if req.AssigneeID != nil {
		setParts = append(setParts, fmt.Sprintf("assignee_id = $%d", len(args)+1))
		args = append(args, *req.AssigneeID)
	}
	if req.EndDate != nil {
		setParts = append(setParts, fmt.Sprintf("end_date = $%d", len(args)+1))
		args = append(args, *req.EndDate)
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
        UPDATE tasks
        SET %s
        WHERE id = $%d
        RETURNING `+taskColumns+`
    `, strings.Join(setParts, ", "), len(args))

	var t Task
	err := r.db.GetContext(ctx, &t, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return &t, nil
}

// Reassign moves the task to a new assignee. Used by the rebalancer; the
// write is intentionally standalone, there is no surrounding transaction.
func (r *TaskRepo) Reassign(ctx context.Context, id uuid.UUID, assigneeID uuid.UUID) error {
	query := `UPDATE tasks SET assignee_id = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, assigneeID, id)
	if err != nil {
		return fmt.Errorf("failed to reassign task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// ListRecent returns the most recently touched tasks, newest first.
func (r *TaskRepo) ListRecent(ctx context.Context, limit int) ([]*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY updated_at DESC LIMIT $1`

	var tasks []*Task
	err := r.db.SelectContext(ctx, &tasks, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent tasks: %w", err)
	}

	return tasks, nil
}

// ListOverdue returns active tasks whose deadline has passed.
func (r *TaskRepo) ListOverdue(ctx context.Context) ([]*Task, error) {
	query := `
        SELECT ` + taskColumns + `
        FROM tasks
        WHERE status IN ('PENDING', 'IN_PROGRESS') AND end_date IS NOT NULL AND end_date < NOW()
        ORDER BY end_date ASC
    `

	var tasks []*Task
	err := r.db.SelectContext(ctx, &tasks, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue tasks: %w", err)
	}

	return tasks, nil
}

// ListUrgentActive returns active URGENT-priority tasks.
func (r *TaskRepo) ListUrgentActive(ctx context.Context) ([]*Task, error) {
	query := `
        SELECT ` + taskColumns + `
        FROM tasks
        WHERE status IN ('PENDING', 'IN_PROGRESS') AND priority = 'URGENT'
        ORDER BY end_date ASC NULLS LAST
    `

	var tasks []*Task
	err := r.db.SelectContext(ctx, &tasks, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list urgent tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

const phaseColumns = `id, task_id, name, phase_order, status, estimated_time, actual_time, assigned_to_id, start_date, end_date, created_at, updated_at`

func (r *TaskRepo) CreatePhase(ctx context.Context, taskID uuid.UUID, req *CreatePhaseRequest, status TaskStatus) (*TaskPhase, error) {
	query := `
        INSERT INTO task_phases (task_id, name, phase_order, status, estimated_time, assigned_to_id, start_date, end_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING ` + phaseColumns + `
    `

	var p TaskPhase
	err := r.db.GetContext(ctx, &p, query,
		taskID, req.Name, req.PhaseOrder, status, req.EstimatedTime,
		req.AssignedToID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create task phase: %w", err)
	}

	return &p, nil
}

func (r *TaskRepo) ListPhases(ctx context.Context, taskID uuid.UUID) ([]*TaskPhase, error) {
	query := `SELECT ` + phaseColumns + ` FROM task_phases WHERE task_id = $1 ORDER BY phase_order ASC`

	var phases []*TaskPhase
	err := r.db.SelectContext(ctx, &phases, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task phases: %w", err)
	}

	return phases, nil
}

func (r *TaskRepo) UpdatePhase(ctx context.Context, phaseID uuid.UUID, req *UpdatePhaseRequest, status *TaskStatus) (*TaskPhase, error) {
	setParts := []string{}
	args := []interface{}{}

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", len(args)+1))
		args = append(args, *req.Name)
	}
	if req.PhaseOrder != nil {
		setParts = append(setParts, fmt.Sprintf("phase_order = $%d", len(args)+1))
		args = append(args, *req.PhaseOrder)
	}
	if status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *status)
	}
	if req.EstimatedTime != nil {
		setParts = append(setParts, fmt.Sprintf("estimated_time = $%d", len(args)+1))
		args = append(args, *req.EstimatedTime)
	}
	if req.ActualTime != nil {
		setParts = append(setParts, fmt.Sprintf("actual_time = $%d", len(args)+1))
		args = append(args, *req.ActualTime)
	}
	if req.AssignedToID != nil {
		setParts = append(setParts, fmt.Sprintf("assigned_to_id = $%d", len(args)+1))
		args = append(args, *req.AssignedToID)
	}
	if req.StartDate != nil {
		setParts = append(setParts, fmt.Sprintf("start_date = $%d", len(args)+1))
		args = append(args, *req.StartDate)
	}
	if req.EndDate != nil {
		setParts = append(setParts, fmt.Sprintf("end_date = $%d", len(args)+1))
		args = append(args, *req.EndDate)
	}

	if len(setParts) == 0 {
		return r.getPhaseByID(ctx, phaseID)
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, phaseID)

	query := fmt.Sprintf(`
        UPDATE task_phases
        SET %s
        WHERE id = $%d
        RETURNING `+phaseColumns+`
    `, strings.Join(setParts, ", "), len(args))

	var p TaskPhase
	err := r.db.GetContext(ctx, &p, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPhaseNotFound
		}
		return nil, fmt.Errorf("failed to update task phase: %w", err)
	}

	return &p, nil
}

func (r *TaskRepo) getPhaseByID(ctx context.Context, phaseID uuid.UUID) (*TaskPhase, error) {
	query := `SELECT ` + phaseColumns + ` FROM task_phases WHERE id = $1`

	var p TaskPhase
	err := r.db.GetContext(ctx, &p, query, phaseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPhaseNotFound
		}
		return nil, fmt.Errorf("failed to get task phase: %w", err)
	}

	return &p, nil
}

func (r *TaskRepo) DeletePhase(ctx context.Context, phaseID uuid.UUID) error {
	query := `DELETE FROM task_phases WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, phaseID)
	if err != nil {
		return fmt.Errorf("failed to delete task phase: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPhaseNotFound
	}

	return nil
}
