package workload

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/temsafy/temsafy/internal/services/task"
	"github.com/temsafy/temsafy/internal/services/user"
)

// WorkloadRepo issues the read queries feeding the engine and persists the
// rebalancer's reassignments.
type WorkloadRepo struct {
	db *sqlx.DB
}

func NewWorkloadRepo(db *sqlx.DB) *WorkloadRepo {
	return &WorkloadRepo{db: db}
}

// ListUsers returns the users matching the query. With
// IncludeProjectParticipants set and a department filter, users who
// participate in the department's projects are included even when they
// belong to another department.
func (r *WorkloadRepo) ListUsers(ctx context.Context, q *WorkloadQuery) ([]*user.User, error) {
	const columns = `u.id, u.name, u.email, u.password_hash, u.role, u.capacity, u.department_id, u.created_at, u.updated_at`

	if q.UserID != nil {
		query := `SELECT ` + columns + ` FROM users u WHERE u.id = $1`
		var users []*user.User
		if err := r.db.SelectContext(ctx, &users, query, *q.UserID); err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		return users, nil
	}

	if q.DepartmentID == nil {
		query := `SELECT ` + columns + ` FROM users u ORDER BY u.name ASC`
		var users []*user.User
		if err := r.db.SelectContext(ctx, &users, query); err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		return users, nil
	}

	query := `SELECT ` + columns + ` FROM users u WHERE u.department_id = $1`
	if q.IncludeProjectParticipants {
		query = `
            SELECT DISTINCT ` + columns + `
            FROM users u
            LEFT JOIN project_participations pp ON pp.user_id = u.id
            LEFT JOIN project_departments pd ON pd.project_id = pp.project_id
            WHERE u.department_id = $1 OR pd.department_id = $1
        `
	}
	query += ` ORDER BY u.name ASC`

	var users []*user.User
	if err := r.db.SelectContext(ctx, &users, query, *q.DepartmentID); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// ActiveTasksByAssignee returns the active (PENDING, IN_PROGRESS) tasks for
// the given users, keyed by assignee.
func (r *WorkloadRepo) ActiveTasksByAssignee(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]*task.Task, error) {
	result := make(map[uuid.UUID][]*task.Task, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`
        SELECT id, title, description, status, priority, estimated_hours, assignee_id, project_id, department_id, created_by_id, end_date, created_at, updated_at
        FROM tasks
        WHERE assignee_id IN (?) AND status IN ('PENDING', 'IN_PROGRESS')
    `, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build active tasks query: %w", err)
	}

	var tasks []*task.Task
	if err := r.db.SelectContext(ctx, &tasks, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list active tasks: %w", err)
	}

	for _, t := range tasks {
		if t.AssigneeID == nil {
			continue
		}
		result[*t.AssigneeID] = append(result[*t.AssigneeID], t)
	}

	return result, nil
}

// RebalanceCandidates returns up to limit pending, non-urgent tasks of one
// assignee, largest estimate first.
func (r *WorkloadRepo) RebalanceCandidates(ctx context.Context, assigneeID uuid.UUID, limit int) ([]CandidateTask, error) {
	query := `
        SELECT id, COALESCE(estimated_hours, 0) AS hours
        FROM tasks
        WHERE assignee_id = $1
          AND status = 'PENDING'
          AND priority != 'URGENT'
        ORDER BY COALESCE(estimated_hours, 0) DESC
        LIMIT $2
    `

	rows, err := r.db.QueryxContext(ctx, query, assigneeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rebalance candidates: %w", err)
	}
	defer rows.Close()

	var candidates []CandidateTask
	for rows.Next() {
		var c CandidateTask
		if err := rows.Scan(&c.ID, &c.Hours); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}

// Reassign persists one task move. Called per reassignment with no
// surrounding transaction; a crash mid-pass leaves prior moves committed.
func (r *WorkloadRepo) Reassign(ctx context.Context, taskID, toUserID uuid.UUID) error {
	query := `UPDATE tasks SET assignee_id = $1, updated_at = NOW() WHERE id = $2`

	if _, err := r.db.ExecContext(ctx, query, toUserID, taskID); err != nil {
		return fmt.Errorf("failed to reassign task: %w", err)
	}

	return nil
}

// CountActiveTasks counts all active tasks in the store.
func (r *WorkloadRepo) CountActiveTasks(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM tasks WHERE status IN ('PENDING', 'IN_PROGRESS')`)
	if err != nil {
		return 0, fmt.Errorf("failed to count active tasks: %w", err)
	}

	return count, nil
}
