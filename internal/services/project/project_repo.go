package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrProjectNotFound = errors.New("project not found")

// ProjectRepo handles database operations for projects
type ProjectRepo struct {
	db *sqlx.DB
}

func NewProjectRepo(db *sqlx.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

func (r *ProjectRepo) Create(ctx context.Context, req *CreateProjectRequest, status string) (*Project, error) {
	query := `
        INSERT INTO projects (name, status)
        VALUES ($1, $2)
        RETURNING id, name, status, created_at, updated_at
    `

	var project Project
	err := r.db.GetContext(ctx, &project, query, req.Name, status)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	for _, deptID := range req.DepartmentIDs {
		if err := r.linkDepartment(ctx, project.ID, deptID); err != nil {
			return nil, err
		}
	}

	return &project, nil
}

func (r *ProjectRepo) linkDepartment(ctx context.Context, projectID, departmentID uuid.UUID) error {
	query := `
        INSERT INTO project_departments (project_id, department_id)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING
    `
	if _, err := r.db.ExecContext(ctx, query, projectID, departmentID); err != nil {
		return fmt.Errorf("failed to link department: %w", err)
	}
	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	query := `
        SELECT id, name, status, created_at, updated_at
        FROM projects
        WHERE id = $1
    `

	var project Project
	err := r.db.GetContext(ctx, &project, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

func (r *ProjectRepo) GetByName(ctx context.Context, name string) (*Project, error) {
	query := `
        SELECT id, name, status, created_at, updated_at
        FROM projects
        WHERE name = $1
    `

	var project Project
	err := r.db.GetContext(ctx, &project, query, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]*Project, error) {
	query := `
        SELECT id, name, status, created_at, updated_at
        FROM projects
        ORDER BY created_at DESC
    `

	var projects []*Project
	err := r.db.SelectContext(ctx, &projects, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// ListRecent returns the most recently touched projects, newest first.
func (r *ProjectRepo) ListRecent(ctx context.Context, limit int) ([]*Project, error) {
	query := `
        SELECT id, name, status, created_at, updated_at
        FROM projects
        ORDER BY updated_at DESC
        LIMIT $1
    `

	var projects []*Project
	err := r.db.SelectContext(ctx, &projects, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent projects: %w", err)
	}

	return projects, nil
}

// ListByDepartment returns projects linked to a department.
func (r *ProjectRepo) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*Project, error) {
	query := `
        SELECT p.id, p.name, p.status, p.created_at, p.updated_at
        FROM projects p
        JOIN project_departments pd ON pd.project_id = p.id
        WHERE pd.department_id = $1
        ORDER BY p.created_at DESC
    `

	var projects []*Project
	err := r.db.SelectContext(ctx, &projects, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects by department: %w", err)
	}

	return projects, nil
}

func (r *ProjectRepo) Update(ctx context.Context, id uuid.UUID, req *UpdateProjectRequest) (*Project, error) {
	setParts := []string{}
	args := []interface{}{}

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", len(args)+1))
		args = append(args, *req.Name)
	}
	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *req.Status)
	}

	if len(setParts) == 0 && req.DepartmentIDs == nil {
		return r.GetByID(ctx, id)
	}

	var project *Project
	if len(setParts) > 0 {
		setParts = append(setParts, "updated_at = NOW()")
		args = append(args, id)

		query := fmt.Sprintf(`
            UPDATE projects
            SET %s
            WHERE id = $%d
            RETURNING id, name, status, created_at, updated_at
        `, strings.Join(setParts, ", "), len(args))

		var p Project
		err := r.db.GetContext(ctx, &p, query, args...)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, ErrProjectNotFound
			}
			return nil, fmt.Errorf("failed to update project: %w", err)
		}
		project = &p
	} else {
		p, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		project = p
	}

	if req.DepartmentIDs != nil {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM project_departments WHERE project_id = $1`, id); err != nil {
			return nil, fmt.Errorf("failed to unlink departments: %w", err)
		}
		for _, deptID := range *req.DepartmentIDs {
			if err := r.linkDepartment(ctx, id, deptID); err != nil {
				return nil, err
			}
		}
	}

	return project, nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM projects WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProjectNotFound
	}

	return nil
}

func (r *ProjectRepo) AddParticipant(ctx context.Context, projectID, userID uuid.UUID, role ParticipationRole) error {
	query := `
        INSERT INTO project_participations (project_id, user_id, role)
        VALUES ($1, $2, $3)
        ON CONFLICT (project_id, user_id) DO UPDATE SET role = EXCLUDED.role
    `
	if _, err := r.db.ExecContext(ctx, query, projectID, userID, role); err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

func (r *ProjectRepo) RemoveParticipant(ctx context.Context, projectID, userID uuid.UUID) error {
	query := `DELETE FROM project_participations WHERE project_id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, projectID, userID); err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	return nil
}

func (r *ProjectRepo) ListParticipants(ctx context.Context, projectID uuid.UUID) ([]*Participation, error) {
	query := `
        SELECT project_id, user_id, role, created_at
        FROM project_participations
        WHERE project_id = $1
        ORDER BY created_at ASC
    `

	var participants []*Participation
	err := r.db.SelectContext(ctx, &participants, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	return participants, nil
}

// Progress aggregates task completion for a project. A task with phases
// contributes its completed-phase ratio; a task without phases contributes
// 1 when COMPLETED and 0 otherwise.
func (r *ProjectRepo) Progress(ctx context.Context, projectID uuid.UUID) (*Progress, error) {
	query := `
        SELECT
            t.status,
            COUNT(p.id) AS total_phases,
            COUNT(p.id) FILTER (WHERE p.status = 'COMPLETED') AS completed_phases
        FROM tasks t
        LEFT JOIN task_phases p ON p.task_id = t.id
        WHERE t.project_id = $1
        GROUP BY t.id, t.status
    `

	var rows []struct {
		Status          string `db:"status"`
		TotalPhases     int    `db:"total_phases"`
		CompletedPhases int    `db:"completed_phases"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, projectID); err != nil {
		return nil, fmt.Errorf("failed to aggregate project progress: %w", err)
	}

	progress := &Progress{
		ProjectID:  projectID,
		TotalTasks: len(rows),
	}

	sum := 0.0
	for _, row := range rows {
		if row.Status == "COMPLETED" {
			progress.CompletedTasks++
		}

		switch {
		case row.TotalPhases > 0:
			sum += float64(row.CompletedPhases) / float64(row.TotalPhases)
		case row.Status == "COMPLETED":
			sum += 1
		}
	}
	if len(rows) > 0 {
		progress.Completion = sum / float64(len(rows))
	}

	return progress, nil
}
