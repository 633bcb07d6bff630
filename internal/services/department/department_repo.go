package department

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrDepartmentNotFound = errors.New("department not found")

// DepartmentRepo handles database operations for departments
type DepartmentRepo struct {
	db *sqlx.DB
}

func NewDepartmentRepo(db *sqlx.DB) *DepartmentRepo {
	return &DepartmentRepo{db: db}
}

func (r *DepartmentRepo) Create(ctx context.Context, req *CreateDepartmentRequest) (*Department, error) {
	query := `
        INSERT INTO departments (name, head_id)
        VALUES ($1, $2)
        RETURNING id, name, head_id, created_at, updated_at
    `

	var d Department
	err := r.db.GetContext(ctx, &d, query, req.Name, req.HeadID)
	if err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}

	return &d, nil
}

func (r *DepartmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*Department, error) {
	query := `
        SELECT id, name, head_id, created_at, updated_at
        FROM departments
        WHERE id = $1
    `

	var d Department
	err := r.db.GetContext(ctx, &d, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}

	return &d, nil
}

func (r *DepartmentRepo) GetByName(ctx context.Context, name string) (*Department, error) {
	query := `
        SELECT id, name, head_id, created_at, updated_at
        FROM departments
        WHERE name = $1
    `

	var d Department
	err := r.db.GetContext(ctx, &d, query, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}

	return &d, nil
}

func (r *DepartmentRepo) List(ctx context.Context) ([]*Department, error) {
	query := `
        SELECT id, name, head_id, created_at, updated_at
        FROM departments
        ORDER BY name ASC
    `

	var departments []*Department
	err := r.db.SelectContext(ctx, &departments, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	return departments, nil
}

func (r *DepartmentRepo) Update(ctx context.Context, id uuid.UUID, req *UpdateDepartmentRequest) (*Department, error) {
	setParts := []string{}
	args := []interface{}{}

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", len(args)+1))
		args = append(args, *req.Name)
	}
	if req.HeadID != nil {
		setParts = append(setParts, fmt.Sprintf("head_id = $%d", len(args)+1))
		args = append(args, *req.HeadID)
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
        UPDATE departments
        SET %s
        WHERE id = $%d
        RETURNING id, name, head_id, created_at, updated_at
    `, strings.Join(setParts, ", "), len(args))

	var d Department
	err := r.db.GetContext(ctx, &d, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to update department: %w", err)
	}

	return &d, nil
}

func (r *DepartmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM departments WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrDepartmentNotFound
	}

	return nil
}
