package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepo handles database operations for users
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, name, email, password_hash, role, capacity, department_id, created_at, updated_at`

func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash, role string, capacity float64, departmentID *uuid.UUID) (*User, error) {
	query := `
        INSERT INTO users (name, email, password_hash, role, capacity, department_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + userColumns + `
    `

	var u User
	err := r.db.GetContext(ctx, &u, query, name, email, passwordHash, role, capacity, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var u User
	err := r.db.GetContext(ctx, &u, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, filter *ListUsersFilter) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users`

	where := []string{}
	args := []interface{}{}

	if filter != nil && filter.DepartmentID != nil {
		where = append(where, fmt.Sprintf("department_id = $%d", len(args)+1))
		args = append(args, *filter.DepartmentID)
	}
	if filter != nil && filter.Role != nil {
		where = append(where, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, string(*filter.Role))
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var users []*User
	err := r.db.SelectContext(ctx, &users, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// Update updates user fields
func (r *UserRepo) Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest, passwordHash *string) (*User, error) {
	setParts := []string{}
	args := []interface{}{}

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", len(args)+1))
		args = append(args, *req.Name)
	}
	if req.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", len(args)+1))
		args = append(args, *req.Email)
	}
	if passwordHash != nil {
		setParts = append(setParts, fmt.Sprintf("password_hash = $%d", len(args)+1))
		args = append(args, *passwordHash)
	}
	if req.Role != nil {
		setParts = append(setParts, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, *req.Role)
	}
	if req.Capacity != nil {
		setParts = append(setParts, fmt.Sprintf("capacity = $%d", len(args)+1))
		args = append(args, *req.Capacity)
	}
	if req.DepartmentID != nil {
		setParts = append(setParts, fmt.Sprintf("department_id = $%d", len(args)+1))
		args = append(args, *req.DepartmentID)
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
        UPDATE users
        SET %s
        WHERE id = $%d
        RETURNING `+userColumns+`
    `, strings.Join(setParts, ", "), len(args))

	var u User
	err := r.db.GetContext(ctx, &u, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &u, nil
}

// Delete removes a user by ID. Destructive; assigned tasks keep a NULL assignee.
func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
