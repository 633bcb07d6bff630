package feedback

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrFeedbackNotFound = errors.New("feedback not found")

type FeedbackRepo struct {
	db *sqlx.DB
}

func NewFeedbackRepo(db *sqlx.DB) *FeedbackRepo {
	return &FeedbackRepo{db: db}
}

const feedbackColumns = `id, task_id, author_id, rating, comment, created_at, updated_at`

func (r *FeedbackRepo) Create(ctx context.Context, req *CreateFeedbackRequest, authorID uuid.UUID) (*Feedback, error) {
	query := `
        INSERT INTO feedback (task_id, author_id, rating, comment)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + feedbackColumns + `
    `

	var f Feedback
	err := r.db.GetContext(ctx, &f, query, req.TaskID, authorID, req.Rating, req.Comment)
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	return &f, nil
}

func (r *FeedbackRepo) GetByID(ctx context.Context, id uuid.UUID) (*Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE id = $1`

	var f Feedback
	err := r.db.GetContext(ctx, &f, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	return &f, nil
}

func (r *FeedbackRepo) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE task_id = $1 ORDER BY created_at DESC`

	var items []*Feedback
	err := r.db.SelectContext(ctx, &items, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	return items, nil
}

func (r *FeedbackRepo) Update(ctx context.Context, id uuid.UUID, req *UpdateFeedbackRequest) (*Feedback, error) {
	setParts := []string{}
	args := []interface{}{}

	if req.Rating != nil {
		setParts = append(setParts, fmt.Sprintf("rating = $%d", len(args)+1))
		args = append(args, *req.Rating)
	}
	if req.Comment != nil {
		setParts = append(setParts, fmt.Sprintf("comment = $%d", len(args)+1))
		args = append(args, *req.Comment)
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
        UPDATE feedback
        SET %s
        WHERE id = $%d
        RETURNING `+feedbackColumns+`
    `, strings.Join(setParts, ", "), len(args))

	var f Feedback
	err := r.db.GetContext(ctx, &f, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("failed to update feedback: %w", err)
	}

	return &f, nil
}

func (r *FeedbackRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM feedback WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrFeedbackNotFound
	}

	return nil
}
