package feedback

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type FeedbackService struct {
	repo *FeedbackRepo
}

func NewFeedbackService(repo *FeedbackRepo) *FeedbackService {
	return &FeedbackService{repo: repo}
}

func (s *FeedbackService) Create(ctx context.Context, req *CreateFeedbackRequest, authorID uuid.UUID) (*Feedback, error) {
	if req.TaskID == uuid.Nil {
		return nil, fmt.Errorf("task id is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	return s.repo.Create(ctx, req, authorID)
}

func (s *FeedbackService) GetByID(ctx context.Context, id uuid.UUID) (*Feedback, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FeedbackService) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*Feedback, error) {
	return s.repo.ListByTask(ctx, taskID)
}

func (s *FeedbackService) Update(ctx context.Context, id uuid.UUID, req *UpdateFeedbackRequest) (*Feedback, error) {
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return nil, ErrInvalidRating
	}

	return s.repo.Update(ctx, id, req)
}

func (s *FeedbackService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
