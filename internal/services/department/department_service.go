package department

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrDepartmentAlreadyExists = errors.New("department already exists")

// DepartmentService contains business logic for departments
type DepartmentService struct {
	repo *DepartmentRepo
}

func NewDepartmentService(repo *DepartmentRepo) *DepartmentService {
	return &DepartmentService{repo: repo}
}

func (s *DepartmentService) Create(ctx context.Context, req *CreateDepartmentRequest) (*Department, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("department name is required")
	}

	if _, err := s.repo.GetByName(ctx, req.Name); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDepartmentAlreadyExists, req.Name)
	} else if !errors.Is(err, ErrDepartmentNotFound) {
		return nil, fmt.Errorf("failed to validate department name: %w", err)
	}

	d, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}

	return d, nil
}

func (s *DepartmentService) GetByID(ctx context.Context, id uuid.UUID) (*Department, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DepartmentService) List(ctx context.Context) ([]*Department, error) {
	return s.repo.List(ctx)
}

func (s *DepartmentService) Update(ctx context.Context, id uuid.UUID, req *UpdateDepartmentRequest) (*Department, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != existing.Name {
		if _, err := s.repo.GetByName(ctx, *req.Name); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrDepartmentAlreadyExists, *req.Name)
		} else if !errors.Is(err, ErrDepartmentNotFound) {
			return nil, fmt.Errorf("failed to validate department name: %w", err)
		}
	}

	return s.repo.Update(ctx, id, req)
}

func (s *DepartmentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
