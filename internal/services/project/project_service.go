package project

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrProjectAlreadyExists = errors.New("project already exists")

// ProjectService contains business logic for projects
type ProjectService struct {
	repo *ProjectRepo
}

func NewProjectService(repo *ProjectRepo) *ProjectService {
	return &ProjectService{repo: repo}
}

// Create registers a new project ensuring name uniqueness
func (s *ProjectService) Create(ctx context.Context, req *CreateProjectRequest) (*Project, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}

	if _, err := s.repo.GetByName(ctx, req.Name); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrProjectAlreadyExists, req.Name)
	} else if !errors.Is(err, ErrProjectNotFound) {
		return nil, fmt.Errorf("failed to validate project name: %w", err)
	}

	status := "ACTIVE"
	if req.Status != "" {
		status = strings.ToUpper(req.Status)
	}

	project, err := s.repo.Create(ctx, req, status)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProjectService) List(ctx context.Context) ([]*Project, error) {
	return s.repo.List(ctx)
}

func (s *ProjectService) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*Project, error) {
	return s.repo.ListByDepartment(ctx, departmentID)
}

func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, req *UpdateProjectRequest) (*Project, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != existing.Name {
		if _, err := s.repo.GetByName(ctx, *req.Name); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrProjectAlreadyExists, *req.Name)
		} else if !errors.Is(err, ErrProjectNotFound) {
			return nil, fmt.Errorf("failed to validate project name: %w", err)
		}
	}

	return s.repo.Update(ctx, id, req)
}

func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// AddParticipant links a user to a project. Unknown participation roles
// fall back to PARTICIPANT.
func (s *ProjectService) AddParticipant(ctx context.Context, projectID uuid.UUID, req *AddParticipantRequest) error {
	if _, err := s.repo.GetByID(ctx, projectID); err != nil {
		return err
	}

	role := ParticipationParticipant
	if strings.EqualFold(req.Role, string(ParticipationManager)) {
		role = ParticipationManager
	}

	return s.repo.AddParticipant(ctx, projectID, req.UserID, role)
}

func (s *ProjectService) RemoveParticipant(ctx context.Context, projectID, userID uuid.UUID) error {
	return s.repo.RemoveParticipant(ctx, projectID, userID)
}

func (s *ProjectService) ListParticipants(ctx context.Context, projectID uuid.UUID) ([]*Participation, error) {
	if _, err := s.repo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	return s.repo.ListParticipants(ctx, projectID)
}

func (s *ProjectService) Progress(ctx context.Context, projectID uuid.UUID) (*Progress, error) {
	if _, err := s.repo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	return s.repo.Progress(ctx, projectID)
}
