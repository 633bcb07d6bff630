package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/temsafy/temsafy/internal/rbac"
)

var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserService contains business logic for users
type UserService struct {
	repo *UserRepo
}

func NewUserService(repo *UserRepo) *UserService {
	return &UserService{repo: repo}
}

// Authenticate validates a credential pair and returns the matching user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// Create registers a new user ensuring email uniqueness and a valid role.
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if !rbac.Valid(req.Role) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, req.Role)
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmailTaken, req.Email)
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to validate email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	capacity := float64(DefaultCapacityHours)
	if req.Capacity != nil {
		capacity = *req.Capacity
	}

	u, err := s.repo.Create(ctx, req.Name, req.Email, string(hashed), string(rbac.Normalize(req.Role)), capacity, req.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) List(ctx context.Context, filter *ListUsersFilter) ([]*User, error) {
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// Update modifies mutable user fields, normalizing the role and re-hashing
// the password when they change.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*User, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		if !rbac.Valid(*req.Role) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRole, *req.Role)
		}
		normalized := string(rbac.Normalize(*req.Role))
		req.Role = &normalized
	}

	if req.Email != nil && *req.Email != existing.Email {
		if _, err := s.repo.GetByEmail(ctx, *req.Email); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, *req.Email)
		} else if !errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("failed to validate email: %w", err)
		}
	}

	var passwordHash *string
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		h := string(hashed)
		passwordHash = &h
	}

	return s.repo.Update(ctx, id, req, passwordHash)
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
