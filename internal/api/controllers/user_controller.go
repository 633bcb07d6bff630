package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/temsafy/temsafy/internal/perrors"
	"github.com/temsafy/temsafy/internal/rbac"
	"github.com/temsafy/temsafy/internal/services"
	"github.com/temsafy/temsafy/internal/services/user"
)

func RegisterUserRoutes(r *router.Router, svc *services.Services) {
	// Create user
	r.POST("/api/users", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.CanManageUsers) == nil {
			return
		}

		var body user.CreateUserRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Name == "" || body.Email == "" || body.Password == "" {
			writeError(ctx, stdCtx, "Name, email and password are required", perrors.NewErrInvalidRequest("Name, email and password are required", errors.New("missing required fields")))
			return
		}

		created, err := svc.User.Create(stdCtx, &body)
		if err != nil {
			switch {
			case errors.Is(err, user.ErrInvalidRole):
				writeError(ctx, stdCtx, "Invalid role", perrors.NewErrInvalidRequest("Invalid role", err))
			case errors.Is(err, user.ErrEmailTaken):
				writeError(ctx, stdCtx, "Email already in use", perrors.New(perrors.ErrCodeConflict, "Email already in use", err))
			default:
				writeError(ctx, stdCtx, "Failed to create user", perrors.NewErrInternalServerError("Failed to create user", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "User created successfully", created)
	})

	// List users
	r.GET("/api/users", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireAuth(ctx, stdCtx) == nil {
			return
		}

		filter := &user.ListUsersFilter{}

		deptID, err := optionalUUIDQuery(ctx, "departmentId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid departmentId", perrors.NewErrInvalidRequest("Invalid departmentId", err))
			return
		}
		filter.DepartmentID = deptID

		if raw := optionalStringQuery(ctx, "role"); raw != "" {
			role := rbac.Normalize(raw)
			filter.Role = &role
		}

		users, err := svc.User.List(stdCtx, filter)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list users", perrors.NewErrInternalServerError("Failed to list users", err))
			return
		}

		writeOK(ctx, stdCtx, "Users retrieved successfully", users)
	})

	// Get user by id
	r.GET("/api/users/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireAuth(ctx, stdCtx) == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		u, err := svc.User.GetByID(stdCtx, id)
		if err != nil {
			switch {
			case errors.Is(err, user.ErrUserNotFound):
				writeError(ctx, stdCtx, "User not found", perrors.NewErrNotFound("User not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to get user", perrors.NewErrInternalServerError("Failed to get user", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "User retrieved successfully", u)
	})

	// Update user
	r.PUT("/api/users/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.CanManageUsers) == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body user.UpdateUserRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		updated, err := svc.User.Update(stdCtx, id, &body)
		if err != nil {
			switch {
			case errors.Is(err, user.ErrUserNotFound):
				writeError(ctx, stdCtx, "User not found", perrors.NewErrNotFound("User not found", err))
			case errors.Is(err, user.ErrInvalidRole):
				writeError(ctx, stdCtx, "Invalid role", perrors.NewErrInvalidRequest("Invalid role", err))
			case errors.Is(err, user.ErrEmailTaken):
				writeError(ctx, stdCtx, "Email already in use", perrors.New(perrors.ErrCodeConflict, "Email already in use", err))
			default:
				writeError(ctx, stdCtx, "Failed to update user", perrors.NewErrInternalServerError("Failed to update user", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "User updated successfully", updated)
	})

	// Delete user
	r.DELETE("/api/users/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.IsAdmin) == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		if err := svc.User.Delete(stdCtx, id); err != nil {
			switch {
			case errors.Is(err, user.ErrUserNotFound):
				writeError(ctx, stdCtx, "User not found", perrors.NewErrNotFound("User not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to delete user", perrors.NewErrInternalServerError("Failed to delete user", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "User deleted successfully", nil)
	})
}
