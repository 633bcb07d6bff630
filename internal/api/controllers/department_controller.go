package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/temsafy/temsafy/internal/perrors"
	"github.com/temsafy/temsafy/internal/rbac"
	"github.com/temsafy/temsafy/internal/services"
	"github.com/temsafy/temsafy/internal/services/department"
)

func RegisterDepartmentRoutes(r *router.Router, svc *services.Services) {
	// Create department
	r.POST("/api/departments", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.IsAdmin) == nil {
			return
		}

		var body department.CreateDepartmentRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Name == "" {
			writeError(ctx, stdCtx, "Name is required", perrors.NewErrInvalidRequest("Name is required", errors.New("name is required")))
			return
		}

		created, err := svc.Department.Create(stdCtx, &body)
		if err != nil {
			switch {
			case errors.Is(err, department.ErrDepartmentAlreadyExists):
				writeError(ctx, stdCtx, "Department with this name already exists", perrors.New(perrors.ErrCodeConflict, "Department with this name already exists", err))
			default:
				writeError(ctx, stdCtx, "Failed to create department", perrors.NewErrInternalServerError("Failed to create department", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Department created successfully", created)
	})

	// List departments
	r.GET("/api/departments", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireAuth(ctx, stdCtx) == nil {
			return
		}

		departments, err := svc.Department.List(stdCtx)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list departments", perrors.NewErrInternalServerError("Failed to list departments", err))
			return
		}

		writeOK(ctx, stdCtx, "Departments retrieved successfully", departments)
	})

	// Get department by id
	r.GET("/api/departments/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireAuth(ctx, stdCtx) == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		dept, err := svc.Department.GetByID(stdCtx, id)
		if err != nil {
			switch {
			case errors.Is(err, department.ErrDepartmentNotFound):
				writeError(ctx, stdCtx, "Department not found", perrors.NewErrNotFound("Department not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to get department", perrors.NewErrInternalServerError("Failed to get department", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Department retrieved successfully", dept)
	})

	// Update department
	r.PUT("/api/departments/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.IsAdmin) == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body department.UpdateDepartmentRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Name != nil && *body.Name == "" {
			writeError(ctx, stdCtx, "Name cannot be empty", perrors.NewErrInvalidRequest("Name cannot be empty", errors.New("name cannot be empty")))
			return
		}

		updated, err := svc.Department.Update(stdCtx, id, &body)
		if err != nil {
			switch {
			case errors.Is(err, department.ErrDepartmentNotFound):
				writeError(ctx, stdCtx, "Department not found", perrors.NewErrNotFound("Department not found", err))
			case errors.Is(err, department.ErrDepartmentAlreadyExists):
				writeError(ctx, stdCtx, "Department with this name already exists", perrors.New(perrors.ErrCodeConflict, "Department with this name already exists", err))
			default:
				writeError(ctx, stdCtx, "Failed to update department", perrors.NewErrInternalServerError("Failed to update department", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Department updated successfully", updated)
	})

	// Delete department
	r.DELETE("/api/departments/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.IsAdmin) == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		if err := svc.Department.Delete(stdCtx, id); err != nil {
			switch {
			case errors.Is(err, department.ErrDepartmentNotFound):
				writeError(ctx, stdCtx, "Department not found", perrors.NewErrNotFound("Department not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to delete department", perrors.NewErrInternalServerError("Failed to delete department", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Department deleted successfully", nil)
	})
}
