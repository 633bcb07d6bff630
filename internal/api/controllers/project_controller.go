package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/temsafy/temsafy/internal/perrors"
	"github.com/temsafy/temsafy/internal/rbac"
	"github.com/temsafy/temsafy/internal/services"
	"github.com/temsafy/temsafy/internal/services/project"
)

func RegisterProjectRoutes(r *router.Router, svc *services.Services) {
	// Create project
	r.POST("/api/projects", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.CanManageProjects) == nil {
			return
		}

		var body project.CreateProjectRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Name == "" {
			writeError(ctx, stdCtx, "Name is required", perrors.NewErrInvalidRequest("Name is required", errors.New("name is required")))
			return
		}

		created, err := svc.Project.Create(stdCtx, &body)
		if err != nil {
			switch {
			case errors.Is(err, project.ErrProjectAlreadyExists):
				writeError(ctx, stdCtx, "Project with this name already exists", perrors.New(perrors.ErrCodeConflict, "Project with this name already exists", err))
			default:
				writeError(ctx, stdCtx, "Failed to create project", perrors.NewErrInternalServerError("Failed to create project", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Project created successfully", created)
	})

	// List projects
	r.GET("/api/projects", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireAuth(ctx, stdCtx) == nil {
			return
		}

		deptID, err := optionalUUIDQuery(ctx, "departmentId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid departmentId", perrors.NewErrInvalidRequest("Invalid departmentId", err))
			return
		}

		var projects []*project.Project
		if deptID != nil {
			projects, err = svc.Project.ListByDepartment(stdCtx, *deptID)
		} else {
			projects, err = svc.Project.List(stdCtx)
		}
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list projects", perrors.NewErrInternalServerError("Failed to list projects", err))
			return
		}

		writeOK(ctx, stdCtx, "Projects retrieved successfully", projects)
	})

	// Get project by id
	r.GET("/api/projects/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireAuth(ctx, stdCtx) == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		p, err := svc.Project.GetByID(stdCtx, id)
		if err != nil {
			switch {
			case errors.Is(err, project.ErrProjectNotFound):
				writeError(ctx, stdCtx, "Project not found", perrors.NewErrNotFound("Project not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to get project", perrors.NewErrInternalServerError("Failed to get project", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Project retrieved successfully", p)
	})

	// Project progress
	r.GET("/api/projects/{id}/progress", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireAuth(ctx, stdCtx) == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		progress, err := svc.Project.Progress(stdCtx, id)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to compute progress", perrors.NewErrInternalServerError("Failed to compute progress", err))
			return
		}

		writeOK(ctx, stdCtx, "Progress retrieved successfully", progress)
	})

	// Update project
	r.PUT("/api/projects/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.CanManageProjects) == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body project.UpdateProjectRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Name != nil && *body.Name == "" {
			writeError(ctx, stdCtx, "Name cannot be empty", perrors.NewErrInvalidRequest("Name cannot be empty", errors.New("name cannot be empty")))
			return
		}

		updated, err := svc.Project.Update(stdCtx, id, &body)
		if err != nil {
			switch {
			case errors.Is(err, project.ErrProjectNotFound):
				writeError(ctx, stdCtx, "Project not found", perrors.NewErrNotFound("Project not found", err))
			case errors.Is(err, project.ErrProjectAlreadyExists):
				writeError(ctx, stdCtx, "Project with this name already exists", perrors.New(perrors.ErrCodeConflict, "Project with this name already exists", err))
			default:
				writeError(ctx, stdCtx, "Failed to update project", perrors.NewErrInternalServerError("Failed to update project", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Project updated successfully", updated)
	})

	// Delete project
	r.DELETE("/api/projects/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.CanManageProjects) == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		if err := svc.Project.Delete(stdCtx, id); err != nil {
			switch {
			case errors.Is(err, project.ErrProjectNotFound):
				writeError(ctx, stdCtx, "Project not found", perrors.NewErrNotFound("Project not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to delete project", perrors.NewErrInternalServerError("Failed to delete project", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Project deleted successfully", nil)
	})

	// List participants
	r.GET("/api/projects/{id}/participants", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireAuth(ctx, stdCtx) == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		participants, err := svc.Project.ListParticipants(stdCtx, id)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list participants", perrors.NewErrInternalServerError("Failed to list participants", err))
			return
		}

		writeOK(ctx, stdCtx, "Participants retrieved successfully", participants)
	})

	// Add participant
	r.POST("/api/projects/{id}/participants", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.CanManageProjects) == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body project.AddParticipantRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if err := svc.Project.AddParticipant(stdCtx, id, &body); err != nil {
			switch {
			case errors.Is(err, project.ErrProjectNotFound):
				writeError(ctx, stdCtx, "Project not found", perrors.NewErrNotFound("Project not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to add participant", perrors.NewErrInternalServerError("Failed to add participant", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Participant added successfully", nil)
	})

	// Remove participant
	r.DELETE("/api/projects/{id}/participants/{userId}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.CanManageProjects) == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		userID, err := pathParamUUID(ctx, "userId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid user ID format", perrors.NewErrInvalidRequest("Invalid user ID format", err))
			return
		}

		if err := svc.Project.RemoveParticipant(stdCtx, id, userID); err != nil {
			writeError(ctx, stdCtx, "Failed to remove participant", perrors.NewErrInternalServerError("Failed to remove participant", err))
			return
		}

		writeOK(ctx, stdCtx, "Participant removed successfully", nil)
	})
}
