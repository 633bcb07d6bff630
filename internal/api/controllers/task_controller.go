package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/temsafy/temsafy/internal/perrors"
	"github.com/temsafy/temsafy/internal/rbac"
	"github.com/temsafy/temsafy/internal/services"
	"github.com/temsafy/temsafy/internal/services/task"
)

func RegisterTaskRoutes(r *router.Router, svc *services.Services) {
	// Create task
	r.POST("/api/tasks", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		ac := requireRole(ctx, stdCtx, rbac.CanManageTasks)
		if ac == nil {
			return
		}

		var body task.CreateTaskRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Title == "" {
			writeError(ctx, stdCtx, "Title is required", perrors.NewErrInvalidRequest("Title is required", errors.New("title is required")))
			return
		}

		created, err := svc.Task.Create(stdCtx, &body, ac.UserID)
		if err != nil {
			switch {
			case errors.Is(err, task.ErrInvalidStatus), errors.Is(err, task.ErrInvalidPriority):
				writeError(ctx, stdCtx, "Invalid status or priority", perrors.NewErrInvalidRequest("Invalid status or priority", err))
			default:
				writeError(ctx, stdCtx, "Failed to create task", perrors.NewErrInternalServerError("Failed to create task", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Task created successfully", created)
	})

	// List tasks
	r.GET("/api/tasks", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireAuth(ctx, stdCtx) == nil {
			return
		}

		filter := &task.ListTasksFilter{}

		if raw := optionalStringQuery(ctx, "status"); raw != "" {
			status, ok := task.NormalizeStatus(raw)
			if !ok {
				writeError(ctx, stdCtx, "Invalid status", perrors.NewErrInvalidRequest("Invalid status", errors.New("unknown status")))
				return
			}
			filter.Status = &status
		}

		if raw := optionalStringQuery(ctx, "priority"); raw != "" {
			priority, ok := task.NormalizePriority(raw)
			if !ok {
				writeError(ctx, stdCtx, "Invalid priority", perrors.NewErrInvalidRequest("Invalid priority", errors.New("unknown priority")))
				return
			}
			filter.Priority = &priority
		}

		assigneeID, err := optionalUUIDQuery(ctx, "assigneeId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid assigneeId", perrors.NewErrInvalidRequest("Invalid assigneeId", err))
			return
		}
		filter.AssigneeID = assigneeID

		projectID, err := optionalUUIDQuery(ctx, "projectId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid projectId", perrors.NewErrInvalidRequest("Invalid projectId", err))
			return
		}
		filter.ProjectID = projectID

		deptID, err := optionalUUIDQuery(ctx, "departmentId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid departmentId", perrors.NewErrInvalidRequest("Invalid departmentId", err))
			return
		}
		filter.DepartmentID = deptID

		tasks, err := svc.Task.List(stdCtx, filter)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list tasks", perrors.NewErrInternalServerError("Failed to list tasks", err))
			return
		}

		writeOK(ctx, stdCtx, "Tasks retrieved successfully", tasks)
	})

	// Get task by id
	r.GET("/api/tasks/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireAuth(ctx, stdCtx) == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		t, err := svc.Task.GetByID(stdCtx, id)
		if err != nil {
			switch {
			case errors.Is(err, task.ErrTaskNotFound):
				writeError(ctx, stdCtx, "Task not found", perrors.NewErrNotFound("Task not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to get task", perrors.NewErrInternalServerError("Failed to get task", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Task retrieved successfully", t)
	})

	// Update task
	r.PUT("/api/tasks/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.CanManageTasks) == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body task.UpdateTaskRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		updated, err := svc.Task.Update(stdCtx, id, &body)
		if err != nil {
			switch {
			case errors.Is(err, task.ErrTaskNotFound):
				writeError(ctx, stdCtx, "Task not found", perrors.NewErrNotFound("Task not found", err))
			case errors.Is(err, task.ErrInvalidStatus), errors.Is(err, task.ErrInvalidPriority):
				writeError(ctx, stdCtx, "Invalid status or priority", perrors.NewErrInvalidRequest("Invalid status or priority", err))
			default:
				writeError(ctx, stdCtx, "Failed to update task", perrors.NewErrInternalServerError("Failed to update task", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Task updated successfully", updated)
	})

	// Assign task
	r.POST("/api/tasks/{id}/assign", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.CanManageTasks) == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body struct {
			AssigneeID uuid.UUID `json:"assigneeId"`
		}
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.AssigneeID == uuid.Nil {
			writeError(ctx, stdCtx, "assignee_id is required", perrors.NewErrInvalidRequest("assignee_id is required", errors.New("assignee_id is required")))
			return
		}

		assigned, err := svc.Task.Assign(stdCtx, id, body.AssigneeID)
		if err != nil {
			switch {
			case errors.Is(err, task.ErrTaskNotFound):
				writeError(ctx, stdCtx, "Task not found", perrors.NewErrNotFound("Task not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to assign task", perrors.NewErrInternalServerError("Failed to assign task", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Task assigned successfully", assigned)
	})

	// Delete task
	r.DELETE("/api/tasks/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.CanManageTasks) == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		if err := svc.Task.Delete(stdCtx, id); err != nil {
			switch {
			case errors.Is(err, task.ErrTaskNotFound):
				writeError(ctx, stdCtx, "Task not found", perrors.NewErrNotFound("Task not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to delete task", perrors.NewErrInternalServerError("Failed to delete task", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Task deleted successfully", nil)
	})

	// Create phase
	r.POST("/api/tasks/{id}/phases", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.CanManageTasks) == nil {
			return
		}

		taskID, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body task.CreatePhaseRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Name == "" {
			writeError(ctx, stdCtx, "Name is required", perrors.NewErrInvalidRequest("Name is required", errors.New("name is required")))
			return
		}

		phase, err := svc.Task.CreatePhase(stdCtx, taskID, &body)
		if err != nil {
			switch {
			case errors.Is(err, task.ErrTaskNotFound):
				writeError(ctx, stdCtx, "Task not found", perrors.NewErrNotFound("Task not found", err))
			case errors.Is(err, task.ErrInvalidStatus):
				writeError(ctx, stdCtx, "Invalid status", perrors.NewErrInvalidRequest("Invalid status", err))
			default:
				writeError(ctx, stdCtx, "Failed to create phase", perrors.NewErrInternalServerError("Failed to create phase", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Phase created successfully", phase)
	})

	// List phases
	r.GET("/api/tasks/{id}/phases", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireAuth(ctx, stdCtx) == nil {
			return
		}

		taskID, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		phases, err := svc.Task.ListPhases(stdCtx, taskID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list phases", perrors.NewErrInternalServerError("Failed to list phases", err))
			return
		}

		completion, err := svc.Task.PhaseCompletion(stdCtx, taskID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to compute phase completion", perrors.NewErrInternalServerError("Failed to compute phase completion", err))
			return
		}

		writeOK(ctx, stdCtx, "Phases retrieved successfully", map[string]any{
			"phases":     phases,
			"completion": completion,
		})
	})

	// Update phase
	r.PUT("/api/phases/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.CanManageTasks) == nil {
			return
		}

		phaseID, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body task.UpdatePhaseRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		updated, err := svc.Task.UpdatePhase(stdCtx, phaseID, &body)
		if err != nil {
			switch {
			case errors.Is(err, task.ErrPhaseNotFound):
				writeError(ctx, stdCtx, "Phase not found", perrors.NewErrNotFound("Phase not found", err))
			case errors.Is(err, task.ErrInvalidStatus):
				writeError(ctx, stdCtx, "Invalid status", perrors.NewErrInvalidRequest("Invalid status", err))
			default:
				writeError(ctx, stdCtx, "Failed to update phase", perrors.NewErrInternalServerError("Failed to update phase", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Phase updated successfully", updated)
	})

	// Delete phase
	r.DELETE("/api/phases/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.CanManageTasks) == nil {
			return
		}

		phaseID, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		if err := svc.Task.DeletePhase(stdCtx, phaseID); err != nil {
			switch {
			case errors.Is(err, task.ErrPhaseNotFound):
				writeError(ctx, stdCtx, "Phase not found", perrors.NewErrNotFound("Phase not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to delete phase", perrors.NewErrInternalServerError("Failed to delete phase", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Phase deleted successfully", nil)
	})
}
