package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/temsafy/temsafy/internal/perrors"
	"github.com/temsafy/temsafy/internal/rbac"
	"github.com/temsafy/temsafy/internal/services"
	"github.com/temsafy/temsafy/internal/services/feedback"
)

func RegisterFeedbackRoutes(r *router.Router, svc *services.Services) {
	// Create feedback
	r.POST("/api/feedback", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		ac := requireAuth(ctx, stdCtx)
		if ac == nil {
			return
		}

		var body feedback.CreateFeedbackRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		created, err := svc.Feedback.Create(stdCtx, &body, ac.UserID)
		if err != nil {
			switch {
			case errors.Is(err, feedback.ErrInvalidRating):
				writeError(ctx, stdCtx, "Rating must be between 1 and 5", perrors.NewErrInvalidRequest("Rating must be between 1 and 5", err))
			default:
				writeError(ctx, stdCtx, "Failed to create feedback", perrors.NewErrInternalServerError("Failed to create feedback", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Feedback created successfully", created)
	})

	// List feedback for a task
	r.GET("/api/tasks/{id}/feedback", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireAuth(ctx, stdCtx) == nil {
			return
		}

		taskID, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		items, err := svc.Feedback.ListByTask(stdCtx, taskID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list feedback", perrors.NewErrInternalServerError("Failed to list feedback", err))
			return
		}

		writeOK(ctx, stdCtx, "Feedback retrieved successfully", items)
	})

	// Update feedback
	r.PUT("/api/feedback/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		ac := requireAuth(ctx, stdCtx)
		if ac == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		existing, err := svc.Feedback.GetByID(stdCtx, id)
		if err != nil {
			switch {
			case errors.Is(err, feedback.ErrFeedbackNotFound):
				writeError(ctx, stdCtx, "Feedback not found", perrors.NewErrNotFound("Feedback not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to get feedback", perrors.NewErrInternalServerError("Failed to get feedback", err))
			}
			return
		}

		// Only the author can edit their feedback.
		if existing.AuthorID != ac.UserID {
			writeError(ctx, stdCtx, "Forbidden", perrors.NewErrForbidden("Forbidden", errors.New("not the feedback author")))
			return
		}

		var body feedback.UpdateFeedbackRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		updated, err := svc.Feedback.Update(stdCtx, id, &body)
		if err != nil {
			switch {
			case errors.Is(err, feedback.ErrInvalidRating):
				writeError(ctx, stdCtx, "Rating must be between 1 and 5", perrors.NewErrInvalidRequest("Rating must be between 1 and 5", err))
			default:
				writeError(ctx, stdCtx, "Failed to update feedback", perrors.NewErrInternalServerError("Failed to update feedback", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Feedback updated successfully", updated)
	})

	// Delete feedback
	r.DELETE("/api/feedback/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		ac := requireAuth(ctx, stdCtx)
		if ac == nil {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		existing, err := svc.Feedback.GetByID(stdCtx, id)
		if err != nil {
			switch {
			case errors.Is(err, feedback.ErrFeedbackNotFound):
				writeError(ctx, stdCtx, "Feedback not found", perrors.NewErrNotFound("Feedback not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to get feedback", perrors.NewErrInternalServerError("Failed to get feedback", err))
			}
			return
		}

		if existing.AuthorID != ac.UserID && !rbac.CanManageUsers(ac.Role) {
			writeError(ctx, stdCtx, "Forbidden", perrors.NewErrForbidden("Forbidden", errors.New("not the feedback author")))
			return
		}

		if err := svc.Feedback.Delete(stdCtx, id); err != nil {
			writeError(ctx, stdCtx, "Failed to delete feedback", perrors.NewErrInternalServerError("Failed to delete feedback", err))
			return
		}

		writeOK(ctx, stdCtx, "Feedback deleted successfully", nil)
	})
}
