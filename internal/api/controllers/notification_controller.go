package controllers

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/temsafy/temsafy/internal/perrors"
	"github.com/temsafy/temsafy/internal/services"
)

func RegisterNotificationRoutes(r *router.Router, svc *services.Services) {
	// List own notifications
	r.GET("/api/notifications", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		ac := requireAuth(ctx, stdCtx)
		if ac == nil {
			return
		}

		unreadOnly := boolQuery(ctx, "unread")

		items, err := svc.Notification.List(stdCtx, ac.UserID, unreadOnly)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list notifications", perrors.NewErrInternalServerError("Failed to list notifications", err))
			return
		}

		writeOK(ctx, stdCtx, "Notifications retrieved successfully", items)
	})

	// Mark one notification read
	r.POST("/api/notifications/{id}/read", func(ctx *fasthttp.RequestCtx) {
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

		if err := svc.Notification.MarkRead(stdCtx, id, ac.UserID); err != nil {
			writeError(ctx, stdCtx, "Failed to mark notification read", perrors.NewErrInternalServerError("Failed to mark notification read", err))
			return
		}

		writeOK(ctx, stdCtx, "Notification marked read", nil)
	})

	// Mark all notifications read
	r.POST("/api/notifications/read-all", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		ac := requireAuth(ctx, stdCtx)
		if ac == nil {
			return
		}

		if err := svc.Notification.MarkAllRead(stdCtx, ac.UserID); err != nil {
			writeError(ctx, stdCtx, "Failed to mark notifications read", perrors.NewErrInternalServerError("Failed to mark notifications read", err))
			return
		}

		writeOK(ctx, stdCtx, "Notifications marked read", nil)
	})
}
