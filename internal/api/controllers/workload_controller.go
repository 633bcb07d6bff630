package controllers

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/temsafy/temsafy/internal/perrors"
	"github.com/temsafy/temsafy/internal/rbac"
	"github.com/temsafy/temsafy/internal/services"
	"github.com/temsafy/temsafy/internal/services/workload"
)

func RegisterWorkloadRoutes(r *router.Router, svc *services.Services) {
	// Per-user workload snapshots, with an optional team summary
	r.GET("/api/users/workload", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireAuth(ctx, stdCtx) == nil {
			return
		}

		q := &workload.WorkloadQuery{
			IncludeProjectParticipants: boolQuery(ctx, "includeProjectParticipants"),
		}

		userID, err := optionalUUIDQuery(ctx, "userId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid userId", perrors.NewErrInvalidRequest("Invalid userId", err))
			return
		}
		q.UserID = userID

		deptID, err := optionalUUIDQuery(ctx, "departmentId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid departmentId", perrors.NewErrInvalidRequest("Invalid departmentId", err))
			return
		}
		q.DepartmentID = deptID

		snapshots, summary, err := svc.Workload.Snapshots(stdCtx, q)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to compute workload", perrors.NewErrInternalServerError("Failed to compute workload", err))
			return
		}

		payload := map[string]any{"users": snapshots}
		if summary != nil {
			payload["teamSummary"] = summary
		}

		writeOK(ctx, stdCtx, "Workload retrieved successfully", payload)
	})

	// Workload alerts
	r.GET("/api/workload/alerts", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.CanViewAnalytics) == nil {
			return
		}

		deptID, err := optionalUUIDQuery(ctx, "departmentId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid departmentId", perrors.NewErrInvalidRequest("Invalid departmentId", err))
			return
		}

		severity := optionalStringQuery(ctx, "severity")

		alerts, summary, err := svc.Workload.Alerts(stdCtx, deptID, severity)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to compute alerts", perrors.NewErrInternalServerError("Failed to compute alerts", err))
			return
		}

		writeOK(ctx, stdCtx, "Alerts retrieved successfully", map[string]any{
			"alerts":  alerts,
			"summary": summary,
		})
	})

	// Rebalance workload. Restricted to MANAGER exactly; ADMIN is
	// deliberately excluded.
	r.POST("/api/workload/rebalance", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.IsManager) == nil {
			return
		}

		result, err := svc.Workload.Rebalance(stdCtx)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to rebalance workload", perrors.NewErrInternalServerError("Failed to rebalance workload", err))
			return
		}

		message := "No rebalancing needed"
		if result.Rebalanced {
			message = "Workload rebalanced successfully"
		}

		writeOK(ctx, stdCtx, message, result)
	})

	// Aggregate workload stats
	r.GET("/api/workload/stats", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.IsManager) == nil {
			return
		}

		stats, err := svc.Workload.Stats(stdCtx)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to compute stats", perrors.NewErrInternalServerError("Failed to compute stats", err))
			return
		}

		writeOK(ctx, stdCtx, "Stats retrieved successfully", stats)
	})
}
