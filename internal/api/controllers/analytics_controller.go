package controllers

import (
	"strconv"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/temsafy/temsafy/internal/perrors"
	"github.com/temsafy/temsafy/internal/rbac"
	"github.com/temsafy/temsafy/internal/services"
)

func RegisterAnalyticsRoutes(r *router.Router, svc *services.Services) {
	// Dashboard aggregates
	r.GET("/api/analytics", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireRole(ctx, stdCtx, rbac.CanViewAnalytics) == nil {
			return
		}

		days := 0
		if raw := optionalStringQuery(ctx, "days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				writeError(ctx, stdCtx, "Invalid days parameter", perrors.NewErrInvalidRequest("Invalid days parameter", err))
				return
			}
			days = parsed
		}

		overview, err := svc.Analytics.Overview(stdCtx, days)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to compute analytics", perrors.NewErrInternalServerError("Failed to compute analytics", err))
			return
		}

		writeOK(ctx, stdCtx, "Analytics retrieved successfully", overview)
	})
}
