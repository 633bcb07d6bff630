package controllers

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/temsafy/temsafy/internal/perrors"
	"github.com/temsafy/temsafy/internal/services"
)

func RegisterDashboardRoutes(r *router.Router, svc *services.Services) {
	// Unified realtime snapshot polled by dashboard clients. The body is
	// served with an ETag so pollers sending If-None-Match get a 304 when
	// nothing changed.
	r.GET("/api/dashboard/real-time", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		if requireAuth(ctx, stdCtx) == nil {
			return
		}

		body, hash, err := svc.Dashboard.Realtime(stdCtx)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to build dashboard snapshot", perrors.NewErrInternalServerError("Failed to build dashboard snapshot", err))
			return
		}

		etag := `"` + hash + `"`
		if string(ctx.Request.Header.Peek("If-None-Match")) == etag {
			ctx.Response.Header.Set("ETag", etag)
			ctx.SetStatusCode(fasthttp.StatusNotModified)
			return
		}

		ctx.Response.Header.Set("ETag", etag)
		ctx.Response.Header.SetContentType("application/json")
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBody(body)
	})
}
