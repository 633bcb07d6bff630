package api

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/temsafy/temsafy/internal/api/authenticator"
	"github.com/temsafy/temsafy/internal/api/controllers"
	"github.com/temsafy/temsafy/internal/config"
)

var tracePropagator = propagation.TraceContext{}

// startRequestSpan opens the server span for one request, continuing any W3C
// trace context propagated by the caller. The returned context is stored on
// the request so handlers and services report under the same trace.
func startRequestSpan(ctx *fasthttp.RequestCtx) (context.Context, trace.Span) {
	h := http.Header{}
	ctx.Request.Header.VisitAll(func(k, v []byte) {
		h[string(k)] = []string{string(v)}
	})
	traceCtx := tracePropagator.Extract(context.Background(), propagation.HeaderCarrier(h))

	return otel.Tracer("api").Start(
		traceCtx,
		string(ctx.Method())+" "+string(ctx.Path()),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			semconv.HTTPMethod(string(ctx.Method())),
			semconv.HTTPTarget(string(ctx.RequestURI())),
		),
	)
}

func (s *Server) initRoutes() fasthttp.RequestHandler {
	r := router.New()

	r.GET("/api/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		_, _ = ctx.Write([]byte("OK"))
	})

	conf := config.ReadConfig()
	auth, err := authenticator.New(conf)
	if err != nil {
		log.Fatal(err)
	}

	controllers.RegisterAuthRoutes(r, s.services, auth)
	controllers.RegisterUserRoutes(r, s.services)
	controllers.RegisterDepartmentRoutes(r, s.services)
	controllers.RegisterProjectRoutes(r, s.services)
	controllers.RegisterTaskRoutes(r, s.services)
	controllers.RegisterFeedbackRoutes(r, s.services)
	controllers.RegisterNotificationRoutes(r, s.services)
	controllers.RegisterWorkloadRoutes(r, s.services)
	controllers.RegisterAnalyticsRoutes(r, s.services)
	controllers.RegisterDashboardRoutes(r, s.services)

	return s.withMiddlewares(r.Handler, auth)
}

func (s *Server) withMiddlewares(next fasthttp.RequestHandler, auth *authenticator.Authenticator) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		applyCORS(ctx)
		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		start := time.Now()
		uri := ctx.URI()
		requestURI := string(uri.FullURI())
		slog.Info("Started processing", slog.String("method", string(ctx.Method())), slog.String("request_uri", requestURI))

		traceCtx, span := startRequestSpan(ctx)
		ctx.SetUserValue("traceCtx", traceCtx)

		// Auth check
		if !isPublicRoute(ctx) {
			accessToken := strings.TrimPrefix(string(ctx.Request.Header.Peek("Authorization")), "Bearer ")
			if accessToken == "" {
				accessToken = string(ctx.Request.Header.Cookie("access_token"))
			}

			if accessToken == "" {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				ctx.SetBodyString(`{"error":"Unauthorized"}`)
				return
			}

			claims, err := auth.VerifyAccessToken(ctx, accessToken)
			if err != nil {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				ctx.SetBodyString(`{"error":"Unauthorized"}`)
				return
			}

			// Store user claims in context for downstream handlers
			ctx.SetUserValue("userClaims", claims)
		}

		next(ctx)

		span.SetAttributes(semconv.HTTPStatusCode(ctx.Response.StatusCode()))
		span.End()

		slog.Info("Finished processing", slog.String("method", string(ctx.Method())), slog.String("request_uri", requestURI), slog.Duration("duration", time.Since(start)))
	}
}

func applyCORS(ctx *fasthttp.RequestCtx) {
	headers := &ctx.Response.Header
	headers.Set("Access-Control-Allow-Origin", string(ctx.Request.Header.Peek("Origin")))
	headers.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS,PATCH")
	headers.Set("Access-Control-Allow-Headers", os.Getenv("ALLOWED_HEADERS"))
	headers.Set("Access-Control-Allow-Credentials", "true")
}

func isPublicRoute(ctx *fasthttp.RequestCtx) bool {
	path := string(ctx.Path())

	publicAuthRoutes := []string{
		"/api/auth/login",
		"/api/auth/enabled",
		"/api/auth/auth0/login",
		"/api/auth/auth0/callback",
	}

	switch {
	case path == "/api/health":
		return true
	default:
		for _, route := range publicAuthRoutes {
			if path == route {
				return true
			}
		}
		return false
	}
}
