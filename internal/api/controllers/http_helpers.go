package controllers

import (
	"context"
	"errors"
	"fmt"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/temsafy/temsafy/internal/api/authenticator"
	"github.com/temsafy/temsafy/internal/api/response"
	"github.com/temsafy/temsafy/internal/perrors"
	"github.com/temsafy/temsafy/internal/rbac"
)

// AuthContext is the caller identity threaded into every handler. It is
// built once per request from the verified token claims.
type AuthContext struct {
	UserID       uuid.UUID
	Role         rbac.Role
	DepartmentID *uuid.UUID
}

// requestContext returns the per-request context carrying the server span
// opened by the middleware. fasthttp does not thread a standard context
// itself, so the middleware parks it in a user value.
func requestContext(ctx *fasthttp.RequestCtx) context.Context {
	if c, ok := ctx.UserValue("traceCtx").(context.Context); ok {
		return c
	}
	return context.Background()
}

// authContext extracts the caller identity set by the auth middleware.
func authContext(ctx *fasthttp.RequestCtx) (*AuthContext, error) {
	claims, ok := ctx.UserValue("userClaims").(*authenticator.UserClaims)
	if !ok || claims == nil {
		return nil, errors.New("no user claims")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}

	ac := &AuthContext{
		UserID: userID,
		Role:   claims.Role,
	}
	if claims.DepartmentID != nil {
		deptID, err := uuid.Parse(*claims.DepartmentID)
		if err == nil {
			ac.DepartmentID = &deptID
		}
	}

	return ac, nil
}

// requireAuth resolves the caller or writes a 401 and returns nil.
func requireAuth(ctx *fasthttp.RequestCtx, stdCtx context.Context) *AuthContext {
	ac, err := authContext(ctx)
	if err != nil {
		writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
		return nil
	}
	return ac
}

// requireRole resolves the caller and checks the role predicate, writing a
// 401 or 403 and returning nil when the check fails.
func requireRole(ctx *fasthttp.RequestCtx, stdCtx context.Context, allowed func(rbac.Role) bool) *AuthContext {
	ac := requireAuth(ctx, stdCtx)
	if ac == nil {
		return nil
	}

	if !allowed(ac.Role) {
		writeError(ctx, stdCtx, "Forbidden", perrors.NewErrForbidden("Forbidden", fmt.Errorf("role %s not permitted", ac.Role)))
		return nil
	}

	return ac
}

func parseBody(ctx *fasthttp.RequestCtx, target any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return errors.New("request body is empty")
	}

	return json.Unmarshal(body, target)
}

func writeError(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, err error) {
	response.NewResponse[any](stdCtx, message, nil).WithError(err).Write(ctx)
}

func writeOK(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, data any) {
	response.NewResponse(stdCtx, message, data).Write(ctx)
}

func pathParam(ctx *fasthttp.RequestCtx, key string) (string, error) {
	val := ctx.UserValue(key)
	if val == nil {
		return "", fmt.Errorf("%s is required", key)
	}

	return fmt.Sprint(val), nil
}

func pathParamUUID(ctx *fasthttp.RequestCtx, key string) (uuid.UUID, error) {
	val, err := pathParam(ctx, key)
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(val)
}

func optionalUUIDQuery(ctx *fasthttp.RequestCtx, key string) (*uuid.UUID, error) {
	raw := ctx.QueryArgs().Peek(key)
	if len(raw) == 0 {
		return nil, nil
	}

	id, err := uuid.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s parameter", key)
	}

	return &id, nil
}

func optionalStringQuery(ctx *fasthttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func boolQuery(ctx *fasthttp.RequestCtx, key string) bool {
	return string(ctx.QueryArgs().Peek(key)) == "true"
}
