package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"golang.org/x/oauth2"

	"github.com/temsafy/temsafy/internal/api/authenticator"
	"github.com/temsafy/temsafy/internal/perrors"
	"github.com/temsafy/temsafy/internal/ratelimit"
	"github.com/temsafy/temsafy/internal/services"
)

// loginLimit throttles credential guessing per client address.
var loginLimit = ratelimit.Limit{Limit: 10, Unit: "minute"}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	DepartmentID *string `json:"departmentId,omitempty"`
}

func RegisterAuthRoutes(r *router.Router, svc *services.Services, auth *authenticator.Authenticator) {
	r.GET("/api/auth/enabled", func(ctx *fasthttp.RequestCtx) {
		writeOK(ctx, requestContext(ctx), "success", map[string]any{
			"auth0_enabled": auth.Auth0Enabled(),
		})
	})

	// Login with email/password
	r.POST("/api/auth/login", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		allowed, err := svc.LoginLimiter.Allow(stdCtx, ctx.RemoteIP().String(), loginLimit)
		if err == nil && !allowed {
			writeError(ctx, stdCtx, "Too many login attempts", perrors.New(perrors.ErrCodeTooManyRequests, "Too many login attempts", errors.New("rate limited")))
			return
		}

		var req LoginRequest
		if err := parseBody(ctx, &req); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if req.Email == "" || req.Password == "" {
			writeError(ctx, stdCtx, "Email and password are required", perrors.NewErrInvalidRequest("Email and password are required", errors.New("missing credentials")))
			return
		}

		u, err := svc.User.Authenticate(stdCtx, req.Email, req.Password)
		if err != nil {
			writeError(ctx, stdCtx, "Invalid credentials", perrors.NewErrUnauthorized("Invalid credentials", err))
			return
		}

		var deptID *string
		if u.DepartmentID != nil {
			s := u.DepartmentID.String()
			deptID = &s
		}

		token, err := auth.GenerateToken(u.ID.String(), u.Email, u.Name, u.Role, deptID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to generate token", perrors.NewErrInternalServerError("Failed to generate token", err))
			return
		}

		var cookie fasthttp.Cookie
		cookie.SetKey("access_token")
		cookie.SetValue(token)
		cookie.SetPath("/")
		cookie.SetHTTPOnly(true)
		cookie.SetSecure(false) // Set to true in production (HTTPS)
		cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
		cookie.SetExpire(time.Now().Add(24 * time.Hour))
		ctx.Response.Header.SetCookie(&cookie)

		writeOK(ctx, stdCtx, "success", LoginResponse{
			Token: token,
			User: UserResponse{
				ID:           u.ID.String(),
				Name:         u.Name,
				Email:        u.Email,
				Role:         string(u.Role),
				DepartmentID: deptID,
			},
		})
	})

	// Get current user info
	r.GET("/api/auth/me", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		ac := requireAuth(ctx, stdCtx)
		if ac == nil {
			return
		}

		u, err := svc.User.GetByID(stdCtx, ac.UserID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to get user", perrors.NewErrInternalServerError("Failed to get user", err))
			return
		}

		var deptID *string
		if u.DepartmentID != nil {
			s := u.DepartmentID.String()
			deptID = &s
		}

		writeOK(ctx, stdCtx, "success", UserResponse{
			ID:           u.ID.String(),
			Name:         u.Name,
			Email:        u.Email,
			Role:         string(u.Role),
			DepartmentID: deptID,
		})
	})

	// Logout endpoint
	r.POST("/api/auth/logout", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var cookie fasthttp.Cookie
		cookie.SetKey("access_token")
		cookie.SetValue("")
		cookie.SetPath("/")
		cookie.SetHTTPOnly(true)
		cookie.SetExpire(time.Now().Add(-1 * time.Hour))
		ctx.Response.Header.SetCookie(&cookie)

		writeOK(ctx, stdCtx, "success", map[string]any{
			"message": "Logged out successfully",
		})
	})

	r.GET("/api/auth/auth0/login", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		if !auth.Auth0Enabled() {
			writeError(ctx, stdCtx, "SSO is not configured", perrors.NewErrInvalidRequest("SSO is not configured", errors.New("auth0 disabled")))
			return
		}

		csrf := make([]byte, 16)
		rand.Read(csrf)

		state := authenticator.OAuthState{
			CSRF:      base64.RawURLEncoding.EncodeToString(csrf),
			Redirect:  "http://localhost:3000",
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(5 * time.Minute).Unix(),
		}

		encodedState, err := auth.GetSignedState(state)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create signed state", perrors.NewErrInternalServerError("Failed to create signed state", err))
			return
		}

		url := auth.AuthCodeURL(encodedState, oauth2.SetAuthURLParam("audience", auth.Audience()))
		ctx.Redirect(url, fasthttp.StatusTemporaryRedirect)
	})

	r.GET("/api/auth/auth0/callback", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		encodedState := ctx.URI().QueryArgs().Peek("state")
		code := ctx.URI().QueryArgs().Peek("code")

		if encodedState == nil || code == nil {
			writeError(ctx, stdCtx, "missing parameters", perrors.NewErrInvalidRequest("missing parameters", errors.New("missing parameters")))
			return
		}

		state, err := auth.VerifySignedState(string(encodedState))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to decode state", perrors.NewErrInvalidRequest("Failed to decode state", err))
			return
		}

		token, err := auth.Exchange(stdCtx, string(code))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to exchange token", perrors.NewErrUnauthorized("Failed to exchange token", err))
			return
		}

		idToken, err := auth.VerifyIDToken(stdCtx, token)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to verify ID token", perrors.NewErrUnauthorized("Failed to verify ID token", err))
			return
		}

		var profile map[string]interface{}
		if err := idToken.Claims(&profile); err != nil {
			writeError(ctx, stdCtx, "Failed to get claims", perrors.NewErrInternalServerError("Failed to get claims", err))
			return
		}

		// SSO identity must already exist locally; roles are not
		// provisioned from the IdP.
		email, _ := profile["email"].(string)
		u, err := svc.User.GetByEmail(stdCtx, email)
		if err != nil {
			writeError(ctx, stdCtx, "No local account for SSO identity", perrors.NewErrForbidden("No local account for SSO identity", fmt.Errorf("unknown sso user %s", email)))
			return
		}

		var deptID *string
		if u.DepartmentID != nil {
			s := u.DepartmentID.String()
			deptID = &s
		}

		sessionToken, err := auth.GenerateToken(u.ID.String(), u.Email, u.Name, u.Role, deptID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to generate token", perrors.NewErrInternalServerError("Failed to generate token", err))
			return
		}

		var cookie fasthttp.Cookie
		cookie.SetKey("access_token")
		cookie.SetValue(sessionToken)
		cookie.SetPath("/")
		cookie.SetHTTPOnly(true)
		cookie.SetSecure(false) // MUST be true in production (HTTPS)
		cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
		cookie.SetExpire(time.Now().Add(1 * time.Hour))
		ctx.Response.Header.SetCookie(&cookie)

		ctx.Redirect(state.Redirect, fasthttp.StatusFound)
	})
}
