package authenticator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temsafy/temsafy/internal/config"
	"github.com/temsafy/temsafy/internal/rbac"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	a, err := New(&config.Config{
		JWT_SECRET:      "test-secret",
		TOKEN_TTL_HOURS: 1,
	})
	require.NoError(t, err)
	return a
}

func TestNewRequiresJWTSecret(t *testing.T) {
	_, err := New(&config.Config{})
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	a := newTestAuthenticator(t)

	dept := "f4b8c6de-1c2f-4a9e-9f6a-0f6f2e3d4c5b"
	token, err := a.GenerateToken("user-1", "maya@temsafy.local", "Maya Kim", rbac.RoleManager, &dept)
	require.NoError(t, err)

	claims, err := a.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "maya@temsafy.local", claims.Email)
	assert.Equal(t, "Maya Kim", claims.Name)
	assert.Equal(t, rbac.RoleManager, claims.Role)
	require.NotNil(t, claims.DepartmentID)
	assert.Equal(t, dept, *claims.DepartmentID)
}

func TestVerifyAccessTokenNormalizesLegacyRole(t *testing.T) {
	a := newTestAuthenticator(t)

	token, err := a.GenerateToken("user-2", "lee@temsafy.local", "Lee", rbac.Role("DEPARTMENT_HEAD"), nil)
	require.NoError(t, err)

	claims, err := a.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleDepartment, claims.Role)
}

func TestVerifyAccessTokenRejectsWrongSecret(t *testing.T) {
	a := newTestAuthenticator(t)

	other, err := New(&config.Config{JWT_SECRET: "other-secret", TOKEN_TTL_HOURS: 1})
	require.NoError(t, err)

	token, err := other.GenerateToken("user-3", "x@temsafy.local", "X", rbac.RoleField, nil)
	require.NoError(t, err)

	_, err = a.VerifyAccessToken(context.Background(), token)
	assert.Error(t, err)
}

func TestVerifyAccessTokenRejectsGarbage(t *testing.T) {
	a := newTestAuthenticator(t)

	_, err := a.VerifyAccessToken(context.Background(), "not-a-token")
	assert.Error(t, err)
}

func TestSignedStateRoundTrip(t *testing.T) {
	a := newTestAuthenticator(t)
	a.stateSecret = "state-secret"

	now := time.Now()
	signed, err := a.GetSignedState(OAuthState{
		CSRF:      "csrf-token",
		Redirect:  "/dashboard",
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(10 * time.Minute).Unix(),
	})
	require.NoError(t, err)

	state, err := a.VerifySignedState(signed)
	require.NoError(t, err)
	assert.Equal(t, "csrf-token", state.CSRF)
	assert.Equal(t, "/dashboard", state.Redirect)
}

func TestVerifySignedStateRejectsTampering(t *testing.T) {
	a := newTestAuthenticator(t)
	a.stateSecret = "state-secret"

	signed, err := a.GetSignedState(OAuthState{
		CSRF:      "csrf-token",
		ExpiresAt: time.Now().Add(10 * time.Minute).Unix(),
	})
	require.NoError(t, err)

	tampered := "A" + signed[1:]
	_, err = a.VerifySignedState(tampered)
	assert.Error(t, err)
}

func TestVerifySignedStateRejectsExpired(t *testing.T) {
	a := newTestAuthenticator(t)
	a.stateSecret = "state-secret"

	signed, err := a.GetSignedState(OAuthState{
		CSRF:      "csrf-token",
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	})
	require.NoError(t, err)

	_, err = a.VerifySignedState(signed)
	assert.Error(t, err)
}

func TestAuth0DisabledWithoutDomain(t *testing.T) {
	a := newTestAuthenticator(t)
	assert.False(t, a.Auth0Enabled())
}
