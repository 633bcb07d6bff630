package authenticator

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/bytedance/sonic"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/temsafy/temsafy/internal/config"
	"github.com/temsafy/temsafy/internal/rbac"
)

// UserClaims is the per-request identity assertion. It is constructed once at
// the middleware boundary and passed explicitly into handlers.
type UserClaims struct {
	UserID       string    `json:"sub"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         rbac.Role `json:"role"`
	DepartmentID *string   `json:"departmentId,omitempty"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	*oidc.Provider
	oauth2.Config

	jwtSecret    []byte
	tokenTTL     time.Duration
	stateSecret  string
	issuer       string
	jwksProvider *jwks.CachingProvider
	audience     string
	auth0Enabled bool
}

func New(conf *config.Config) (*Authenticator, error) {
	if conf.JWT_SECRET == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	a := &Authenticator{
		jwtSecret: []byte(conf.JWT_SECRET),
		tokenTTL:  time.Duration(conf.TOKEN_TTL_HOURS) * time.Hour,
		audience:  "temsafy-api",
	}

	if conf.AUTH0_DOMAIN == "" {
		return a, nil
	}

	issuer := "https://" + conf.AUTH0_DOMAIN + "/"

	provider, err := oidc.NewProvider(context.Background(), issuer)
	if err != nil {
		return nil, err
	}

	issuerURL, err := url.Parse(issuer)
	if err != nil {
		return nil, err
	}

	a.Provider = provider
	a.Config = oauth2.Config{
		ClientID:     conf.AUTH0_CLIENT_ID,
		ClientSecret: conf.AUTH0_CLIENT_SECRET,
		RedirectURL:  conf.AUTH0_CALLBACK_URL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	a.stateSecret = conf.STATE_SECRET
	a.issuer = issuer
	a.jwksProvider = jwks.NewCachingProvider(issuerURL, 5*time.Minute)
	a.auth0Enabled = true

	return a, nil
}

func (a *Authenticator) Auth0Enabled() bool {
	return a.auth0Enabled
}

func (a *Authenticator) Audience() string {
	return a.audience
}

// GenerateToken issues an HMAC-signed session token carrying the user's
// identity, role and department.
func (a *Authenticator) GenerateToken(userID, email, name string, role rbac.Role, departmentID *string) (string, error) {
	now := time.Now()
	claims := UserClaims{
		UserID:       userID,
		Name:         name,
		Email:        email,
		Role:         role,
		DepartmentID: departmentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{a.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtSecret)
}

// VerifyAccessToken validates a session token and returns its claims with the
// role normalized onto the canonical set.
func (a *Authenticator) VerifyAccessToken(_ context.Context, token string) (*UserClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &UserClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*UserClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	claims.Role = rbac.Normalize(string(claims.Role))

	return claims, nil
}

// VerifyIDToken verifies that an *oauth2.Token is a valid *oidc.IDToken.
func (a *Authenticator) VerifyIDToken(ctx context.Context, token *oauth2.Token) (*oidc.IDToken, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("no id_token field in oauth2 token")
	}

	oidcConfig := &oidc.Config{
		ClientID: a.ClientID,
	}

	return a.Verifier(oidcConfig).Verify(ctx, rawIDToken)
}

// VerifyAuth0AccessToken validates an Auth0-issued RS256 access token.
func (a *Authenticator) VerifyAuth0AccessToken(ctx context.Context, token string) error {
	jwtValidator, err := validator.New(a.jwksProvider.KeyFunc, validator.RS256, a.issuer, []string{a.Audience()})
	if err != nil {
		return err
	}

	_, err = jwtValidator.ValidateToken(ctx, token)

	return err
}

type OAuthState struct {
	CSRF      string `json:"csrf"`
	Redirect  string `json:"redirect"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

func (a *Authenticator) GetSignedState(state OAuthState) (string, error) {
	payload, err := sonic.Marshal(state)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, []byte(a.stateSecret))
	mac.Write(payload)
	sig := mac.Sum(nil)

	combined := append(payload, sig...)
	return base64.StdEncoding.EncodeToString(combined), nil
}

func (a *Authenticator) VerifySignedState(encodedState string) (*OAuthState, error) {
	raw, err := base64.StdEncoding.DecodeString(encodedState)
	if err != nil {
		return nil, errors.New("invalid base64")
	}

	if len(raw) < sha256.Size {
		return nil, errors.New("state too short")
	}

	payload := raw[:len(raw)-sha256.Size]
	sig := raw[len(raw)-sha256.Size:]

	mac := hmac.New(sha256.New, []byte(a.stateSecret))
	mac.Write(payload)
	expectedSig := mac.Sum(nil)
	if !hmac.Equal(sig, expectedSig) {
		return nil, errors.New("invalid state signature")
	}

	var state OAuthState
	if err := sonic.Unmarshal(payload, &state); err != nil {
		return nil, errors.New("invalid state payload")
	}

	if time.Now().Unix() > state.ExpiresAt {
		return nil, errors.New("state expired")
	}

	return &state, nil
}
