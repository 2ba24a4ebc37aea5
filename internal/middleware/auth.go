// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package middleware contains the token validation and role gating
// applied in front of protected handlers.
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/coursecraft/coursecraft/internal/config"
	"github.com/coursecraft/coursecraft/internal/ctxkeys"
	"github.com/coursecraft/coursecraft/internal/models"
	"github.com/coursecraft/coursecraft/internal/services/auth"
)

// UserLoader is an interface for loading full user data.
type UserLoader interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Auth validates session tokens and gates handlers by account role.
type Auth struct {
	loader UserLoader
	cfg    *config.AuthConfig
}

// NewAuth creates the auth middleware.
func NewAuth(loader UserLoader, cfg *config.AuthConfig) *Auth {
	return &Auth{loader: loader, cfg: cfg}
}

// Authenticate extracts the session token (cookie, then body field, then
// Authorization bearer header, first present wins), verifies it, and
// attaches the claims to the request context. Missing or invalid tokens
// terminate the request with 401.
func (a *Auth) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := a.extractToken(c)
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "token missing")
		}

		claims, err := auth.ParseToken(token, []byte(a.cfg.JWTSecret))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "token is invalid")
		}

		ctx := context.WithValue(c.Request().Context(), ctxkeys.Claims{}, claims)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// RequireRole gates a route to one account type. It re-fetches the
// account by the id in the claims instead of trusting the role claim,
// so a role change takes effect on the next request.
func (a *Auth) RequireRole(role models.AccountType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFromContext(c.Request().Context())
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing")
			}

			user, err := a.loader.GetUserByID(c.Request().Context(), claims.UserID)
			if err != nil {
				slog.Error("role_check_failed", "user_id", claims.UserID, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "user role could not be verified")
			}
			if user.AccountType != role {
				return echo.NewHTTPError(http.StatusForbidden, "access denied")
			}
			return next(c)
		}
	}
}

// ClaimsFromContext returns the verified claims from the context, or nil.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	if claims, ok := ctx.Value(ctxkeys.Claims{}).(*auth.Claims); ok {
		return claims
	}
	return nil
}

func (a *Auth) extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(a.cfg.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if token := tokenFromBody(c); token != "" {
		return token
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// tokenFromBody peeks at a JSON body for a "token" field and restores the
// body so the handler can still bind it.
func tokenFromBody(c echo.Context) string {
	req := c.Request()
	if req.Body == nil || !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return ""
	}

	body, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Token
}
