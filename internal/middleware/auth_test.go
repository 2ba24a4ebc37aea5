// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecraft/coursecraft/internal/config"
	"github.com/coursecraft/coursecraft/internal/middleware"
	"github.com/coursecraft/coursecraft/internal/models"
	"github.com/coursecraft/coursecraft/internal/repository"
	"github.com/coursecraft/coursecraft/internal/services/auth"
	"github.com/coursecraft/coursecraft/internal/testutil"
)

func newTestAuth(t *testing.T) (*middleware.Auth, *repository.Repository, *config.AuthConfig) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	cfg := &config.AuthConfig{
		JWTSecret:   "test-secret",
		TokenExpiry: time.Hour,
		CookieName:  "token",
	}
	return middleware.NewAuth(repo, cfg), repo, cfg
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := auth.GenerateToken(user, []byte("test-secret"), time.Hour)
	require.NoError(t, err)
	return token
}

// claimsEcho is a terminal handler asserting the claims landed in the
// request context.
func claimsEcho(t *testing.T, wantUserID int64) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.ClaimsFromContext(c.Request().Context())
		require.NotNil(t, claims)
		assert.Equal(t, wantUserID, claims.UserID)
		return c.NoContent(http.StatusOK)
	}
}

func TestAuthenticate_CookieToken(t *testing.T) {
	mw, repo, _ := newTestAuth(t)
	user := testutil.NewTestUser(t, repo, "ada@example.com", models.AccountTypeStudent)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/", nil)
	c.Request().AddCookie(&http.Cookie{Name: "token", Value: tokenFor(t, user)})

	err := mw.Authenticate(claimsEcho(t, user.ID))(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_BodyToken(t *testing.T) {
	mw, repo, _ := newTestAuth(t)
	user := testutil.NewTestUser(t, repo, "ada@example.com", models.AccountTypeStudent)

	body := `{"token":"` + tokenFor(t, user) + `","other":"field"}`
	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/", strings.NewReader(body))

	handler := func(c echo.Context) error {
		// The body survives the token peek and can still be read
		rest, err := io.ReadAll(c.Request().Body)
		require.NoError(t, err)
		assert.Contains(t, string(rest), "other")
		return c.NoContent(http.StatusOK)
	}

	err := mw.Authenticate(handler)(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_BearerToken(t *testing.T) {
	mw, repo, _ := newTestAuth(t)
	user := testutil.NewTestUser(t, repo, "ada@example.com", models.AccountTypeStudent)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/", nil)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, user))

	err := mw.Authenticate(claimsEcho(t, user.ID))(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_MissingToken(t *testing.T) {
	mw, _, _ := newTestAuth(t)

	e := echo.New()
	c, _ := testutil.NewEchoContext(e, http.MethodGet, "/", nil)

	err := mw.Authenticate(claimsEcho(t, 0))(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	mw, _, _ := newTestAuth(t)

	e := echo.New()
	c, _ := testutil.NewEchoContext(e, http.MethodGet, "/", nil)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer garbage")

	err := mw.Authenticate(claimsEcho(t, 0))(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	mw, repo, _ := newTestAuth(t)
	user := testutil.NewTestUser(t, repo, "ada@example.com", models.AccountTypeStudent)

	expired, err := auth.GenerateToken(user, []byte("test-secret"), -time.Minute)
	require.NoError(t, err)

	e := echo.New()
	c, _ := testutil.NewEchoContext(e, http.MethodGet, "/", nil)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+expired)

	err = mw.Authenticate(claimsEcho(t, 0))(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireRole_Match(t *testing.T) {
	mw, repo, _ := newTestAuth(t)
	user := testutil.NewTestUser(t, repo, "teach@example.com", models.AccountTypeInstructor)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/", nil)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, user))

	handler := mw.Authenticate(mw.RequireRole(models.AccountTypeInstructor)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}))

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_Mismatch(t *testing.T) {
	mw, repo, _ := newTestAuth(t)
	user := testutil.NewTestUser(t, repo, "kid@example.com", models.AccountTypeStudent)

	e := echo.New()
	c, _ := testutil.NewEchoContext(e, http.MethodGet, "/", nil)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, user))

	handler := mw.Authenticate(mw.RequireRole(models.AccountTypeAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}))

	err := handler(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestRequireRole_ChecksCurrentState(t *testing.T) {
	mw, repo, _ := newTestAuth(t)
	user := testutil.NewTestUser(t, repo, "kid@example.com", models.AccountTypeStudent)

	// Mint the token first, then delete the account. The stale token must
	// not pass a role gate.
	token := tokenFor(t, user)
	require.NoError(t, repo.DeleteUserCascade(context.Background(), user.ID))

	e := echo.New()
	c, _ := testutil.NewEchoContext(e, http.MethodGet, "/", nil)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+token)

	handler := mw.Authenticate(mw.RequireRole(models.AccountTypeStudent)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}))

	err := handler(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
}

func TestRequireRole_NoClaims(t *testing.T) {
	mw, _, _ := newTestAuth(t)

	e := echo.New()
	c, _ := testutil.NewEchoContext(e, http.MethodGet, "/", nil)

	// Role gate without Authenticate in front
	err := mw.RequireRole(models.AccountTypeStudent)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
