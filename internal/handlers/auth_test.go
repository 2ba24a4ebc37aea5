// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecraft/coursecraft/internal/config"
	"github.com/coursecraft/coursecraft/internal/ctxkeys"
	"github.com/coursecraft/coursecraft/internal/handlers"
	"github.com/coursecraft/coursecraft/internal/models"
	"github.com/coursecraft/coursecraft/internal/repository"
	"github.com/coursecraft/coursecraft/internal/services/auth"
	"github.com/coursecraft/coursecraft/internal/testutil"
)

var codePattern = regexp.MustCompile(`\d{6}`)

func newAuthHandlers(t *testing.T) (*handlers.AuthHandlers, *repository.Repository, *testutil.FakeMailer) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	mailer := &testutil.FakeMailer{}
	cfg := &config.AuthConfig{
		JWTSecret:    "test-secret",
		TokenExpiry:  time.Hour,
		OTPExpiry:    5 * time.Minute,
		CookieName:   "token",
		CookieMaxAge: 72 * time.Hour,
	}
	svc := auth.NewService(repo, mailer, cfg)
	return handlers.NewAuth(svc, cfg), repo, mailer
}

func decodeBody(t *testing.T, body string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out
}

func withClaims(c echo.Context, userID int64) {
	claims := &auth.Claims{UserID: userID}
	ctx := context.WithValue(c.Request().Context(), ctxkeys.Claims{}, claims)
	c.SetRequest(c.Request().WithContext(ctx))
}

func TestSendOTP(t *testing.T) {
	h, _, mailer := newAuthHandlers(t)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/api/v1/auth/sendotp",
		strings.NewReader(`{"email":"new@example.com"}`))

	err := h.SendOTP(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec.Body.String())
	assert.Equal(t, true, body["success"])

	// The code travels only via mail, never in the response
	require.Len(t, mailer.Sent(), 1)
	code := codePattern.FindString(mailer.Sent()[0].Body)
	assert.NotContains(t, rec.Body.String(), code)
}

func TestSendOTP_AlreadyRegistered(t *testing.T) {
	h, repo, _ := newAuthHandlers(t)

	testutil.NewTestUser(t, repo, "taken@example.com", models.AccountTypeStudent)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/api/v1/auth/sendotp",
		strings.NewReader(`{"email":"taken@example.com"}`))

	err := h.SendOTP(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec.Body.String())["success"])
}

func TestSignup(t *testing.T) {
	h, _, mailer := newAuthHandlers(t)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/api/v1/auth/sendotp",
		strings.NewReader(`{"email":"ada@example.com"}`))
	require.NoError(t, h.SendOTP(c))
	require.Equal(t, http.StatusOK, rec.Code)

	code := codePattern.FindString(mailer.Sent()[0].Body)
	payload := `{
		"firstName": "Ada",
		"lastName": "Lovelace",
		"email": "ada@example.com",
		"password": "correct horse",
		"confirmPassword": "correct horse",
		"accountType": "Student",
		"otp": "` + code + `"
	}`

	c, rec = testutil.NewEchoContext(e, http.MethodPost, "/api/v1/auth/signup", strings.NewReader(payload))

	err := h.Signup(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec.Body.String())
	assert.Equal(t, true, body["success"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", user["email"])
	// The password hash is stripped from the response
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestSignup_WrongOTP(t *testing.T) {
	h, _, mailer := newAuthHandlers(t)

	e := echo.New()
	c, _ := testutil.NewEchoContext(e, http.MethodPost, "/api/v1/auth/sendotp",
		strings.NewReader(`{"email":"ada@example.com"}`))
	require.NoError(t, h.SendOTP(c))

	code := codePattern.FindString(mailer.Sent()[0].Body)
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	payload := `{
		"firstName": "Ada",
		"lastName": "Lovelace",
		"email": "ada@example.com",
		"password": "correct horse",
		"confirmPassword": "correct horse",
		"accountType": "Student",
		"otp": "` + wrong + `"
	}`
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/api/v1/auth/signup", strings.NewReader(payload))

	err := h.Signup(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "The OTP is not valid")
}

func TestLogin_SetsCookie(t *testing.T) {
	h, repo, _ := newAuthHandlers(t)

	testutil.NewTestUser(t, repo, "ada@example.com", models.AccountTypeStudent)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"`+testutil.TestPassword+`"}`))

	err := h.Login(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec.Body.String())
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, int((72 * time.Hour).Seconds()), cookies[0].MaxAge)
}

func TestLogin_WrongPassword(t *testing.T) {
	h, repo, _ := newAuthHandlers(t)

	testutil.NewTestUser(t, repo, "ada@example.com", models.AccountTypeStudent)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"wrong"}`))

	err := h.Login(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	assert.Contains(t, rec.Body.String(), "Email or password is incorrect")
}

func TestLogin_UnknownUserSameMessage(t *testing.T) {
	h, _, _ := newAuthHandlers(t)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"nobody@example.com","password":"whatever"}`))

	err := h.Login(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// Unknown user and wrong password are indistinguishable
	assert.Contains(t, rec.Body.String(), "Email or password is incorrect")
}

func TestChangePassword(t *testing.T) {
	h, repo, _ := newAuthHandlers(t)

	user := testutil.NewTestUser(t, repo, "ada@example.com", models.AccountTypeStudent)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/api/v1/auth/changepassword",
		strings.NewReader(`{"oldPassword":"`+testutil.TestPassword+`","newPassword":"brand new"}`))
	withClaims(c, user.ID)

	err := h.ChangePassword(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChangePassword_NoClaims(t *testing.T) {
	h, _, _ := newAuthHandlers(t)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/api/v1/auth/changepassword",
		strings.NewReader(`{"oldPassword":"a","newPassword":"b"}`))

	err := h.ChangePassword(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
