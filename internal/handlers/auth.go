// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coursecraft/coursecraft/internal/config"
	"github.com/coursecraft/coursecraft/internal/middleware"
	"github.com/coursecraft/coursecraft/internal/models"
	"github.com/coursecraft/coursecraft/internal/services/auth"
)

// AuthHandlers contains handlers for the account lifecycle.
type AuthHandlers struct {
	service *auth.Service
	cfg     *config.AuthConfig
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(service *auth.Service, cfg *config.AuthConfig) *AuthHandlers {
	return &AuthHandlers{service: service, cfg: cfg}
}

// SendOTPRequest is the request body for requesting a passcode.
type SendOTPRequest struct {
	Email string `json:"email"`
}

// SendOTP issues a one-time passcode to an unregistered email. The code
// travels only via mail, never in the response.
func (h *AuthHandlers) SendOTP(c echo.Context) error {
	var req SendOTPRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}

	if err := h.service.RequestOTP(c.Request().Context(), req.Email); err != nil {
		return failure(c, err)
	}

	return success(c, "OTP sent successfully to your email")
}

// SignupRequest is the request body for registration.
type SignupRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AccountType     string `json:"accountType"`
	ContactNumber   string `json:"contactNumber"`
	OTP             string `json:"otp"`
}

// Signup verifies the submitted passcode and creates the account.
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}

	user, err := h.service.Register(c.Request().Context(), auth.RegisterParams{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		AccountType:     models.AccountType(req.AccountType),
		ContactNumber:   req.ContactNumber,
	}, req.OTP)
	if err != nil {
		return failure(c, err)
	}

	return respond(c, http.StatusOK, "User registered successfully", echo.Map{
		"user": user,
	})
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies the password and hands out a session token, both in the
// body and as an http-only cookie. The token's own expiry stays
// authoritative even while the cookie outlives it.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}

	token, user, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return failure(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cfg.CookieMaxAge),
		MaxAge:   int(h.cfg.CookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})

	return respond(c, http.StatusOK, "User login successful", echo.Map{
		"token": token,
		"user":  user,
	})
}

// ChangePasswordRequest is the request body for changing the password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword replaces the authenticated user's password.
func (h *AuthHandlers) ChangePassword(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "Token missing")
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}

	if err := h.service.ChangePassword(c.Request().Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		return failure(c, err)
	}

	return success(c, "Password updated successfully")
}
