// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coursecraft/coursecraft/internal/repository"
	"github.com/coursecraft/coursecraft/internal/services/auth"
	"github.com/coursecraft/coursecraft/internal/services/catalog"
	"github.com/coursecraft/coursecraft/internal/services/payment"
)

// respond writes the standard response envelope.
func respond(c echo.Context, status int, message string, extra echo.Map) error {
	body := echo.Map{
		"success": status < http.StatusBadRequest,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	return c.JSON(status, body)
}

func success(c echo.Context, message string) error {
	return respond(c, http.StatusOK, message, nil)
}

func fail(c echo.Context, status int, message string) error {
	return respond(c, status, message, nil)
}

// failure maps service errors onto the HTTP taxonomy: validation 400,
// conflict 409, bad credential 401, absent entity 404, broken external
// collaborator 502, everything unexpected 500. Credential and passcode
// failures share generic messages to avoid account enumeration.
func failure(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidEmail):
		return fail(c, http.StatusBadRequest, "A valid email is required")
	case errors.Is(err, auth.ErrMissingFields):
		return fail(c, http.StatusBadRequest, "All fields are required")
	case errors.Is(err, auth.ErrPasswordMismatch):
		return fail(c, http.StatusBadRequest, "Password and Confirm Password do not match")
	case errors.Is(err, auth.ErrInvalidAccountType):
		return fail(c, http.StatusBadRequest, "Invalid account type")
	case errors.Is(err, auth.ErrAlreadyRegistered):
		return fail(c, http.StatusConflict, "User already exists. Please sign in to continue.")
	case errors.Is(err, auth.ErrNoPendingOTP), errors.Is(err, auth.ErrInvalidOTP):
		return fail(c, http.StatusBadRequest, "The OTP is not valid")
	case errors.Is(err, auth.ErrNotRegistered), errors.Is(err, auth.ErrInvalidCredentials):
		return fail(c, http.StatusUnauthorized, "Email or password is incorrect")
	case errors.Is(err, auth.ErrSamePassword):
		return fail(c, http.StatusBadRequest, "New password must be different from the old password")
	case errors.Is(err, auth.ErrNotificationFailed):
		return fail(c, http.StatusInternalServerError, "Password updated, but failed to send notification email")
	case errors.Is(err, auth.ErrDeliveryFailed):
		return fail(c, http.StatusBadGateway, "Could not send the verification email. Please try again.")
	case errors.Is(err, payment.ErrNoCourses):
		return fail(c, http.StatusBadRequest, "Please provide valid course ids")
	case errors.Is(err, payment.ErrCourseNotFound):
		return fail(c, http.StatusNotFound, "Could not find course")
	case errors.Is(err, payment.ErrAlreadyEnrolled):
		return fail(c, http.StatusConflict, "Student is already enrolled")
	case errors.Is(err, payment.ErrBadSignature):
		return fail(c, http.StatusUnauthorized, "Payment verification failed")
	case errors.Is(err, payment.ErrOrderNotFound):
		return fail(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, catalog.ErrCategoryNotFound):
		return fail(c, http.StatusNotFound, "Category not found")
	case errors.Is(err, catalog.ErrNoPublishedCourses):
		return fail(c, http.StatusNotFound, "No published courses found in this category")
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, "Not found")
	case errors.Is(err, repository.ErrDuplicate):
		return fail(c, http.StatusConflict, "Already exists")
	default:
		slog.Error("request_failed", "error", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
}
