// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coursecraft/coursecraft/internal/middleware"
	"github.com/coursecraft/coursecraft/internal/repository"
	"github.com/coursecraft/coursecraft/internal/services/payment"
)

// PaymentHandlers contains handlers for enrollment payments.
type PaymentHandlers struct {
	service *payment.Service
	repo    *repository.Repository
}

// NewPayment creates a new PaymentHandlers instance.
func NewPayment(service *payment.Service, repo *repository.Repository) *PaymentHandlers {
	return &PaymentHandlers{service: service, repo: repo}
}

// CaptureRequest is the request body for initiating a payment.
type CaptureRequest struct {
	CourseIDs []int64 `json:"courses"`
}

// Capture initiates a payment for the requested courses.
func (h *PaymentHandlers) Capture(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "Token missing")
	}

	var req CaptureRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}

	order, err := h.service.Capture(c.Request().Context(), claims.UserID, req.CourseIDs)
	if err != nil {
		return failure(c, err)
	}

	return respond(c, http.StatusOK, "Payment initiated successfully", echo.Map{
		"order": order,
	})
}

// VerifyRequest is the gateway callback body for payment verification.
type VerifyRequest struct {
	OrderID   string  `json:"razorpay_order_id"`
	PaymentID string  `json:"razorpay_payment_id"`
	Signature string  `json:"razorpay_signature"`
	CourseIDs []int64 `json:"courses"`
}

// Verify validates the gateway signature and enrolls the student.
func (h *PaymentHandlers) Verify(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "Token missing")
	}

	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}

	err := h.service.Verify(c.Request().Context(), claims.UserID,
		req.OrderID, req.PaymentID, req.Signature, req.CourseIDs)
	if err != nil {
		return failure(c, err)
	}

	return success(c, "Payment verified and student enrolled")
}

// Enrollments lists the authenticated student's enrolled courses.
func (h *PaymentHandlers) Enrollments(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "Token missing")
	}

	enrollments, err := h.repo.ListEnrollments(c.Request().Context(), claims.UserID)
	if err != nil {
		return failure(c, err)
	}

	return respond(c, http.StatusOK, "Enrolled courses fetched successfully", echo.Map{
		"enrollments": enrollments,
	})
}
