// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package payment captures course enrollment payments through an external
// gateway and verifies the gateway's callback signatures.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/coursecraft/coursecraft/internal/config"
	"github.com/coursecraft/coursecraft/internal/models"
	"github.com/coursecraft/coursecraft/internal/repository"
	"github.com/coursecraft/coursecraft/internal/services/email"
)

var (
	ErrNoCourses       = errors.New("no course ids provided")
	ErrCourseNotFound  = errors.New("could not find course")
	ErrAlreadyEnrolled = errors.New("student is already enrolled")
	ErrBadSignature    = errors.New("payment signature verification failed")
	ErrOrderNotFound   = errors.New("order not found")
)

// Service coordinates order capture and payment verification.
type Service struct {
	repo     *repository.Repository
	provider Provider
	mailer   email.Mailer
	cfg      *config.PaymentConfig
}

// NewService constructs the payment service.
func NewService(repo *repository.Repository, provider Provider, mailer email.Mailer, cfg *config.PaymentConfig) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		mailer:   mailer,
		cfg:      cfg,
	}
}

// Capture totals the requested courses, rejects duplicates, creates an
// order at the gateway, and persists it.
func (s *Service) Capture(ctx context.Context, userID int64, courseIDs []int64) (*models.Order, error) {
	if len(courseIDs) == 0 {
		return nil, ErrNoCourses
	}

	var total int64
	for _, courseID := range courseIDs {
		course, err := s.repo.GetCourseByID(ctx, courseID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrCourseNotFound
			}
			return nil, fmt.Errorf("failed to load course: %w", err)
		}

		enrolled, err := s.repo.IsEnrolled(ctx, userID, courseID)
		if err != nil {
			return nil, fmt.Errorf("failed to check enrollment: %w", err)
		}
		if enrolled {
			return nil, ErrAlreadyEnrolled
		}

		total += course.Price
	}

	receipt := uuid.New().String()
	// Gateways bill in the smallest currency unit.
	gatewayOrder, err := s.provider.CreateOrder(ctx, total*100, s.cfg.Currency, receipt)
	if err != nil {
		return nil, fmt.Errorf("could not initiate order: %w", err)
	}

	order := &models.Order{
		ProviderOrderID: gatewayOrder.ID,
		UserID:          userID,
		Amount:          gatewayOrder.Amount,
		Currency:        gatewayOrder.Currency,
		Receipt:         receipt,
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to store order: %w", err)
	}

	slog.Info("payment_captured", "user_id", userID, "order_id", order.ProviderOrderID, "amount", order.Amount)
	return order, nil
}

// Verify checks the gateway signature over "orderID|paymentID" and, on
// match, marks the order paid and enrolls the student in every course.
// Enrollment confirmation mails are best effort.
func (s *Service) Verify(ctx context.Context, userID int64, orderID, paymentID, signature string, courseIDs []int64) error {
	if orderID == "" || paymentID == "" || signature == "" || len(courseIDs) == 0 {
		return ErrBadSignature
	}

	if !VerifySignature(orderID, paymentID, signature, s.cfg.KeySecret) {
		slog.Warn("payment_signature_mismatch", "user_id", userID, "order_id", orderID)
		return ErrBadSignature
	}

	if err := s.repo.MarkOrderPaid(ctx, orderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	if err := s.repo.EnrollStudent(ctx, userID, courseIDs); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyEnrolled
		}
		return fmt.Errorf("failed to enroll student: %w", err)
	}

	slog.Info("payment_verified", "user_id", userID, "order_id", orderID, "courses", len(courseIDs))

	s.sendEnrollmentMails(ctx, userID, courseIDs)
	return nil
}

// VerifySignature recomputes the HMAC-SHA256 of "orderID|paymentID" with
// the gateway secret and compares it to the submitted signature in
// constant time.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

func (s *Service) sendEnrollmentMails(ctx context.Context, userID int64, courseIDs []int64) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		slog.Warn("enrollment_mail_skipped", "user_id", userID, "error", err)
		return
	}
	for _, courseID := range courseIDs {
		course, err := s.repo.GetCourseByID(ctx, courseID)
		if err != nil {
			slog.Warn("enrollment_mail_skipped", "user_id", userID, "course_id", courseID, "error", err)
			continue
		}
		if err := s.mailer.Send(ctx, user.Email,
			email.EnrollmentSubject(course.Name),
			email.EnrollmentBody(course.Name, user.FirstName)); err != nil {
			slog.Warn("enrollment_mail_failed", "user_id", userID, "course_id", courseID, "error", err)
		}
	}
}
