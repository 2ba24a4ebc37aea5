// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/coursecraft/coursecraft/internal/models"
)

// CreateOrder persists an order created at the payment gateway.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) error {
	order.CreatedAt = time.Now().UTC()
	if order.Status == "" {
		order.Status = models.OrderStatusCreated
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO orders (provider_order_id, user_id, amount, currency, receipt, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		order.ProviderOrderID, order.UserID, order.Amount, order.Currency,
		order.Receipt, order.Status, order.CreatedAt)
	if err != nil {
		return wrapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	order.ID = id
	return nil
}

// GetOrderByProviderID retrieves an order by the gateway's order id.
func (r *Repository) GetOrderByProviderID(ctx context.Context, providerOrderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.GetContext(ctx, &order,
		`SELECT * FROM orders WHERE provider_order_id = ?`, providerOrderID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &order, nil
}

// MarkOrderPaid transitions an order to paid.
func (r *Repository) MarkOrderPaid(ctx context.Context, providerOrderID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE provider_order_id = ? AND status = ?`,
		models.OrderStatusPaid, providerOrderID, models.OrderStatusCreated)
	if err != nil {
		return wrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// IsEnrolled reports whether the student is already enrolled in the course.
func (r *Repository) IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM enrollments WHERE user_id = ? AND course_id = ?`, userID, courseID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// EnrollStudent enrolls the student in every given course and bumps each
// course's sold counter, all in one transaction.
func (r *Repository) EnrollStudent(ctx context.Context, userID int64, courseIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, courseID := range courseIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO enrollments (user_id, course_id, created_at) VALUES (?, ?, ?)`,
			userID, courseID, now); err != nil {
			return wrapError(err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE courses SET sold = sold + 1 WHERE id = ?`, courseID); err != nil {
			return wrapError(err)
		}
	}

	return tx.Commit()
}

// ListEnrollments returns the courses a student is enrolled in.
func (r *Repository) ListEnrollments(ctx context.Context, userID int64) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.SelectContext(ctx, &enrollments,
		`SELECT * FROM enrollments WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}
