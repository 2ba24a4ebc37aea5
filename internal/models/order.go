// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// OrderStatus enumerates the lifecycle states of a payment order.
type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
	OrderStatusPaid    OrderStatus = "paid"
)

// Order mirrors an order created at the external payment gateway.
// Amount is in the smallest currency unit.
type Order struct { //nolint:govet // fieldalignment: readability over optimization
	ID              int64       `db:"id" json:"id"`
	ProviderOrderID string      `db:"provider_order_id" json:"orderId"`
	UserID          int64       `db:"user_id" json:"userId"`
	Amount          int64       `db:"amount" json:"amount"`
	Currency        string      `db:"currency" json:"currency"`
	Receipt         string      `db:"receipt" json:"receipt"`
	Status          OrderStatus `db:"status" json:"status"`
	CreatedAt       time.Time   `db:"created_at" json:"createdAt"`
}

// Enrollment links a student to a course they paid for.
type Enrollment struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"userId"`
	CourseID  int64     `db:"course_id" json:"courseId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
