// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// OTP stores a bcrypt hash of a one-time passcode requested for an email.
// The plaintext code exists only in memory and in the outbound mail.
// Multiple records per email are allowed; only the newest unexpired one
// counts for verification.
type OTP struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	CodeHash  string    `db:"code_hash" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
