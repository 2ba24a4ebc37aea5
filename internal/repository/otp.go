// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/coursecraft/coursecraft/internal/models"
)

// CreateOTP stores a new hashed one-time passcode for an email.
func (r *Repository) CreateOTP(ctx context.Context, email, codeHash string) (*models.OTP, error) {
	otp := &models.OTP{
		Email:     email,
		CodeHash:  codeHash,
		CreatedAt: time.Now().UTC(),
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO otps (email, code_hash, created_at) VALUES (?, ?, ?)`,
		otp.Email, otp.CodeHash, otp.CreatedAt)
	if err != nil {
		return nil, wrapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	otp.ID = id
	return otp, nil
}

// LatestOTP returns the most recently created unexpired passcode record for
// an email. Ties on created_at break towards the higher id, so the newest
// insert always wins.
func (r *Repository) LatestOTP(ctx context.Context, email string, ttl time.Duration) (*models.OTP, error) {
	var otp models.OTP
	cutoff := time.Now().UTC().Add(-ttl)
	err := r.db.GetContext(ctx, &otp,
		`SELECT * FROM otps WHERE email = ? AND created_at > ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		email, cutoff)
	if err != nil {
		return nil, wrapError(err)
	}
	return &otp, nil
}

// ConsumeOTPs deletes every passcode record for an email in one statement
// and reports how many rows went away. A zero count means a concurrent
// verification already consumed them; callers treat that as no pending
// passcode rather than a success.
func (r *Repository) ConsumeOTPs(ctx context.Context, email string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM otps WHERE email = ?`, email)
	if err != nil {
		return 0, wrapError(err)
	}
	return res.RowsAffected()
}

// DeleteExpiredOTPs removes passcode records older than the TTL.
func (r *Repository) DeleteExpiredOTPs(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-ttl)
	res, err := r.db.ExecContext(ctx, `DELETE FROM otps WHERE created_at <= ?`, cutoff)
	if err != nil {
		return 0, wrapError(err)
	}
	return res.RowsAffected()
}
