// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecraft/coursecraft/internal/repository"
	"github.com/coursecraft/coursecraft/internal/testutil"
)

func TestCreateOTP(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	otp, err := repo.CreateOTP(ctx, "new@example.com", "hash-1")

	require.NoError(t, err)
	assert.NotZero(t, otp.ID)
	assert.Equal(t, "new@example.com", otp.Email)
	assert.Equal(t, "hash-1", otp.CodeHash)
	assert.WithinDuration(t, time.Now().UTC(), otp.CreatedAt, time.Second)
}

func TestLatestOTP_NewestWins(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := repo.CreateOTP(ctx, "new@example.com", "hash-old")
	require.NoError(t, err)
	_, err = repo.CreateOTP(ctx, "new@example.com", "hash-new")
	require.NoError(t, err)

	otp, err := repo.LatestOTP(ctx, "new@example.com", 5*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, "hash-new", otp.CodeHash)
}

func TestLatestOTP_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := repo.LatestOTP(ctx, "nobody@example.com", 5*time.Minute)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLatestOTP_Expired(t *testing.T) {
	db, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	otp, err := repo.CreateOTP(ctx, "new@example.com", "hash-1")
	require.NoError(t, err)

	// Backdate past the validity window
	_, err = db.ExecContext(ctx, `UPDATE otps SET created_at = ? WHERE id = ?`,
		time.Now().UTC().Add(-10*time.Minute), otp.ID)
	require.NoError(t, err)

	_, err = repo.LatestOTP(ctx, "new@example.com", 5*time.Minute)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConsumeOTPs(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := repo.CreateOTP(ctx, "new@example.com", "hash-1")
	require.NoError(t, err)
	_, err = repo.CreateOTP(ctx, "new@example.com", "hash-2")
	require.NoError(t, err)

	n, err := repo.ConsumeOTPs(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Second consume finds nothing
	n, err = repo.ConsumeOTPs(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConsumeOTPs_OtherEmailsUntouched(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := repo.CreateOTP(ctx, "a@example.com", "hash-a")
	require.NoError(t, err)
	_, err = repo.CreateOTP(ctx, "b@example.com", "hash-b")
	require.NoError(t, err)

	n, err := repo.ConsumeOTPs(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	otp, err := repo.LatestOTP(ctx, "b@example.com", 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "hash-b", otp.CodeHash)
}

func TestDeleteExpiredOTPs(t *testing.T) {
	db, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	stale, err := repo.CreateOTP(ctx, "stale@example.com", "hash-stale")
	require.NoError(t, err)
	_, err = repo.CreateOTP(ctx, "fresh@example.com", "hash-fresh")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `UPDATE otps SET created_at = ? WHERE id = ?`,
		time.Now().UTC().Add(-time.Hour), stale.ID)
	require.NoError(t, err)

	n, err := repo.DeleteExpiredOTPs(ctx, 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.LatestOTP(ctx, "stale@example.com", time.Hour)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	otp, err := repo.LatestOTP(ctx, "fresh@example.com", 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "hash-fresh", otp.CodeHash)
}
