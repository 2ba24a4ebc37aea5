// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/coursecraft/coursecraft/internal/models"
)

// CreateUserWithProfile inserts the profile and the user that owns it in a
// single transaction, so no partial account/profile pair can persist.
// The user's ProfileID is filled from the freshly inserted profile row.
func (r *Repository) CreateUserWithProfile(ctx context.Context, profile *models.Profile, user *models.User) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	res, err := tx.ExecContext(ctx,
		`INSERT INTO profiles (gender, date_of_birth, about, contact_number, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		profile.Gender, profile.DateOfBirth, profile.About, profile.ContactNumber,
		profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		return wrapError(err)
	}
	profileID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	profile.ID = profileID

	user.ProfileID = profileID
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err = tx.ExecContext(ctx,
		`INSERT INTO users (first_name, last_name, email, password_hash, account_type, approved,
		                    contact_number, image, profile_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.FirstName, user.LastName, user.Email, user.PasswordHash, user.AccountType,
		user.Approved, user.ContactNumber, user.Image, user.ProfileID,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return wrapError(err)
	}
	userID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = userID

	return tx.Commit()
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by their email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = ?`, email); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// EmailExists checks whether an account exists for the given email.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE email = ?`, email); err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateUserPassword replaces a user's password hash.
func (r *Repository) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id)
	return wrapError(err)
}

// UpdateUserImage replaces a user's profile image URL.
func (r *Repository) UpdateUserImage(ctx context.Context, id int64, imageURL string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET image = ?, updated_at = ? WHERE id = ?`,
		imageURL, time.Now().UTC(), id)
	return wrapError(err)
}

// GetProfileByID retrieves a profile by ID.
func (r *Repository) GetProfileByID(ctx context.Context, id int64) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, `SELECT * FROM profiles WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &profile, nil
}

// UpdateProfile updates the mutable fields of a profile.
func (r *Repository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	profile.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET gender = ?, date_of_birth = ?, about = ?, contact_number = ?, updated_at = ?
		 WHERE id = ?`,
		profile.Gender, profile.DateOfBirth, profile.About, profile.ContactNumber,
		profile.UpdatedAt, profile.ID)
	return wrapError(err)
}

// DeleteUserCascade removes a user together with the profile it owns.
// Enrollments and orders go with it via ON DELETE CASCADE.
func (r *Repository) DeleteUserCascade(ctx context.Context, userID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var profileID int64
	if err := tx.GetContext(ctx, &profileID, `SELECT profile_id FROM users WHERE id = ?`, userID); err != nil {
		return wrapError(err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID); err != nil {
		return wrapError(err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, profileID); err != nil {
		return wrapError(err)
	}

	return tx.Commit()
}
