// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// AccountType enumerates the roles a user account can hold.
type AccountType string

const (
	AccountTypeStudent    AccountType = "Student"
	AccountTypeInstructor AccountType = "Instructor"
	AccountTypeAdmin      AccountType = "Admin"
)

// Valid reports whether the account type is one of the known roles.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeStudent, AccountTypeInstructor, AccountTypeAdmin:
		return true
	}
	return false
}

// User is a registered account. The password hash never leaves the server;
// the json tag strips it from every response.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID            int64       `db:"id" json:"id"`
	FirstName     string      `db:"first_name" json:"firstName"`
	LastName      string      `db:"last_name" json:"lastName"`
	Email         string      `db:"email" json:"email"`
	PasswordHash  string      `db:"password_hash" json:"-"`
	AccountType   AccountType `db:"account_type" json:"accountType"`
	Approved      bool        `db:"approved" json:"approved"`
	ContactNumber string      `db:"contact_number" json:"contactNumber"`
	Image         string      `db:"image" json:"image"`
	ProfileID     int64       `db:"profile_id" json:"profileId"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updatedAt"`
}

// Profile holds the additional details owned one-to-one by a user.
type Profile struct { //nolint:govet // fieldalignment: readability over optimization
	ID            int64     `db:"id" json:"id"`
	Gender        *string   `db:"gender" json:"gender"`
	DateOfBirth   *string   `db:"date_of_birth" json:"dateOfBirth"`
	About         *string   `db:"about" json:"about"`
	ContactNumber *string   `db:"contact_number" json:"contactNumber"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}
