// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import "fmt"

// Subjects for the transactional mails the platform sends.
const (
	VerificationSubject    = "Your verification code"
	PasswordUpdatedSubject = "Password for your account has been updated"
)

// VerificationBody renders the mail carrying a one-time passcode.
func VerificationBody(code string) string {
	return fmt.Sprintf(
		"Your verification code is %s.\n\nIt expires in a few minutes. If you did not request it, you can ignore this email.\n",
		code)
}

// PasswordUpdatedBody renders the notification sent after a password change.
func PasswordUpdatedBody(firstName, lastName string) string {
	return fmt.Sprintf(
		"Hi %s %s,\n\nThe password for your account was just updated. If this wasn't you, please contact support immediately.\n",
		firstName, lastName)
}

// EnrollmentSubject renders the subject for a course enrollment confirmation.
func EnrollmentSubject(courseName string) string {
	return fmt.Sprintf("Successfully enrolled into %s", courseName)
}

// EnrollmentBody renders the confirmation sent after a paid enrollment.
func EnrollmentBody(courseName, firstName string) string {
	return fmt.Sprintf(
		"Hi %s,\n\nYou are now enrolled in %s. Happy learning!\n",
		firstName, courseName)
}
