// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	otpMin = 100000
	otpMax = 999999
)

// GenerateCode draws a 6-digit numeric passcode uniformly from
// [100000, 999999] using the system's secure random source.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate passcode: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}

// HashCode computes a salted one-way hash of a passcode. Only the hash is
// ever persisted.
func HashCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash passcode: %w", err)
	}
	return string(hash), nil
}

// VerifyCode reports whether the submitted passcode matches the stored hash.
func VerifyCode(code, codeHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(codeHash), []byte(code)) == nil
}
