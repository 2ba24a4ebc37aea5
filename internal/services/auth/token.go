// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coursecraft/coursecraft/internal/models"
)

// ErrInvalidToken is returned when a session token fails signature or
// expiry verification.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the statements a session token carries. The role claim is
// trusted only because the signature was verified in the same request;
// role gates still re-check against current account state.
type Claims struct {
	jwt.RegisteredClaims
	Email  string             `json:"email"`
	UserID int64              `json:"user_id"`
	Role   models.AccountType `json:"role"`
}

// GenerateToken mints a signed session token for a user, valid for the
// given duration from now.
func GenerateToken(user *models.User, secret []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Email:  user.Email,
		UserID: user.ID,
		Role:   user.AccountType,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a session token against the secret and returns its
// claims. Expired or tampered tokens yield ErrInvalidToken.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
