// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth implements the one-time-passcode registration flow,
// session token issuance, and password management.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"

	"golang.org/x/crypto/bcrypt"

	"github.com/coursecraft/coursecraft/internal/config"
	"github.com/coursecraft/coursecraft/internal/models"
	"github.com/coursecraft/coursecraft/internal/repository"
	"github.com/coursecraft/coursecraft/internal/services/email"
)

var (
	ErrInvalidEmail       = errors.New("a valid email is required")
	ErrAlreadyRegistered  = errors.New("user already exists")
	ErrMissingFields      = errors.New("all fields are required")
	ErrPasswordMismatch   = errors.New("password and confirmation do not match")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrNoPendingOTP       = errors.New("no pending passcode for this email")
	ErrInvalidOTP         = errors.New("the passcode is not valid")
	ErrNotRegistered      = errors.New("user is not registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSamePassword       = errors.New("new password must differ from the old password")
	ErrDeliveryFailed     = errors.New("could not deliver email")
	ErrNotificationFailed = errors.New("password updated, but notification email failed")
)

// dummyHash is used for constant-time login to prevent timing attacks.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

// Service implements the account lifecycle: passcode issuance,
// verified registration, login, and password changes.
type Service struct {
	repo   *repository.Repository
	mailer email.Mailer
	cfg    *config.AuthConfig
}

// NewService constructs the auth service.
func NewService(repo *repository.Repository, mailer email.Mailer, cfg *config.AuthConfig) *Service {
	return &Service{
		repo:   repo,
		mailer: mailer,
		cfg:    cfg,
	}
}

// RequestOTP generates a fresh passcode for an unregistered email,
// persists only its hash, and mails the plaintext to the address.
func (s *Service) RequestOTP(ctx context.Context, address string) error {
	if _, err := mail.ParseAddress(address); err != nil {
		return ErrInvalidEmail
	}

	exists, err := s.repo.EmailExists(ctx, address)
	if err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return ErrAlreadyRegistered
	}

	code, err := GenerateCode()
	if err != nil {
		return err
	}
	codeHash, err := HashCode(code)
	if err != nil {
		return err
	}

	if _, err := s.repo.CreateOTP(ctx, address, codeHash); err != nil {
		return fmt.Errorf("failed to store passcode: %w", err)
	}

	if err := s.mailer.Send(ctx, address, email.VerificationSubject, email.VerificationBody(code)); err != nil {
		slog.Warn("otp_delivery_failed", "email", address, "error", err)
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	slog.Info("otp_sent", "email", address)
	return nil
}

// RegisterParams holds the signup fields submitted together with the
// passcode.
type RegisterParams struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	AccountType     models.AccountType
	ContactNumber   string
}

// Register verifies the submitted passcode against the newest stored hash
// for the email and, on success, creates the account and its profile as
// one unit. All passcode records for the email are consumed atomically;
// a concurrent verification that loses the race gets ErrNoPendingOTP.
func (s *Service) Register(ctx context.Context, params RegisterParams, code string) (*models.User, error) {
	if params.FirstName == "" || params.LastName == "" || params.Email == "" ||
		params.Password == "" || params.ConfirmPassword == "" || code == "" {
		return nil, ErrMissingFields
	}
	if _, err := mail.ParseAddress(params.Email); err != nil {
		return nil, ErrInvalidEmail
	}
	if params.Password != params.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if params.AccountType == "" {
		params.AccountType = models.AccountTypeStudent
	}
	if !params.AccountType.Valid() {
		return nil, ErrInvalidAccountType
	}

	exists, err := s.repo.EmailExists(ctx, params.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	otp, err := s.repo.LatestOTP(ctx, params.Email, s.cfg.OTPExpiry)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoPendingOTP
		}
		return nil, fmt.Errorf("failed to load passcode: %w", err)
	}
	if !VerifyCode(code, otp.CodeHash) {
		slog.Warn("signup_failed", "email", params.Email, "reason", "invalid_otp")
		return nil, ErrInvalidOTP
	}

	consumed, err := s.repo.ConsumeOTPs(ctx, params.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to consume passcode: %w", err)
	}
	if consumed == 0 {
		// Another verification for this email won the race.
		return nil, ErrNoPendingOTP
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.Profile{}
	if params.ContactNumber != "" {
		profile.ContactNumber = &params.ContactNumber
	}

	user := &models.User{
		FirstName:     params.FirstName,
		LastName:      params.LastName,
		Email:         params.Email,
		PasswordHash:  string(passwordHash),
		AccountType:   params.AccountType,
		Approved:      params.AccountType != models.AccountTypeInstructor,
		ContactNumber: params.ContactNumber,
		Image:         defaultAvatarURL(params.FirstName, params.LastName),
	}

	if err := s.repo.CreateUserWithProfile(ctx, profile, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("register_success", "user_id", user.ID, "email", user.Email, "account_type", user.AccountType)
	return user, nil
}

// Login verifies the password for an email and mints a session token.
func (s *Service) Login(ctx context.Context, address, password string) (string, *models.User, error) {
	if address == "" || password == "" {
		return "", nil, ErrMissingFields
	}

	user, err := s.repo.GetUserByEmail(ctx, address)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform bcrypt comparison to prevent timing attacks
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "email", address, "reason", "user_not_found")
			return "", nil, ErrNotRegistered
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "email", address, "reason", "invalid_password")
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateToken(user, []byte(s.cfg.JWTSecret), s.cfg.TokenExpiry)
	if err != nil {
		return "", nil, err
	}

	slog.Info("login_success", "user_id", user.ID, "email", address)
	return token, user, nil
}

// ChangePassword replaces a user's password after verifying the old one.
// The notification email is best effort: if it fails, the change has
// already committed and ErrNotificationFailed is returned instead of
// rolling back.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrMissingFields
	}
	// Plaintext compare before any hashing work.
	if oldPassword == newPassword {
		return ErrSamePassword
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdateUserPassword(ctx, userID, string(passwordHash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password_changed", "user_id", userID)

	if err := s.mailer.Send(ctx, user.Email, email.PasswordUpdatedSubject,
		email.PasswordUpdatedBody(user.FirstName, user.LastName)); err != nil {
		slog.Warn("password_notification_failed", "user_id", userID, "error", err)
		return ErrNotificationFailed
	}

	return nil
}

func defaultAvatarURL(firstName, lastName string) string {
	seed := url.QueryEscape(firstName + " " + lastName)
	return "https://api.dicebear.com/5.x/initials/svg?seed=" + seed
}
