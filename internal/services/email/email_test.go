// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecraft/coursecraft/internal/config"
	"github.com/coursecraft/coursecraft/internal/services/email"
)

func validSMTPConfig() *config.SMTPConfig {
	return &config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "testuser",
		Password: "testpass",
		From:     "noreply@example.com",
		FromName: "Test App",
		TLS:      true,
	}
}

func TestNewService(t *testing.T) {
	cfg := validSMTPConfig()

	svc, err := email.NewService(cfg)

	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestNewService_MissingHost(t *testing.T) {
	cfg := validSMTPConfig()
	cfg.Host = ""

	_, err := email.NewService(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP host is required")
}

func TestNewService_MissingFrom(t *testing.T) {
	cfg := validSMTPConfig()
	cfg.From = ""

	_, err := email.NewService(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP from address is required")
}

func TestVerificationBody(t *testing.T) {
	body := email.VerificationBody("123456")

	assert.Contains(t, body, "123456")
	assert.Contains(t, body, "expires")
}

func TestPasswordUpdatedBody(t *testing.T) {
	body := email.PasswordUpdatedBody("Ada", "Lovelace")

	assert.Contains(t, body, "Ada Lovelace")
}

func TestEnrollmentMail(t *testing.T) {
	subject := email.EnrollmentSubject("Go Basics")
	body := email.EnrollmentBody("Go Basics", "Ada")

	assert.Contains(t, subject, "Go Basics")
	assert.Contains(t, body, "Ada")
	assert.Contains(t, body, "Go Basics")
}
