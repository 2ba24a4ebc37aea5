// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"
)

func TestFlags(t *testing.T) {
	flags := Flags()

	assert.NotEmpty(t, flags)

	flagNames := make(map[string]bool)
	for _, f := range flags {
		for _, name := range f.Names() {
			flagNames[name] = true
		}
	}

	assert.True(t, flagNames["host"], "should have host flag")
	assert.True(t, flagNames["port"], "should have port flag")
	assert.True(t, flagNames["database-dsn"], "should have database-dsn flag")
	assert.True(t, flagNames["jwt-secret"], "should have jwt-secret flag")
	assert.True(t, flagNames["token-expiry"], "should have token-expiry flag")
	assert.True(t, flagNames["otp-expiry"], "should have otp-expiry flag")
	assert.True(t, flagNames["smtp-host"], "should have smtp-host flag")
	assert.True(t, flagNames["storage-bucket"], "should have storage-bucket flag")
	assert.True(t, flagNames["payment-key-id"], "should have payment-key-id flag")
}

func TestNewFromCLI_Defaults(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.NotNil(t, cfg)
			assert.Equal(t, "localhost", cfg.Server.Host)
			assert.Equal(t, 8080, cfg.Server.Port)
			assert.Equal(t, "info", cfg.Log.Level)
			assert.Equal(t, "text", cfg.Log.Format)
			assert.Equal(t, "token", cfg.Auth.CookieName)
			assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiry)
			assert.Equal(t, 72*time.Hour, cfg.Auth.CookieMaxAge)
			assert.Equal(t, 5*time.Minute, cfg.Auth.OTPExpiry)
			assert.Equal(t, 587, cfg.SMTP.Port)
			assert.Equal(t, "INR", cfg.Payment.Currency)

			// The cookie outlives the token, never the other way around
			assert.Greater(t, cfg.Auth.CookieMaxAge, cfg.Auth.TokenExpiry)

			return nil
		},
	}

	err := app.Run(context.Background(), []string{"test"})
	assert.NoError(t, err)
}

func TestNewFromCLI_WithCustomValues(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.Equal(t, "0.0.0.0", cfg.Server.Host)
			assert.Equal(t, 9000, cfg.Server.Port)
			assert.Equal(t, "debug", cfg.Log.Level)
			assert.Equal(t, "./data/test.db", cfg.Database.DSN)
			assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
			assert.Equal(t, 10*time.Minute, cfg.Auth.OTPExpiry)

			return nil
		},
	}

	args := []string{
		"test",
		"--host", "0.0.0.0",
		"--port", "9000",
		"--log-level", "debug",
		"--database-dsn", "./data/test.db",
		"--jwt-secret", "s3cret",
		"--otp-expiry", "10m",
	}
	err := app.Run(context.Background(), args)
	assert.NoError(t, err)
}
