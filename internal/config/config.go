// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	Storage  StorageConfig
	Payment  PaymentConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	MaxBodySize int // in MB
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

// AuthConfig holds the token signing secret and the lifetimes of the
// one-time passcodes and session credentials. The token expiry is
// authoritative; the cookie lifetime only bounds how long the browser
// keeps resending a token that may already be expired.
type AuthConfig struct { //nolint:govet // fieldalignment not critical
	JWTSecret      string
	TokenExpiry    time.Duration // JWT validity window
	CookieName     string
	CookieMaxAge   time.Duration // cookie lifetime, longer than TokenExpiry
	CookieSecure   bool
	OTPExpiry      time.Duration // one-time passcode validity window
	OTPSweepPeriod time.Duration // interval for expired-passcode garbage collection
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

// StorageConfig configures the S3-compatible object store used for
// profile images.
type StorageConfig struct {
	Endpoint  string // base endpoint, e.g. a MinIO URL; empty for AWS
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string // public base URL for uploaded objects
}

// PaymentConfig configures the external payment gateway.
type PaymentConfig struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Currency  string
}

func NewFromCLI(cmd *cli.Command) *Config {
	return &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		Auth: AuthConfig{
			JWTSecret:      cmd.String("jwt-secret"),
			TokenExpiry:    cmd.Duration("token-expiry"),
			CookieName:     cmd.String("cookie-name"),
			CookieMaxAge:   cmd.Duration("cookie-max-age"),
			CookieSecure:   cmd.Bool("cookie-secure"),
			OTPExpiry:      cmd.Duration("otp-expiry"),
			OTPSweepPeriod: cmd.Duration("otp-sweep-period"),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			TLS:      cmd.Bool("smtp-tls"),
		},
		Storage: StorageConfig{
			Endpoint:  cmd.String("storage-endpoint"),
			Region:    cmd.String("storage-region"),
			Bucket:    cmd.String("storage-bucket"),
			AccessKey: cmd.String("storage-access-key"),
			SecretKey: cmd.String("storage-secret-key"),
			PublicURL: cmd.String("storage-public-url"),
		},
		Payment: PaymentConfig{
			BaseURL:   cmd.String("payment-base-url"),
			KeyID:     cmd.String("payment-key-id"),
			KeySecret: cmd.String("payment-key-secret"),
			Currency:  cmd.String("payment-currency"),
		},
	}
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL for the application",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   5,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/app.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		&cli.StringFlag{
			Name:    "jwt-secret",
			Usage:   "Secret key for signing session tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("JWT_SECRET"), toml.TOML("auth.jwt_secret", configFile)),
		},
		&cli.DurationFlag{
			Name:    "token-expiry",
			Value:   24 * time.Hour,
			Usage:   "Session token validity window",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TOKEN_EXPIRY"), toml.TOML("auth.token_expiry", configFile)),
		},
		&cli.StringFlag{
			Name:    "cookie-name",
			Value:   "token",
			Usage:   "Session token cookie name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("COOKIE_NAME"), toml.TOML("auth.cookie_name", configFile)),
		},
		&cli.DurationFlag{
			Name:    "cookie-max-age",
			Value:   72 * time.Hour,
			Usage:   "Session token cookie lifetime",
			Sources: cli.NewValueSourceChain(cli.EnvVar("COOKIE_MAX_AGE"), toml.TOML("auth.cookie_max_age", configFile)),
		},
		&cli.BoolFlag{
			Name:    "cookie-secure",
			Value:   true,
			Usage:   "HTTPS-only session cookie",
			Sources: cli.NewValueSourceChain(cli.EnvVar("COOKIE_SECURE"), toml.TOML("auth.cookie_secure", configFile)),
		},
		&cli.DurationFlag{
			Name:    "otp-expiry",
			Value:   5 * time.Minute,
			Usage:   "One-time passcode validity window",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OTP_EXPIRY"), toml.TOML("auth.otp_expiry", configFile)),
		},
		&cli.DurationFlag{
			Name:    "otp-sweep-period",
			Value:   5 * time.Minute,
			Usage:   "Interval between expired passcode sweeps",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OTP_SWEEP_PERIOD"), toml.TOML("auth.otp_sweep_period", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("smtp.password", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "From address for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Value:   "CourseCraft",
			Usage:   "From display name for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("smtp.tls", configFile)),
		},
		&cli.StringFlag{
			Name:    "storage-endpoint",
			Usage:   "S3-compatible endpoint for profile images (empty for AWS)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("STORAGE_ENDPOINT"), toml.TOML("storage.endpoint", configFile)),
		},
		&cli.StringFlag{
			Name:    "storage-region",
			Value:   "us-east-1",
			Usage:   "Object storage region",
			Sources: cli.NewValueSourceChain(cli.EnvVar("STORAGE_REGION"), toml.TOML("storage.region", configFile)),
		},
		&cli.StringFlag{
			Name:    "storage-bucket",
			Value:   "coursecraft-media",
			Usage:   "Object storage bucket for uploads",
			Sources: cli.NewValueSourceChain(cli.EnvVar("STORAGE_BUCKET"), toml.TOML("storage.bucket", configFile)),
		},
		&cli.StringFlag{
			Name:    "storage-access-key",
			Usage:   "Object storage access key",
			Sources: cli.NewValueSourceChain(cli.EnvVar("STORAGE_ACCESS_KEY"), toml.TOML("storage.access_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "storage-secret-key",
			Usage:   "Object storage secret key",
			Sources: cli.NewValueSourceChain(cli.EnvVar("STORAGE_SECRET_KEY"), toml.TOML("storage.secret_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "storage-public-url",
			Usage:   "Public base URL for uploaded objects",
			Sources: cli.NewValueSourceChain(cli.EnvVar("STORAGE_PUBLIC_URL"), toml.TOML("storage.public_url", configFile)),
		},
		&cli.StringFlag{
			Name:    "payment-base-url",
			Value:   "https://api.razorpay.com",
			Usage:   "Payment gateway API base URL",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PAYMENT_BASE_URL"), toml.TOML("payment.base_url", configFile)),
		},
		&cli.StringFlag{
			Name:    "payment-key-id",
			Usage:   "Payment gateway key id",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PAYMENT_KEY_ID"), toml.TOML("payment.key_id", configFile)),
		},
		&cli.StringFlag{
			Name:    "payment-key-secret",
			Usage:   "Payment gateway key secret",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PAYMENT_KEY_SECRET"), toml.TOML("payment.key_secret", configFile)),
		},
		&cli.StringFlag{
			Name:    "payment-currency",
			Value:   "INR",
			Usage:   "Currency for payment orders",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PAYMENT_CURRENCY"), toml.TOML("payment.currency", configFile)),
		},
	}
}
