// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package server wires configuration, database, services and routes into
// a running HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"github.com/coursecraft/coursecraft/internal/config"
	"github.com/coursecraft/coursecraft/internal/database"
	"github.com/coursecraft/coursecraft/internal/repository"
	"github.com/coursecraft/coursecraft/internal/services/auth"
	"github.com/coursecraft/coursecraft/internal/services/catalog"
	"github.com/coursecraft/coursecraft/internal/services/email"
	"github.com/coursecraft/coursecraft/internal/services/payment"
	"github.com/coursecraft/coursecraft/internal/services/storage"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt-secret is required")
	}

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// Repository
	repo := repository.New(db)

	// Services
	mailer, err := email.NewService(&cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to create mail service: %w", err)
	}

	uploader, err := storage.NewS3Store(ctx, &cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage service: %w", err)
	}

	authService := auth.NewService(repo, mailer, &cfg.Auth)
	catalogService := catalog.NewService(repo)
	paymentService := payment.NewService(repo, payment.NewClient(&cfg.Payment), mailer, &cfg.Payment)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	setupMiddleware(e, cfg)

	// Routes
	deps := &routerDeps{
		cfg:            cfg,
		repo:           repo,
		authService:    authService,
		catalogService: catalogService,
		paymentService: paymentService,
		uploader:       uploader,
	}
	setupRoutes(e, deps)

	// Background sweep of expired passcodes
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepExpiredOTPs(sweepCtx, repo, cfg.Auth.OTPExpiry, cfg.Auth.OTPSweepPeriod)

	// Start server
	return startWithGracefulShutdown(e, cfg)
}

// sweepExpiredOTPs periodically deletes passcodes past their validity
// window, so abandoned signups do not accumulate.
func sweepExpiredOTPs(ctx context.Context, repo *repository.Repository, ttl, period time.Duration) {
	if period <= 0 {
		return
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpiredOTPs(ctx, ttl)
			if err != nil {
				slog.Error("otp_sweep_failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Debug("otp_sweep", "deleted", n)
			}
		}
	}
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("server running", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
