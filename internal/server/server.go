// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package server wires the HTTP server together and runs it.
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

	"github.com/Zercerium/zero2prod/internal/config"
	"github.com/Zercerium/zero2prod/internal/database"
	"github.com/Zercerium/zero2prod/internal/handlers"
	"github.com/Zercerium/zero2prod/internal/i18n"
	"github.com/Zercerium/zero2prod/internal/repository"
	"github.com/Zercerium/zero2prod/internal/services/auth"
	"github.com/Zercerium/zero2prod/internal/services/email"
	"github.com/Zercerium/zero2prod/internal/services/newsletter"
	"github.com/Zercerium/zero2prod/internal/services/session"
	"github.com/Zercerium/zero2prod/internal/services/subscription"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

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

	if migrateErr := database.RunMigrations(db.DB); migrateErr != nil {
		return fmt.Errorf("failed to run migrations: %w", migrateErr)
	}

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	// Repository
	repo := repository.New(db)

	// Services
	authService := auth.NewService(repo)
	if cfg.Admin.Username != "" && cfg.Admin.Password != "" {
		if seedErr := authService.SeedAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); seedErr != nil {
			return fmt.Errorf("failed to seed admin user: %w", seedErr)
		}
	}

	dispatcher, err := email.NewSMTPDispatcher(&cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to set up mail dispatcher: %w", err)
	}
	emailService := email.NewService(dispatcher, cfg.Server.BaseURL)
	subscriptionService := subscription.NewService(repo, emailService)
	newsletterService := newsletter.NewService(repo, dispatcher)

	sessions, err := session.NewManager(&cfg.Session, cfg.CookieSecure())
	if err != nil {
		return fmt.Errorf("failed to set up session manager: %w", err)
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	setupMiddleware(e, cfg)

	// Routes
	setupRoutes(e, repo, authService, subscriptionService, newsletterService, sessions)

	// Start server
	return startWithGracefulShutdown(e, cfg)
}

func setupRoutes(
	e *echo.Echo,
	repo *repository.Repository,
	authService *auth.Service,
	subscriptionService *subscription.Service,
	newsletterService *newsletter.Service,
	sessions *session.Manager,
) {
	h := handlers.New()
	subs := handlers.NewSubscriptions(subscriptionService)
	news := handlers.NewNewsletters(authService, newsletterService)
	authH := handlers.NewAuth(authService, sessions)
	admin := handlers.NewAdmin(repo, authService, newsletterService, sessions)

	e.GET("/", h.Home)
	e.GET("/health_check", h.Health)

	e.POST("/subscriptions", subs.Subscribe)
	e.GET("/subscriptions/confirm", subs.Confirm)

	e.POST("/newsletters", news.Publish)

	e.GET("/login", authH.LoginForm)
	e.POST("/login", authH.Login)

	g := e.Group("/admin", admin.RequireSession)
	g.GET("/dashboard", admin.Dashboard)
	g.GET("/newsletters", admin.NewsletterForm)
	g.POST("/newsletters", admin.PublishNewsletter)
	g.GET("/password", admin.PasswordForm)
	g.POST("/password", admin.ChangePassword)
	g.POST("/logout", admin.Logout)
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
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
