// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Zercerium/zero2prod/internal/i18n"
	"github.com/Zercerium/zero2prod/internal/services/auth"
	"github.com/Zercerium/zero2prod/internal/services/session"
	"github.com/Zercerium/zero2prod/internal/templates"
)

// AuthHandlers serves the interactive login flow.
type AuthHandlers struct {
	authService *auth.Service
	sessions    *session.Manager
}

// NewAuth creates handlers for login and logout.
func NewAuth(authService *auth.Service, sessions *session.Manager) *AuthHandlers {
	return &AuthHandlers{authService: authService, sessions: sessions}
}

// LoginForm handles GET /login. A pending flash message from a failed
// attempt is rendered once and cleared; tampered flashes read as empty.
func (h *AuthHandlers) LoginForm(c echo.Context) error {
	flash := h.sessions.PopFlash(c.Response(), c.Request())
	return Render(c, http.StatusOK, templates.Login(flash))
}

// Login handles POST /login. Success opens a session and redirects to
// the dashboard; any failure flashes a message and redirects back, so
// the response never distinguishes unknown users from wrong passwords.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()
	creds := auth.Credentials{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}

	userID, err := h.authService.ValidateCredentials(ctx, creds)
	if err != nil {
		message := i18n.T(ctx, "flash_auth_failed")
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Error("login_failed", "error", err)
			message = i18n.T(ctx, "flash_something_went_wrong")
		}
		if err := h.sessions.Flash(c.Response(), message); err != nil {
			slog.Error("flash_failed", "error", err)
		}
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	if err := h.sessions.Login(c.Response(), userID); err != nil {
		slog.Error("session_write_failed", "error", err)
		return c.NoContent(http.StatusInternalServerError)
	}

	slog.Info("login_success", "user_id", userID)
	return c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}
