// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Zercerium/zero2prod/internal/i18n"
	"github.com/Zercerium/zero2prod/internal/repository"
	"github.com/Zercerium/zero2prod/internal/services/auth"
	"github.com/Zercerium/zero2prod/internal/services/newsletter"
	"github.com/Zercerium/zero2prod/internal/services/session"
	"github.com/Zercerium/zero2prod/internal/templates"
)

// userIDContextKey carries the session user id through the echo context.
const userIDContextKey = "user_id"

// AdminHandlers serves the session-protected admin area.
type AdminHandlers struct {
	repo        *repository.Repository
	authService *auth.Service
	publisher   *newsletter.Service
	sessions    *session.Manager
}

// NewAdmin creates handlers for the admin area.
func NewAdmin(repo *repository.Repository, authService *auth.Service, publisher *newsletter.Service, sessions *session.Manager) *AdminHandlers {
	return &AdminHandlers{
		repo:        repo,
		authService: authService,
		publisher:   publisher,
		sessions:    sessions,
	}
}

// RequireSession redirects anonymous requests to the login form and
// stores the session user id for downstream handlers.
func (h *AdminHandlers) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := h.sessions.UserID(c.Request())
		if !ok {
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		c.Set(userIDContextKey, userID)
		return next(c)
	}
}

func sessionUserID(c echo.Context) string {
	userID, _ := c.Get(userIDContextKey).(string)
	return userID
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandlers) Dashboard(c echo.Context) error {
	username, err := h.repo.GetUsername(c.Request().Context(), sessionUserID(c))
	if err != nil {
		slog.Error("dashboard_failed", "error", err)
		return c.NoContent(http.StatusInternalServerError)
	}
	return Render(c, http.StatusOK, templates.Dashboard(username))
}

// NewsletterForm handles GET /admin/newsletters.
func (h *AdminHandlers) NewsletterForm(c echo.Context) error {
	flash := h.sessions.PopFlash(c.Response(), c.Request())
	return Render(c, http.StatusOK, templates.Newsletter(flash))
}

// PublishNewsletter handles POST /admin/newsletters. Authorization
// already happened in RequireSession; the publish core is the same one
// backing the Basic-auth API endpoint.
func (h *AdminHandlers) PublishNewsletter(c echo.Context) error {
	ctx := c.Request().Context()

	issue := newsletter.Issue{
		Title: c.FormValue("title"),
		HTML:  c.FormValue("content_html"),
		Text:  c.FormValue("content_text"),
	}
	if issue.Title == "" || issue.HTML == "" || issue.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "title, content_html and content_text are required"})
	}

	if err := h.publisher.Publish(ctx, issue); err != nil {
		slog.Error("publish_failed", "error", err, "user_id", sessionUserID(c))
		return c.NoContent(http.StatusInternalServerError)
	}

	if err := h.sessions.Flash(c.Response(), i18n.T(ctx, "flash_newsletter_published")); err != nil {
		slog.Error("flash_failed", "error", err)
	}
	return c.Redirect(http.StatusSeeOther, "/admin/newsletters")
}

// PasswordForm handles GET /admin/password.
func (h *AdminHandlers) PasswordForm(c echo.Context) error {
	flash := h.sessions.PopFlash(c.Response(), c.Request())
	return Render(c, http.StatusOK, templates.Password(flash))
}

// ChangePassword handles POST /admin/password. The current password is
// re-verified through the credential verifier, so this path keeps the
// same timing properties as login.
func (h *AdminHandlers) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	userID := sessionUserID(c)

	currentPassword := c.FormValue("current_password")
	newPassword := c.FormValue("new_password")
	newPasswordCheck := c.FormValue("new_password_check")

	if newPassword != newPasswordCheck {
		if err := h.sessions.Flash(c.Response(), i18n.T(ctx, "flash_password_mismatch")); err != nil {
			slog.Error("flash_failed", "error", err)
		}
		return c.Redirect(http.StatusSeeOther, "/admin/password")
	}

	username, err := h.repo.GetUsername(ctx, userID)
	if err != nil {
		slog.Error("change_password_failed", "error", err)
		return c.NoContent(http.StatusInternalServerError)
	}

	creds := auth.Credentials{Username: username, Password: currentPassword}
	if _, err := h.authService.ValidateCredentials(ctx, creds); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			if err := h.sessions.Flash(c.Response(), i18n.T(ctx, "flash_password_incorrect")); err != nil {
				slog.Error("flash_failed", "error", err)
			}
			return c.Redirect(http.StatusSeeOther, "/admin/password")
		}
		slog.Error("change_password_failed", "error", err)
		return c.NoContent(http.StatusInternalServerError)
	}

	if err := h.authService.ChangePassword(ctx, userID, newPassword); err != nil {
		slog.Error("change_password_failed", "error", err)
		return c.NoContent(http.StatusInternalServerError)
	}

	if err := h.sessions.Flash(c.Response(), i18n.T(ctx, "flash_password_changed")); err != nil {
		slog.Error("flash_failed", "error", err)
	}
	return c.Redirect(http.StatusSeeOther, "/admin/password")
}

// Logout handles POST /admin/logout.
func (h *AdminHandlers) Logout(c echo.Context) error {
	h.sessions.Logout(c.Response())
	if err := h.sessions.Flash(c.Response(), i18n.T(c.Request().Context(), "flash_logged_out")); err != nil {
		slog.Error("flash_failed", "error", err)
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}
