// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Zercerium/zero2prod/internal/services/auth"
	"github.com/Zercerium/zero2prod/internal/services/newsletter"
)

// NewsletterHandlers serves the API publish endpoint.
type NewsletterHandlers struct {
	authService *auth.Service
	publisher   *newsletter.Service
}

// NewNewsletters creates handlers for newsletter publishing.
func NewNewsletters(authService *auth.Service, publisher *newsletter.Service) *NewsletterHandlers {
	return &NewsletterHandlers{authService: authService, publisher: publisher}
}

type newsletterBody struct {
	Title   string `json:"title"`
	Content struct {
		HTML string `json:"html"`
		Text string `json:"text"`
	} `json:"content"`
}

// Publish handles POST /newsletters. The caller authenticates with
// Basic auth through the same credential verifier as interactive login.
func (h *NewsletterHandlers) Publish(c echo.Context) error {
	creds, err := basicAuthentication(c.Request().Header)
	if err != nil {
		slog.Warn("publish_rejected", "reason", err.Error())
		return unauthorizedWithChallenge(c)
	}

	if _, err := h.authService.ValidateCredentials(c.Request().Context(), creds); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return unauthorizedWithChallenge(c)
		}
		slog.Error("publish_auth_failed", "error", err)
		return c.NoContent(http.StatusInternalServerError)
	}

	var body newsletterBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "malformed newsletter body"})
	}
	if body.Title == "" || body.Content.HTML == "" || body.Content.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "title, content.html and content.text are required"})
	}

	issue := newsletter.Issue{
		Title: body.Title,
		HTML:  body.Content.HTML,
		Text:  body.Content.Text,
	}
	if err := h.publisher.Publish(c.Request().Context(), issue); err != nil {
		slog.Error("publish_failed", "error", err)
		return c.NoContent(http.StatusInternalServerError)
	}

	return c.NoContent(http.StatusOK)
}

func unauthorizedWithChallenge(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="publish"`)
	return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Authentication failed"})
}

// basicAuthentication extracts credentials from an Authorization header.
func basicAuthentication(header http.Header) (auth.Credentials, error) {
	value := header.Get(echo.HeaderAuthorization)
	if value == "" {
		return auth.Credentials{}, fmt.Errorf("the 'Authorization' header was missing")
	}

	encoded, ok := strings.CutPrefix(value, "Basic ")
	if !ok {
		return auth.Credentials{}, fmt.Errorf("the authorization scheme was not 'Basic'")
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return auth.Credentials{}, fmt.Errorf("failed to base64-decode 'Basic' credentials: %w", err)
	}

	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return auth.Credentials{}, fmt.Errorf("both a username and a password must be provided in 'Basic' auth")
	}

	return auth.Credentials{Username: username, Password: password}, nil
}
