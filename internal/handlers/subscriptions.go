// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Zercerium/zero2prod/internal/domain"
	"github.com/Zercerium/zero2prod/internal/services/subscription"
)

// SubscriptionHandlers serves registration and confirmation.
type SubscriptionHandlers struct {
	subscriptions *subscription.Service
}

// NewSubscriptions creates handlers for the subscription lifecycle.
func NewSubscriptions(subscriptions *subscription.Service) *SubscriptionHandlers {
	return &SubscriptionHandlers{subscriptions: subscriptions}
}

// Subscribe handles POST /subscriptions. Validation failures carry the
// offending reason back to the client; everything else surfaces as a
// generic server fault.
func (h *SubscriptionHandlers) Subscribe(c echo.Context) error {
	email := c.FormValue("email")
	name := c.FormValue("name")

	err := h.subscriptions.Subscribe(c.Request().Context(), email, name)
	if err == nil {
		return c.NoContent(http.StatusOK)
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": validationErr.Reason,
		})
	}

	slog.Error("subscribe_failed", "error", err)
	return c.NoContent(http.StatusInternalServerError)
}

// Confirm handles GET /subscriptions/confirm?subscription_token=...
// Unknown tokens are unauthorized; a token pointing at a missing
// subscriber is an integrity fault and surfaces as a server error.
func (h *SubscriptionHandlers) Confirm(c echo.Context) error {
	token := c.QueryParam("subscription_token")

	err := h.subscriptions.Confirm(c.Request().Context(), token)
	switch {
	case err == nil:
		return c.NoContent(http.StatusOK)
	case errors.Is(err, subscription.ErrTokenNotFound):
		return c.NoContent(http.StatusUnauthorized)
	default:
		slog.Error("confirm_failed", "error", err)
		return c.NoContent(http.StatusInternalServerError)
	}
}
