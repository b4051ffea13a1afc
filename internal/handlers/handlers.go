// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers contains all HTTP handlers.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Zercerium/zero2prod/internal/templates"
)

// Handlers serves the public pages.
type Handlers struct{}

// New creates a new Handlers instance.
func New() *Handlers {
	return &Handlers{}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// Home renders the home page with the subscription form.
func (h *Handlers) Home(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Home())
}
