// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Zercerium/zero2prod/internal/config"
	"github.com/Zercerium/zero2prod/internal/i18n"
)

func setupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.Server.MaxBodySize)))
	e.Use(i18nMiddleware())
}

// requestLogger returns middleware that logs requests using slog.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				slog.LogAttrs(c.Request().Context(), slog.LevelError, "request", attrs...)
			} else {
				slog.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			}

			return nil
		},
	})
}

// i18nMiddleware sets the locale based on Accept-Language header.
func i18nMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acceptLang := c.Request().Header.Get("Accept-Language")
			lang := i18n.MatchLanguage(acceptLang)
			ctx := i18n.WithLocale(c.Request().Context(), lang)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
