// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package newsletter broadcasts an issue to all confirmed subscribers.
package newsletter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Zercerium/zero2prod/internal/domain"
	"github.com/Zercerium/zero2prod/internal/repository"
	"github.com/Zercerium/zero2prod/internal/services/email"
)

// Issue is one newsletter edition.
type Issue struct {
	Title string
	HTML  string
	Text  string
}

// Service delivers newsletter issues. Authorization happens at the
// boundary (session or Basic auth through the credential verifier);
// Publish itself only loads and delivers.
type Service struct {
	repo       *repository.Repository
	dispatcher email.Dispatcher
}

// NewService creates a new newsletter service.
func NewService(repo *repository.Repository, dispatcher email.Dispatcher) *Service {
	return &Service{repo: repo, dispatcher: dispatcher}
}

// Publish makes one send attempt per confirmed subscriber, in order.
// Stored emails are re-validated first: rows that predate stricter
// validation are skipped with a warning rather than blocking the rest
// of the list. A dispatch failure aborts the publish and names the
// failing recipient.
func (s *Service) Publish(ctx context.Context, issue Issue) error {
	stored, err := s.repo.ListConfirmedEmails(ctx)
	if err != nil {
		return fmt.Errorf("failed to load confirmed subscribers: %w", err)
	}

	delivered := 0
	for _, raw := range stored {
		addr, err := domain.ParseSubscriberEmail(raw)
		if err != nil {
			slog.Warn("skipping_confirmed_subscriber",
				"reason", "stored contact details are invalid",
				"error", err,
			)
			continue
		}

		if err := s.dispatcher.Send(ctx, addr.String(), issue.Title, issue.HTML, issue.Text); err != nil {
			return fmt.Errorf("failed to send newsletter issue to %s: %w", addr, err)
		}
		delivered++
	}

	slog.Info("newsletter_published",
		"title", issue.Title,
		"delivered", delivered,
		"skipped", len(stored)-delivered,
	)
	return nil
}
