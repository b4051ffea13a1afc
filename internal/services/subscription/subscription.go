// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package subscription implements the subscriber lifecycle: registration
// with a pending status and the token-driven confirmation transition.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Zercerium/zero2prod/internal/domain"
	"github.com/Zercerium/zero2prod/internal/models"
	"github.com/Zercerium/zero2prod/internal/repository"
	"github.com/Zercerium/zero2prod/internal/services/email"
)

var (
	// ErrTokenNotFound is returned when a confirmation token was never
	// issued. Callers respond unauthorized; nothing is mutated.
	ErrTokenNotFound = errors.New("subscription token not found")

	// ErrSubscriberMissing is returned when a token points at a
	// subscriber row that no longer exists. With the cascade on the
	// tokens table this is a data-integrity fault, not a user error.
	ErrSubscriberMissing = errors.New("subscriber for token is missing")
)

// Service registers subscribers and confirms them by token.
type Service struct {
	repo   *repository.Repository
	emails *email.Service
}

// NewService creates a new subscription service.
func NewService(repo *repository.Repository, emails *email.Service) *Service {
	return &Service{repo: repo, emails: emails}
}

// Subscribe validates the input, stores a pending subscriber together
// with a fresh confirmation token in one transaction, and then makes a
// single attempt to email the confirmation link.
//
// The email send is deliberately outside the transaction: a dispatch
// failure leaves the committed rows in place and the subscriber can
// recover by resubmitting the form.
func (s *Service) Subscribe(ctx context.Context, emailAddr, name string) error {
	newSub, err := domain.ParseNewSubscriber(emailAddr, name)
	if err != nil {
		return err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire a database transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	subscriber := &models.Subscriber{
		ID:           uuid.NewString(),
		Email:        newSub.Email.String(),
		Name:         newSub.Name.String(),
		SubscribedAt: time.Now().UTC(),
		Status:       models.StatusPendingConfirmation,
	}
	if err := tx.CreateSubscriber(ctx, subscriber); err != nil {
		return fmt.Errorf("failed to insert new subscriber in the database: %w", err)
	}

	token, err := GenerateSubscriptionToken()
	if err != nil {
		return fmt.Errorf("failed to generate a subscription token: %w", err)
	}
	if err := tx.CreateSubscriptionToken(ctx, token, subscriber.ID); err != nil {
		return fmt.Errorf("failed to store the confirmation token for a new subscriber: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit SQL transaction to store a new subscriber: %w", err)
	}

	slog.Info("subscriber_registered",
		"subscriber_id", subscriber.ID,
		"email", subscriber.Email,
	)

	if err := s.emails.SendConfirmation(ctx, subscriber.Email, token); err != nil {
		// The subscriber and token rows stay committed.
		return fmt.Errorf("failed to send a confirmation email: %w", err)
	}

	return nil
}

// Confirm resolves an untrusted token and transitions the owning
// subscriber to confirmed. Re-confirming with the same valid token is
// safe: it rewrites the same status and has no further side effects.
func (s *Service) Confirm(ctx context.Context, token string) error {
	subscriberID, err := s.repo.GetSubscriberIDFromToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("failed to look up the subscription token: %w", err)
	}

	subscriber, err := s.repo.GetSubscriberByID(ctx, subscriberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Error("dangling_subscription_token",
				"subscriber_id", subscriberID,
			)
			return fmt.Errorf("%w: id %s", ErrSubscriberMissing, subscriberID)
		}
		return fmt.Errorf("failed to load subscriber %s: %w", subscriberID, err)
	}

	if err := s.repo.ConfirmSubscriber(ctx, subscriber.ID); err != nil {
		return fmt.Errorf("failed to mark subscriber %s as confirmed: %w", subscriber.ID, err)
	}

	slog.Info("subscriber_confirmed", "subscriber_id", subscriber.ID)
	return nil
}
