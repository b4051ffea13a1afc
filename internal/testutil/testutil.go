// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"

	"github.com/Zercerium/zero2prod/internal/database"
	"github.com/Zercerium/zero2prod/internal/models"
	"github.com/Zercerium/zero2prod/internal/repository"
	"github.com/Zercerium/zero2prod/internal/services/auth"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	require.NoError(t, database.RunMigrations(db.DB))
	repo := repository.New(db)
	return db, repo
}

// NewTestUser inserts a user with the given credentials and returns it.
func NewTestUser(t *testing.T, repo *repository.Repository, username, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(auth.DefaultArgon2Params, password)
	require.NoError(t, err)
	user := &models.User{
		UserID:       uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

// NewTestSubscriber inserts a subscriber with the given status and returns it.
func NewTestSubscriber(t *testing.T, repo *repository.Repository, email, name, status string) *models.Subscriber {
	t.Helper()
	ctx := context.Background()
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	sub := &models.Subscriber{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		SubscribedAt: time.Now().UTC(),
		Status:       status,
	}
	require.NoError(t, tx.CreateSubscriber(ctx, sub))
	require.NoError(t, tx.Commit())
	return sub
}

// SentMessage records a single dispatched email.
type SentMessage struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// FakeDispatcher records outgoing mail instead of sending it. It fails
// every Send call once FailWith is set.
type FakeDispatcher struct {
	mu       sync.Mutex
	Messages []SentMessage
	FailWith error
}

func (d *FakeDispatcher) Send(_ context.Context, to, subject, htmlBody, textBody string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailWith != nil {
		return d.FailWith
	}
	d.Messages = append(d.Messages, SentMessage{To: to, Subject: subject, HTMLBody: htmlBody, TextBody: textBody})
	return nil
}

// Sent returns a copy of the recorded messages.
func (d *FakeDispatcher) Sent() []SentMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]SentMessage(nil), d.Messages...)
}

// FailNext makes all subsequent Send calls fail with the given message.
func (d *FakeDispatcher) FailNext(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.FailWith = errors.New(msg)
}
