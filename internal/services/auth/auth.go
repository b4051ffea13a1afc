// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth verifies admin credentials against stored password hashes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/Zercerium/zero2prod/internal/models"
	"github.com/Zercerium/zero2prod/internal/repository"
)

// ErrInvalidCredentials covers every credential failure: unknown
// username, wrong password, malformed stored hash. Callers must not be
// able to tell these apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash is verified against whenever no user row matches, so that
// the latency of "unknown username" is indistinguishable from "known
// username, wrong password". It is a hash of a throwaway password, not
// of any user input.
const dummyHash = "$argon2id$v=19$m=15000,t=2,p=1$" +
	"gZiV/M1gPc22ElAH/Jh1Hw$" +
	"CWOrkoo7oJBQ/iyh7uJ0LO2aLEfrHwTWllSAxT0zRno"

// Credentials is a username/password pair awaiting verification.
type Credentials struct {
	Username string
	Password string
}

// Service verifies credentials and manages admin passwords. Hash
// verification is memory-hard on purpose, so it runs in a bounded
// worker slot instead of freely on every request goroutine.
type Service struct {
	repo    *repository.Repository
	workers *semaphore.Weighted
}

// NewService creates a new credential verification service.
func NewService(repo *repository.Repository) *Service {
	return &Service{
		repo:    repo,
		workers: semaphore.NewWeighted(int64(max(1, runtime.GOMAXPROCS(0)))),
	}
}

// ValidateCredentials checks a username/password pair and returns the
// matched user id. Exactly one hash verification is performed on every
// call, whether or not the username exists. The same contract backs
// interactive login and newsletter-publish authorization.
func (s *Service) ValidateCredentials(ctx context.Context, creds Credentials) (string, error) {
	var userID string
	expectedHash := dummyHash

	user, err := s.repo.GetUserByUsername(ctx, creds.Username)
	switch {
	case err == nil:
		userID = user.UserID
		expectedHash = user.PasswordHash
	case errors.Is(err, repository.ErrNotFound):
		// Fall through to the dummy verification below.
	default:
		return "", fmt.Errorf("failed to retrieve stored credentials: %w", err)
	}

	if err := s.verifyOnWorker(ctx, creds.Password, expectedHash); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			slog.Warn("credentials_rejected", "username", creds.Username)
		}
		return "", err
	}

	if userID == "" {
		// Unreachable unless the candidate matches the dummy hash.
		slog.Warn("credentials_rejected", "username", creds.Username)
		return "", ErrInvalidCredentials
	}
	return userID, nil
}

// verifyOnWorker runs the hash verification inside a worker slot. A
// failure to obtain a slot (cancellation, shutdown) is a scheduling
// fault, reported distinctly from a credential failure.
func (s *Service) verifyOnWorker(ctx context.Context, candidate, expectedHash string) error {
	if err := s.workers.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("failed to schedule password verification: %w", err)
	}
	defer s.workers.Release(1)

	if err := VerifyPassword(candidate, expectedHash); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	return nil
}

// ChangePassword replaces the stored hash for a user. The caller is
// responsible for having re-verified the current password first.
func (s *Service) ChangePassword(ctx context.Context, userID, newPassword string) error {
	hash, err := HashPassword(DefaultArgon2Params, newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.repo.UpdateUserPassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	slog.Info("password_changed", "user_id", userID)
	return nil
}

// SeedAdmin creates the deployment admin account when the users table
// is empty. Subsequent starts are a no-op.
func (s *Service) SeedAdmin(ctx context.Context, username, password string) error {
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword(DefaultArgon2Params, password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	user := &models.User{
		UserID:       uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	slog.Info("admin_seeded", "user_id", user.UserID, "username", username)
	return nil
}
