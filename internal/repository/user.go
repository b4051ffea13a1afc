// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/Zercerium/zero2prod/internal/models"
)

// GetUserByUsername retrieves a user by exact username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE username = ?`, username)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUsername retrieves the username for a user id.
func (r *Repository) GetUsername(ctx context.Context, userID string) (string, error) {
	var username string
	err := r.db.GetContext(ctx, &username, `SELECT username FROM users WHERE user_id = ?`, userID)
	if err != nil {
		return "", wrapError(err)
	}
	return username, nil
}

// CreateUser inserts a new user.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (user_id, username, password_hash) VALUES (?, ?, ?)`,
		user.UserID, user.Username, user.PasswordHash)
	return err
}

// UpdateUserPassword replaces a user's stored password hash.
func (r *Repository) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE user_id = ?`, passwordHash, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUsers returns the total number of users.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, err
	}
	return count, nil
}
