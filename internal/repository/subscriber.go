// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/Zercerium/zero2prod/internal/models"
)

// CreateSubscriber inserts a new subscriber inside the transaction.
func (t *Tx) CreateSubscriber(ctx context.Context, sub *models.Subscriber) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO subscriptions (id, email, name, subscribed_at, status) VALUES (?, ?, ?, ?, ?)`,
		sub.ID, sub.Email, sub.Name, sub.SubscribedAt, sub.Status)
	return err
}

// GetSubscriberByID retrieves a subscriber by their identifier.
func (r *Repository) GetSubscriberByID(ctx context.Context, id string) (*models.Subscriber, error) {
	var sub models.Subscriber
	err := r.db.GetContext(ctx, &sub, `SELECT * FROM subscriptions WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &sub, nil
}

// GetSubscriberByEmail retrieves a subscriber by their email address.
func (r *Repository) GetSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	var sub models.Subscriber
	err := r.db.GetContext(ctx, &sub, `SELECT * FROM subscriptions WHERE email = ?`, email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &sub, nil
}

// ConfirmSubscriber sets a subscriber's status to confirmed. Updating
// an already confirmed subscriber rewrites the same value.
func (r *Repository) ConfirmSubscriber(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET status = ? WHERE id = ?`, models.StatusConfirmed, id)
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

// ListConfirmedEmails projects the email column of all confirmed
// subscribers. The stored strings are returned as-is; callers decide
// what to do with addresses that predate stricter validation.
func (r *Repository) ListConfirmedEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := r.db.SelectContext(ctx, &emails,
		`SELECT email FROM subscriptions WHERE status = ?`, models.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	return emails, nil
}
