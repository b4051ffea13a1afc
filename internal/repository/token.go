// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
)

// CreateSubscriptionToken stores a confirmation token for a subscriber
// inside the transaction. A subscriber may accumulate several tokens
// over repeated registration attempts.
func (t *Tx) CreateSubscriptionToken(ctx context.Context, token, subscriberID string) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO subscription_tokens (subscription_token, subscriber_id) VALUES (?, ?)`,
		token, subscriberID)
	return err
}

// GetSubscriberIDFromToken resolves a confirmation token to the owning
// subscriber identifier. Returns ErrNotFound for unknown tokens.
func (r *Repository) GetSubscriberIDFromToken(ctx context.Context, token string) (string, error) {
	var subscriberID string
	err := r.db.GetContext(ctx, &subscriberID,
		`SELECT subscriber_id FROM subscription_tokens WHERE subscription_token = ?`, token)
	if err != nil {
		return "", wrapError(err)
	}
	return subscriberID, nil
}
