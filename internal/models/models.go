// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package models contains the database row types.
package models

import (
	"time"
)

// Subscriber statuses. A subscriber starts as pending and is switched
// to confirmed exactly once; there is no transition out of confirmed.
const (
	StatusPendingConfirmation = "pending_confirmation"
	StatusConfirmed           = "confirmed"
)

// Subscriber is a row in the subscriptions table.
type Subscriber struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	SubscribedAt time.Time `db:"subscribed_at"`
	Status       string    `db:"status"`
}

// SubscriptionToken links an emailed confirmation token to a subscriber.
// The token string itself is the primary key.
type SubscriptionToken struct {
	SubscriptionToken string `db:"subscription_token"`
	SubscriberID      string `db:"subscriber_id"`
}

// User is an administrator account. PasswordHash is a PHC-format
// argon2id string; the plaintext password is never stored.
type User struct {
	UserID       string `db:"user_id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
}
