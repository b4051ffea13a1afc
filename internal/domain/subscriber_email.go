// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

// SubscriberEmail is an email address that passed validation.
type SubscriberEmail struct {
	value string
}

// ParseSubscriberEmail validates a raw email string. The address must
// be a plain addr-spec; display names ("A <a@b.c>") are rejected so
// that exactly the stored string is usable as an RCPT TO argument.
func ParseSubscriberEmail(s string) (SubscriberEmail, error) {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || strings.ContainsAny(s, " \t") {
		return SubscriberEmail{}, &ValidationError{Reason: fmt.Sprintf("%q is not a valid subscriber email.", s)}
	}
	return SubscriberEmail{value: s}, nil
}

func (e SubscriberEmail) String() string {
	return e.value
}
