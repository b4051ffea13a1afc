// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package domain holds the validated input types for subscribers.
package domain

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// MaxNameGraphemes is the upper bound on a subscriber name, counted in
// grapheme clusters rather than bytes or runes.
const MaxNameGraphemes = 256

var forbiddenNameCharacters = []rune{'/', '(', ')', '"', '<', '>', '\\', '{', '}'}

// SubscriberName is a display name that passed validation.
type SubscriberName struct {
	value string
}

// ParseSubscriberName validates a raw name string. The name must be
// non-empty after trimming, at most MaxNameGraphemes grapheme clusters
// long and free of characters usable for injection into HTML or paths.
func ParseSubscriberName(s string) (SubscriberName, error) {
	if strings.TrimSpace(s) == "" {
		return SubscriberName{}, &ValidationError{Reason: fmt.Sprintf("%q is not a valid subscriber name.", s)}
	}
	if uniseg.GraphemeClusterCount(s) > MaxNameGraphemes {
		return SubscriberName{}, &ValidationError{Reason: fmt.Sprintf("%q is not a valid subscriber name.", s)}
	}
	if strings.ContainsAny(s, string(forbiddenNameCharacters)) {
		return SubscriberName{}, &ValidationError{Reason: fmt.Sprintf("%q is not a valid subscriber name.", s)}
	}
	return SubscriberName{value: s}, nil
}

func (n SubscriberName) String() string {
	return n.value
}
