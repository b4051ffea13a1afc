// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package subscription

import (
	"crypto/rand"
	"fmt"
)

// TokenLength is the number of characters in a confirmation token.
// 62^25 possible values make collisions a non-issue in practice.
const TokenLength = 25

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSubscriptionToken produces an unguessable alphanumeric token.
// Selection is uniform over the alphabet; bytes outside the largest
// multiple of 62 are rejected to avoid modulo bias.
func GenerateSubscriptionToken() (string, error) {
	const limit = byte(len(tokenAlphabet) * 4) // 248, largest multiple of 62 below 256

	token := make([]byte, 0, TokenLength)
	buf := make([]byte, TokenLength)
	for len(token) < TokenLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			token = append(token, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(token) == TokenLength {
				break
			}
		}
	}
	return string(token), nil
}
