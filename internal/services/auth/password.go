// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2Params are the cost parameters baked into new password hashes.
type Argon2Params struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	KeyLen      uint32
}

// DefaultArgon2Params matches the cost of the seeded deployment hashes.
var DefaultArgon2Params = Argon2Params{Memory: 15000, Time: 2, Parallelism: 1, KeyLen: 32}

// ErrPasswordMismatch reports that a candidate password does not match
// the stored hash.
var ErrPasswordMismatch = errors.New("password does not match stored hash")

const saltLen = 16

// HashPassword derives an argon2id hash of plain and encodes it as a
// PHC string: $argon2id$v=19$m=...,t=...,p=...$<saltB64>$<keyB64>.
func HashPassword(p Argon2Params, plain string) (string, error) {
	if plain == "" {
		return "", errors.New("empty password")
	}
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(plain), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword checks a candidate password against a PHC-format
// argon2id hash. The comparison is constant time in the derived keys.
// Malformed hashes report an error, never a panic.
func VerifyPassword(candidate, phc string) error {
	params, salt, key, err := decodePHC(phc)
	if err != nil {
		return err
	}
	derived := argon2.IDKey([]byte(candidate), salt, params.Time, params.Memory, params.Parallelism, uint32(len(key)))
	if subtle.ConstantTimeCompare(derived, key) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// decodePHC parses a $argon2id$ PHC string into its parts.
func decodePHC(phc string) (Argon2Params, []byte, []byte, error) {
	parts := strings.Split(phc, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Argon2Params{}, nil, nil, fmt.Errorf("failed to parse hash in PHC string format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Argon2Params{}, nil, nil, fmt.Errorf("unsupported argon2 version in PHC string")
	}

	var p Argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Parallelism); err != nil {
		return Argon2Params{}, nil, nil, fmt.Errorf("failed to parse argon2 cost parameters: %w", err)
	}
	// argon2.IDKey panics on zero rounds or zero parallelism.
	if p.Time < 1 || p.Parallelism < 1 {
		return Argon2Params{}, nil, nil, fmt.Errorf("invalid argon2 cost parameters in PHC string")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Argon2Params{}, nil, nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return Argon2Params{}, nil, nil, fmt.Errorf("failed to decode derived key: %w", err)
	}
	// A zero-length derived key crashes the blake2b expansion.
	if len(salt) == 0 || len(key) == 0 {
		return Argon2Params{}, nil, nil, fmt.Errorf("empty salt or derived key in PHC string")
	}

	return p, salt, key, nil
}
