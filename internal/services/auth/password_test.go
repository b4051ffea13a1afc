// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	phc, err := HashPassword(DefaultArgon2Params, "everythinghastostartsomewhere")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(phc, "$argon2id$v=19$m=15000,t=2,p=1$"))
}

func TestHashPassword_UniqueSalt(t *testing.T) {
	first, err := HashPassword(DefaultArgon2Params, "password")
	require.NoError(t, err)
	second, err := HashPassword(DefaultArgon2Params, "password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPassword(t *testing.T) {
	phc, err := HashPassword(DefaultArgon2Params, "correct horse battery staple")
	require.NoError(t, err)

	assert.NoError(t, VerifyPassword("correct horse battery staple", phc))
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	phc, err := HashPassword(DefaultArgon2Params, "correct horse battery staple")
	require.NoError(t, err)

	assert.ErrorIs(t, VerifyPassword("wrong password", phc), ErrPasswordMismatch)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		phc  string
	}{
		{"not a PHC string", "not-a-phc-string"},
		{"wrong algorithm", "$argon2i$v=19$m=8,t=1,p=1$c29tZXNhbHQ$aGFzaA"},
		{"unsupported version", "$argon2id$v=18$m=8,t=1,p=1$c29tZXNhbHQ$aGFzaA"},
		{"zero rounds", "$argon2id$v=19$m=8,t=0,p=1$c29tZXNhbHQ$aGFzaA"},
		{"zero parallelism", "$argon2id$v=19$m=8,t=1,p=0$c29tZXNhbHQ$aGFzaA"},
		{"empty salt", "$argon2id$v=19$m=8,t=1,p=1$$aGFzaA"},
		{"empty derived key", "$argon2id$v=19$m=8,t=1,p=1$c29tZXNhbHQ$"},
		{"salt not base64", "$argon2id$v=19$m=8,t=1,p=1$!!!$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPassword("password", tt.phc)

			assert.Error(t, err)
			assert.NotErrorIs(t, err, ErrPasswordMismatch)
		})
	}
}

func TestVerifyPassword_DummyHash(t *testing.T) {
	// The fallback hash must stay verifiable so unknown usernames cost
	// one real argon2 run.
	err := VerifyPassword("some candidate", dummyHash)

	assert.ErrorIs(t, err, ErrPasswordMismatch)
}
