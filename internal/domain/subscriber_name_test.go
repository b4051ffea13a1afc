// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubscriberName(t *testing.T) {
	name, err := ParseSubscriberName("Ursula Le Guin")

	require.NoError(t, err)
	assert.Equal(t, "Ursula Le Guin", name.String())
}

func TestParseSubscriberName_256Graphemes(t *testing.T) {
	// "ё" occupies two bytes per grapheme, so byte length alone would
	// overcount.
	name, err := ParseSubscriberName(strings.Repeat("ё", 256))

	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("ё", 256), name.String())
}

func TestParseSubscriberName_TooLong(t *testing.T) {
	_, err := ParseSubscriberName(strings.Repeat("a", 257))

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestParseSubscriberName_Empty(t *testing.T) {
	_, err := ParseSubscriberName("")

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestParseSubscriberName_WhitespaceOnly(t *testing.T) {
	_, err := ParseSubscriberName(" \t\n ")

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestParseSubscriberName_ForbiddenCharacters(t *testing.T) {
	for _, c := range []string{"/", "(", ")", `"`, "<", ">", `\`, "{", "}"} {
		_, err := ParseSubscriberName("name" + c)

		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr, "character %q should be rejected", c)
	}
}
