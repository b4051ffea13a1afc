// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package i18n_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/Zercerium/zero2prod/internal/i18n"
)

func TestInit(t *testing.T) {
	err := i18n.Init()
	require.NoError(t, err)
}

func TestT(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	assert.Equal(t, "Welcome!", i18n.T(ctx, "confirmation_email_subject"))
}

func TestT_German(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.German)

	result := i18n.T(ctx, "confirmation_email_subject")
	assert.NotEqual(t, "confirmation_email_subject", result)
	assert.NotEqual(t, "Welcome!", result)
}

func TestT_UnknownKey(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	result := i18n.T(ctx, "unknown_key_that_does_not_exist")
	assert.Equal(t, "unknown_key_that_does_not_exist", result)
}

func TestT_NoLocaleContext(t *testing.T) {
	require.NoError(t, i18n.Init())

	// Without WithLocale the bundle default (English) applies.
	assert.Equal(t, "Welcome!", i18n.T(context.Background(), "confirmation_email_subject"))
}

func TestTData_ConfirmationLink(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)
	link := "http://localhost:8080/subscriptions/confirm?subscription_token=abc"

	text := i18n.TData(ctx, "confirmation_email_text", map[string]any{"ConfirmationLink": link})
	html := i18n.TData(ctx, "confirmation_email_html", map[string]any{"ConfirmationLink": link})

	assert.Contains(t, text, link)
	assert.Contains(t, html, link)
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		expected       language.Tag
		acceptLanguage string
	}{
		{language.English, "en-US,en;q=0.9"},
		{language.German, "de-DE,de;q=0.9"},
		{language.German, "de-AT"},
		{language.English, "fr-FR"}, // fallback to English
		{language.English, ""},
	}

	for _, tt := range tests {
		tag := i18n.MatchLanguage(tt.acceptLanguage)
		// Compare base language, ignoring region
		assert.Equal(t, tt.expected.String()[:2], tag.String()[:2], "accept-language %q", tt.acceptLanguage)
	}
}
