// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zercerium/zero2prod/internal/models"
)

func TestSubscribe(t *testing.T) {
	app := newTestApp(t)

	rec := app.postForm("/subscriptions", url.Values{
		"name":  {"Ursula Le Guin"},
		"email": {"ursula_le_guin@gmail.com"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	sub, err := app.repo.GetSubscriberByEmail(context.Background(), "ursula_le_guin@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "Ursula Le Guin", sub.Name)
	assert.Equal(t, models.StatusPendingConfirmation, sub.Status)

	require.Len(t, app.dispatcher.Sent(), 1)
}

func TestSubscribe_InvalidInput(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name string
		form url.Values
	}{
		{"missing email", url.Values{"name": {"Ursula Le Guin"}}},
		{"missing name", url.Values{"email": {"ursula@gmail.com"}}},
		{"malformed email", url.Values{"name": {"Ursula"}, "email": {"not-an-email"}}},
		{"forbidden name character", url.Values{"name": {"Ursula{"}, "email": {"ursula@gmail.com"}}},
	}

	for _, tc := range cases {
		rec := app.postForm("/subscriptions", tc.form)

		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.name)
		assert.Contains(t, rec.Body.String(), "message", tc.name)
	}

	assert.Empty(t, app.dispatcher.Sent())
}

func TestConfirm_FullLifecycle(t *testing.T) {
	app := newTestApp(t)
	rec := app.postForm("/subscriptions", url.Values{
		"name":  {"Ursula Le Guin"},
		"email": {"ursula_le_guin@gmail.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	link := confirmationLink(t, app.dispatcher.Sent()[0].TextBody)
	parsed, err := url.Parse(link)
	require.NoError(t, err)

	rec = app.get(parsed.Path + "?" + parsed.RawQuery)

	assert.Equal(t, http.StatusOK, rec.Code)

	sub, err := app.repo.GetSubscriberByEmail(context.Background(), "ursula_le_guin@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, sub.Status)
}

func TestSubscribeConfirmPublish_EndToEnd(t *testing.T) {
	app := newTestApp(t)

	rec := app.postForm("/subscriptions", url.Values{
		"name":  {"le guin"},
		"email": {"ursula_le_guin@gmail.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, app.dispatcher.Sent(), 1)

	link := confirmationLink(t, app.dispatcher.Sent()[0].TextBody)
	parsed, err := url.Parse(link)
	require.NoError(t, err)
	rec = app.get(parsed.Path + "?" + parsed.RawQuery)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := app.loginAs(t, "admin", "everythinghastostartsomewhere")
	rec = app.postForm("/admin/newsletters", url.Values{
		"title":        {"Newsletter title"},
		"content_html": {"<p>Newsletter body as HTML</p>"},
		"content_text": {"Newsletter body as plain text"},
	}, cookies...)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	// One confirmation email plus exactly one issue delivery.
	sent := app.dispatcher.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "ursula_le_guin@gmail.com", sent[1].To)
	assert.Equal(t, "Newsletter title", sent[1].Subject)
}

func TestConfirm_UnknownToken(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/subscriptions/confirm?subscription_token=neverissuedtokenvalue0000")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// confirmationLink extracts the confirmation URL from an email body.
func confirmationLink(t *testing.T, body string) string {
	t.Helper()
	idx := strings.Index(body, "http://")
	require.GreaterOrEqual(t, idx, 0, "no link in body %q", body)
	link := body[idx:]
	if end := strings.IndexAny(link, " \n\"<"); end >= 0 {
		link = link[:end]
	}
	return link
}
