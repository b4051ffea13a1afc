// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zercerium/zero2prod/internal/models"
	"github.com/Zercerium/zero2prod/internal/testutil"
)

const issueJSON = `{
	"title": "Newsletter title",
	"content": {
		"html": "<p>Newsletter body as HTML</p>",
		"text": "Newsletter body as plain text"
	}
}`

func (app *testApp) postNewsletter(body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/newsletters", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	app.echo.ServeHTTP(rec, req)
	return rec
}

func basicAuth(username, password string) map[string]string {
	token := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return map[string]string{echo.HeaderAuthorization: "Basic " + token}
}

func TestPublishNewsletter(t *testing.T) {
	app := newTestApp(t)
	testutil.NewTestUser(t, app.repo, "admin", "everythinghastostartsomewhere")
	testutil.NewTestSubscriber(t, app.repo, "confirmed@gmail.com", "Confirmed", models.StatusConfirmed)
	testutil.NewTestSubscriber(t, app.repo, "pending@gmail.com", "Pending", models.StatusPendingConfirmation)

	rec := app.postNewsletter(issueJSON, basicAuth("admin", "everythinghastostartsomewhere"))

	assert.Equal(t, http.StatusOK, rec.Code)

	sent := app.dispatcher.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "confirmed@gmail.com", sent[0].To)
	assert.Equal(t, "Newsletter title", sent[0].Subject)
}

func TestPublishNewsletter_MissingAuthHeader(t *testing.T) {
	app := newTestApp(t)

	rec := app.postNewsletter(issueJSON, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `Basic realm="publish"`, rec.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestPublishNewsletter_WrongCredentials(t *testing.T) {
	app := newTestApp(t)
	testutil.NewTestUser(t, app.repo, "admin", "everythinghastostartsomewhere")

	rec := app.postNewsletter(issueJSON, basicAuth("admin", "wrong password"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `Basic realm="publish"`, rec.Header().Get(echo.HeaderWWWAuthenticate))
	assert.Empty(t, app.dispatcher.Sent())
}

func TestPublishNewsletter_UnknownUser(t *testing.T) {
	app := newTestApp(t)

	rec := app.postNewsletter(issueJSON, basicAuth("nobody", "whatever"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPublishNewsletter_InvalidBody(t *testing.T) {
	app := newTestApp(t)
	testutil.NewTestUser(t, app.repo, "admin", "everythinghastostartsomewhere")
	headers := basicAuth("admin", "everythinghastostartsomewhere")

	cases := []struct {
		name string
		body string
	}{
		{"missing title", `{"content": {"html": "<p>x</p>", "text": "x"}}`},
		{"missing content", `{"title": "Newsletter title"}`},
		{"missing text part", `{"title": "t", "content": {"html": "<p>x</p>"}}`},
		{"not json", `not json at all`},
	}

	for _, tc := range cases {
		rec := app.postNewsletter(tc.body, headers)

		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.name)
	}
}
