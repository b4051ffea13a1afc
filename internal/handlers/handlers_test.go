// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zercerium/zero2prod/internal/config"
	"github.com/Zercerium/zero2prod/internal/handlers"
	"github.com/Zercerium/zero2prod/internal/i18n"
	"github.com/Zercerium/zero2prod/internal/repository"
	"github.com/Zercerium/zero2prod/internal/services/auth"
	"github.com/Zercerium/zero2prod/internal/services/email"
	"github.com/Zercerium/zero2prod/internal/services/newsletter"
	"github.com/Zercerium/zero2prod/internal/services/session"
	"github.com/Zercerium/zero2prod/internal/services/subscription"
	"github.com/Zercerium/zero2prod/internal/testutil"
)

const testHashKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// testApp is a fully wired application against an in-memory database
// and a recording mail dispatcher.
type testApp struct {
	echo       *echo.Echo
	repo       *repository.Repository
	dispatcher *testutil.FakeDispatcher
	auth       *auth.Service
	sessions   *session.Manager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	require.NoError(t, i18n.Init())

	_, repo := testutil.NewTestDB(t)
	dispatcher := &testutil.FakeDispatcher{}
	emails := email.NewService(dispatcher, "http://localhost:8080")

	authService := auth.NewService(repo)
	subscriptionService := subscription.NewService(repo, emails)
	newsletterService := newsletter.NewService(repo, dispatcher)
	sessions, err := session.NewManager(&config.SessionConfig{
		CookieName: "session",
		MaxAge:     3600,
		HashKey:    testHashKey,
	}, false)
	require.NoError(t, err)

	e := echo.New()
	h := handlers.New()
	subs := handlers.NewSubscriptions(subscriptionService)
	news := handlers.NewNewsletters(authService, newsletterService)
	authH := handlers.NewAuth(authService, sessions)
	admin := handlers.NewAdmin(repo, authService, newsletterService, sessions)

	e.GET("/", h.Home)
	e.GET("/health_check", h.Health)
	e.POST("/subscriptions", subs.Subscribe)
	e.GET("/subscriptions/confirm", subs.Confirm)
	e.POST("/newsletters", news.Publish)
	e.GET("/login", authH.LoginForm)
	e.POST("/login", authH.Login)
	g := e.Group("/admin", admin.RequireSession)
	g.GET("/dashboard", admin.Dashboard)
	g.GET("/newsletters", admin.NewsletterForm)
	g.POST("/newsletters", admin.PublishNewsletter)
	g.GET("/password", admin.PasswordForm)
	g.POST("/password", admin.ChangePassword)
	g.POST("/logout", admin.Logout)

	return &testApp{
		echo:       e,
		repo:       repo,
		dispatcher: dispatcher,
		auth:       authService,
		sessions:   sessions,
	}
}

func (app *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.echo.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.echo.ServeHTTP(rec, req)
	return rec
}

// loginAs creates a user and returns the session cookie of a logged-in
// browser.
func (app *testApp) loginAs(t *testing.T, username, password string) []*http.Cookie {
	t.Helper()
	testutil.NewTestUser(t, app.repo, username, password)
	rec := app.postForm("/login", url.Values{
		"username": {username},
		"password": {password},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/dashboard", rec.Header().Get(echo.HeaderLocation))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/health_check")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHome(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/subscriptions")
}
