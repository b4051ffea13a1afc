// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package templates renders the server-side HTML pages. Each page is an
// embedded html/template exposed as a templ.Component so handlers share
// one Render path.
package templates

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed pages/*.html
var pagesFS embed.FS

var pages = template.Must(template.ParseFS(pagesFS, "pages/*.html"))

// page wraps a named template and its data as a templ.Component.
func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}

// Home renders the landing page with the subscription form.
func Home() templ.Component {
	return page("home.html", nil)
}

// Login renders the login form. errorMessage is the verified flash
// message from a failed attempt, empty when there is none.
func Login(errorMessage string) templ.Component {
	return page("login.html", map[string]any{
		"Error": errorMessage,
	})
}

// Dashboard renders the admin landing page.
func Dashboard(username string) templ.Component {
	return page("dashboard.html", map[string]any{
		"Username": username,
	})
}

// Newsletter renders the issue submission form.
func Newsletter(flash string) templ.Component {
	return page("newsletter.html", map[string]any{
		"Flash": flash,
	})
}

// Password renders the change-password form.
func Password(flash string) templ.Component {
	return page("password.html", map[string]any{
		"Flash": flash,
	})
}
