// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package session manages the signed admin session cookie and one-shot
// flash messages.
package session

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/Zercerium/zero2prod/internal/config"
)

const userIDKey = "user_id"

// Manager signs (and optionally encrypts) the session and flash
// cookies. Tampered cookies fail decoding and are treated as absent,
// so a forged flash can never inject content into a page.
type Manager struct {
	sc         *securecookie.SecureCookie
	cookieName string
	flashName  string
	maxAge     int
	secure     bool
}

// NewManager creates a session manager from the configured keys. The
// hash key is required and must be 32 bytes hex-encoded; the block key
// is optional and enables cookie value encryption.
func NewManager(cfg *config.SessionConfig, secure bool) (*Manager, error) {
	hashKey, err := hex.DecodeString(cfg.HashKey)
	if err != nil {
		return nil, fmt.Errorf("invalid session hash key: %w", err)
	}
	if len(hashKey) != 32 {
		return nil, fmt.Errorf("invalid session hash key: expected 32 bytes, got %d", len(hashKey))
	}

	var blockKey []byte
	if cfg.BlockKey != "" {
		blockKey, err = hex.DecodeString(cfg.BlockKey)
		if err != nil {
			return nil, fmt.Errorf("invalid session block key: %w", err)
		}
		if len(blockKey) != 32 {
			return nil, fmt.Errorf("invalid session block key: expected 32 bytes, got %d", len(blockKey))
		}
	}

	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(cfg.MaxAge)

	return &Manager{
		sc:         sc,
		cookieName: cfg.CookieName,
		flashName:  cfg.CookieName + "_flash",
		maxAge:     cfg.MaxAge,
		secure:     secure,
	}, nil
}

// Login writes a fresh session cookie for the given user. Issuing a
// new cookie value on every login prevents session fixation.
func (m *Manager) Login(w http.ResponseWriter, userID string) error {
	encoded, err := m.sc.Encode(m.cookieName, map[string]string{userIDKey: userID})
	if err != nil {
		return fmt.Errorf("failed to encode session cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   m.maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// UserID extracts the authenticated user id from the request, if any.
func (m *Manager) UserID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return "", false
	}
	values := map[string]string{}
	if err := m.sc.Decode(m.cookieName, cookie.Value, &values); err != nil {
		return "", false
	}
	id, ok := values[userIDKey]
	return id, ok && id != ""
}

// Logout destroys the session cookie.
func (m *Manager) Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Flash stores a one-shot message for the next page render.
func (m *Manager) Flash(w http.ResponseWriter, message string) error {
	encoded, err := m.sc.Encode(m.flashName, message)
	if err != nil {
		return fmt.Errorf("failed to encode flash cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.flashName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// PopFlash returns the pending flash message, if any, and clears it.
// Messages that fail signature verification are dropped silently.
func (m *Manager) PopFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(m.flashName)
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.flashName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	var message string
	if err := m.sc.Decode(m.flashName, cookie.Value, &message); err != nil {
		return ""
	}
	return message
}
