// Package service implements password gate sessions for the internal tool
package service

import (
	"crypto/subtle"
	"net/http"
	"time"

	perr "leadpush/internal/platform/errors"
)

const (
	cookieName = "auth"
	cookieOK   = "1"
	sessionTTL = 7 * 24 * time.Hour
)

// Config for the auth service
type Config struct {
	// Password is the single shared password guarding the tool
	Password string

	// SecureCookies marks session cookies Secure; enable behind TLS
	SecureCookies bool
}

// Service issues and verifies the session cookie
type Service struct {
	cfg Config
}

// New constructs an auth service
func New(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// Login validates the password and sets the session cookie on success
func (s *Service) Login(w http.ResponseWriter, password string) error {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) != 1 {
		return perr.Unauthorizedf("Invalid password")
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    cookieOK,
		Path:     "/",
		MaxAge:   int(sessionTTL / time.Second),
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Logout clears the session cookie
func (s *Service) Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// Verify implements middleware.SessionPort
func (s *Service) Verify(r *http.Request) error {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value != cookieOK {
		return perr.Unauthorizedf("authentication required")
	}
	return nil
}
