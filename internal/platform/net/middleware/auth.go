package middleware

import (
	"net/http"

	pnet "leadpush/internal/platform/net"
)

// SessionPort is the seam the auth service implements
type SessionPort interface {
	// Verify returns an error when the request carries no valid session
	Verify(r *http.Request) error
}

// RequireSession rejects requests without a valid session cookie.
// A nil port disables the check, useful for tests
func RequireSession(p SessionPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			if err := p.Verify(r); err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
