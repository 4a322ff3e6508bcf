// Package http provides http transport for auth
package http

import (
	stdhttp "net/http"

	phttp "leadpush/internal/platform/net/http"
	"leadpush/internal/platform/net/http/bind"
	svc "leadpush/internal/services/auth/service"
)

// LoginInput is the request body for login
type LoginInput struct {
	Password string `json:"password" validate:"required"`
}

// Register mounts auth endpoints on the given router
func Register(r phttp.Router, s *svc.Service) {
	h := &handlers{svc: s}

	r.Post("/auth/login", h.login)
	r.Post("/auth/logout", h.logout)
}

type handlers struct{ svc *svc.Service }

// @Summary Log in with the shared password
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body LoginInput true "Credentials"
// @Success 200 {object} map[string]any "ok"
// @Router /auth/login [post]
func (h *handlers) login(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	in, err := bind.ParseJSON[LoginInput](r)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	if err := h.svc.Login(w, in.Password); err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	phttp.RespondOK(w, r, map[string]any{"ok": true})
}

// @Summary Clear the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]any "ok"
// @Router /auth/logout [post]
func (h *handlers) logout(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	h.svc.Logout(w)
	phttp.RespondOK(w, r, map[string]any{"ok": true})
}
