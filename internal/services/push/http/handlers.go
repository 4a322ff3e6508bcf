// Package http provides http transport for batch contact delivery
package http

import (
	stdhttp "net/http"

	phttp "leadpush/internal/platform/net/http"
	"leadpush/internal/services/push/domain"
)

// ChunkInput is the request body for one chunk run
type ChunkInput struct {
	Zip           string `json:"zip" validate:"required"`
	Amount        int    `json:"amount" validate:"omitempty,min=1"`
	Tag           string `json:"tag"`
	WindowSeconds int    `json:"windowSeconds" validate:"omitempty,min=5,max=120"`
}

// Register mounts push endpoints on the given router
func Register(r phttp.Router, runner domain.RunnerPort) {
	h := &handlers{runner: runner}

	r.Post("/chunk", phttp.JSONHandler(h.chunk))
}

type handlers struct{ runner domain.RunnerPort }

// @Summary Process one chunk of queued contacts for a zip
// @Tags Push
// @Accept json
// @Produce json
// @Param payload body ChunkInput true "Chunk request"
// @Success 200 {object} domain.ChunkResult "ok"
// @Router /push/chunk [post]
func (h *handlers) chunk(r *stdhttp.Request, in ChunkInput) (any, error) {
	return h.runner.Run(r.Context(), domain.ChunkParams{
		Zip:           in.Zip,
		Amount:        in.Amount,
		Tag:           in.Tag,
		WindowSeconds: in.WindowSeconds,
	})
}
