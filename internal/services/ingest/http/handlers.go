// Package http provides http transport for CSV ingest
package http

import (
	"io"
	stdhttp "net/http"
	"strings"

	perr "leadpush/internal/platform/errors"
	phttp "leadpush/internal/platform/net/http"
	svc "leadpush/internal/services/ingest/service"
)

// maxUploadBytes caps the multipart form we are willing to buffer
const maxUploadBytes = 64 << 20

// Register mounts ingest endpoints on the given router
func Register(r phttp.Router, s *svc.Service) {
	h := &handlers{svc: s}

	r.Post("/upload", phttp.Handle(h.upload))
}

type handlers struct{ svc *svc.Service }

// @Summary Upload a CSV of leads into the contact queue
// @Tags Ingest
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param client_contact_id formData string true "Client contact id"
// @Param location_id formData string true "Location id"
// @Success 200 {object} service.Result "ok"
// @Router /upload [post]
func (h *handlers) upload(r *stdhttp.Request) phttp.Response {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return phttp.Error(perr.InvalidArgf("invalid multipart form: %v", err))
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return phttp.Error(perr.InvalidArgf("Missing CSV file"))
	}
	defer func() { _ = file.Close() }()

	clientContactID := strings.TrimSpace(r.FormValue("client_contact_id"))
	locationID := strings.TrimSpace(r.FormValue("location_id"))
	if clientContactID == "" || locationID == "" {
		return phttp.Error(perr.InvalidArgf("Both client_contact_id and location_id are required"))
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return phttp.Error(perr.InvalidArgf("unreadable CSV file: %v", err))
	}

	out, err := h.svc.Upload(r.Context(), data, clientContactID, locationID)
	if err != nil {
		return phttp.Error(err)
	}
	return phttp.OK(out)
}
