// Package http provides http transport for contacts and pulled zips
package http

import (
	stdhttp "net/http"

	perr "leadpush/internal/platform/errors"
	phttp "leadpush/internal/platform/net/http"
	"leadpush/internal/services/contacts/domain"
)

// Options configures the contacts transport
type Options struct {
	// DefaultLocationID is attached to pulled zip records
	DefaultLocationID string
}

// PulledZipInput is the request body for recording a pulled zip
type PulledZipInput struct {
	ClientContactID string `json:"client_contact_id" validate:"required"`
	Zip             string `json:"zip" validate:"required"`
}

// Register mounts contacts endpoints on the given router
func Register(r phttp.Router, contacts domain.ContactsPort, zips domain.PulledZipsPort, opt Options) {
	h := &handlers{contacts: contacts, zips: zips, opt: opt}

	r.Get("/contacts", phttp.JSONHandlerNoBody(h.list))
	r.Get("/pulled-zips", phttp.JSONHandlerNoBody(h.listZips))
	r.Post("/pulled-zips", phttp.JSONHandler(h.recordZip))
}

type handlers struct {
	contacts domain.ContactsPort
	zips     domain.PulledZipsPort
	opt      Options
}

// @Summary List distinct client contacts
// @Tags Contacts
// @Produce json
// @Success 200 {object} map[string]any "ok"
// @Router /contacts [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	contacts, err := h.contacts.List(r.Context())
	if err != nil {
		return nil, err
	}
	return map[string]any{"contacts": contacts}, nil
}

// @Summary List pulled zips for a contact
// @Tags Contacts
// @Produce json
// @Param client_contact_id query string true "Client contact id"
// @Success 200 {object} map[string]any "ok"
// @Router /pulled-zips [get]
func (h *handlers) listZips(r *stdhttp.Request) (any, error) {
	contactID := r.URL.Query().Get("client_contact_id")
	if contactID == "" {
		return nil, perr.Validationf("Missing client_contact_id")
	}
	zips, err := h.zips.Zips(r.Context(), contactID, h.opt.DefaultLocationID)
	if err != nil {
		return nil, err
	}
	if zips == nil {
		zips = []string{}
	}
	return map[string]any{"zips": zips}, nil
}

// @Summary Record a pulled zip for a contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param payload body PulledZipInput true "Pulled zip"
// @Success 200 {object} map[string]any "ok"
// @Router /pulled-zips [post]
func (h *handlers) recordZip(r *stdhttp.Request, in PulledZipInput) (any, error) {
	created, err := h.zips.Record(r.Context(), in.ClientContactID, h.opt.DefaultLocationID, in.Zip)
	if err != nil {
		return nil, err
	}
	out := map[string]any{"created": 0, "exists": true}
	if created {
		out["created"] = 1
		out["exists"] = false
	}
	return out, nil
}
