// Package service implements the contacts service
package service

import (
	"context"
	"regexp"
	"sort"
	"strings"

	perr "leadpush/internal/platform/errors"
	"leadpush/internal/services/contacts/domain"
	"leadpush/internal/services/contacts/repo"
)

var zipRe = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// ValidZip reports whether zip looks like a 5 or 9 digit US zip
func ValidZip(zip string) bool { return zipRe.MatchString(zip) }

// Service implements domain.ContactsPort and domain.PulledZipsPort
type Service struct {
	Storage repo.Repo
}

// Compile-time assertions
var (
	_ domain.ContactsPort   = (*Service)(nil)
	_ domain.PulledZipsPort = (*Service)(nil)
)

// New constructs a contacts service
func New(storage repo.Repo) *Service {
	return &Service{Storage: storage}
}

// List implements domain.ContactsPort. Contacts are deduped by id and sorted
// by display label
func (s *Service) List(ctx context.Context) ([]domain.Contact, error) {
	rows, err := s.Storage.ListContacts(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	out := make([]domain.Contact, 0, len(rows))
	for _, r := range rows {
		if r.ContactID == "" {
			continue
		}
		if _, dup := seen[r.ContactID]; dup {
			continue
		}
		seen[r.ContactID] = struct{}{}

		label := strings.TrimSpace(r.FullName)
		if label == "" {
			label = strings.TrimSpace(strings.Join(nonEmpty(r.FirstName, r.LastName), " "))
		}
		if label == "" {
			label = r.ContactID
		}
		out = append(out, domain.Contact{ID: r.ContactID, Label: label})
	}

	// case-insensitive label order, raw label as tiebreak
	sort.Slice(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i].Label), strings.ToLower(out[j].Label)
		if li != lj {
			return li < lj
		}
		return out[i].Label < out[j].Label
	})
	return out, nil
}

// Record implements domain.PulledZipsPort
func (s *Service) Record(ctx context.Context, clientContactID, locationID, zip string) (bool, error) {
	if !ValidZip(zip) {
		return false, perr.InvalidArgf("Invalid zip format")
	}
	exists, err := s.Storage.PulledZipExists(ctx, clientContactID, locationID, zip)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if _, err := s.Storage.InsertPulledZips(ctx, clientContactID, locationID, []string{zip}); err != nil {
		return false, err
	}
	return true, nil
}

// EnsureAll implements domain.PulledZipsPort
func (s *Service) EnsureAll(ctx context.Context, clientContactID, locationID string, zips []string) (int, error) {
	uniq := make([]string, 0, len(zips))
	seen := map[string]struct{}{}
	for _, z := range zips {
		if !ValidZip(z) {
			continue
		}
		if _, dup := seen[z]; dup {
			continue
		}
		seen[z] = struct{}{}
		uniq = append(uniq, z)
	}
	if len(uniq) == 0 {
		return 0, nil
	}

	existing, err := s.Storage.ExistingPulledZips(ctx, clientContactID, locationID, uniq)
	if err != nil {
		return 0, err
	}
	have := map[string]struct{}{}
	for _, z := range existing {
		have[z] = struct{}{}
	}

	missing := make([]string, 0, len(uniq))
	for _, z := range uniq {
		if _, ok := have[z]; !ok {
			missing = append(missing, z)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}
	return s.Storage.InsertPulledZips(ctx, clientContactID, locationID, missing)
}

// Zips implements domain.PulledZipsPort
func (s *Service) Zips(ctx context.Context, clientContactID, locationID string) ([]string, error) {
	return s.Storage.ListPulledZips(ctx, clientContactID, locationID)
}

func nonEmpty(xs ...string) []string {
	out := xs[:0]
	for _, x := range xs {
		if x != "" {
			out = append(out, x)
		}
	}
	return out
}
