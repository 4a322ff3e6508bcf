// Package repo provides Postgres bindings for client contacts and pulled zips
package repo

import (
	"context"
	"fmt"
	"strings"

	"leadpush/internal/modkit/repokit"
	perr "leadpush/internal/platform/errors"
	"leadpush/internal/platform/store"
)

type (
	// PG is a Postgres binder for Repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// Repo is the storage surface the contacts service uses
type Repo interface {
	ListContacts(ctx context.Context) ([]ContactRow, error)
	PulledZipExists(ctx context.Context, clientContactID, locationID, zip string) (bool, error)
	ExistingPulledZips(ctx context.Context, clientContactID, locationID string, zips []string) ([]string, error)
	InsertPulledZips(ctx context.Context, clientContactID, locationID string, zips []string) (int, error)
	ListPulledZips(ctx context.Context, clientContactID, locationID string) ([]string, error)
}

// ContactRow is a raw jordan_contacts projection
type ContactRow struct {
	ContactID string
	FullName  string
	FirstName string
	LastName  string
}

// Compile-time assertion: queries implements Repo
var _ Repo = (*queries)(nil)

// NewPG returns a Postgres binder for Repo
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// ListContacts implements Repo
func (r *queries) ListContacts(ctx context.Context) ([]ContactRow, error) {
	const sql = `
		SELECT
			COALESCE(contact_id, ''),
			COALESCE(full_name, ''),
			COALESCE(first_name, ''),
			COALESCE(last_name, '')
		FROM jordan_contacts
	`
	rows, err := store.Many(ctx, r.q, func(row store.Row) (ContactRow, error) {
		var out ContactRow
		err := row.Scan(&out.ContactID, &out.FullName, &out.FirstName, &out.LastName)
		return out, err
	}, sql)
	if err != nil {
		return nil, perr.FromPostgres(err, "list contacts")
	}
	return rows, nil
}

// PulledZipExists implements Repo
func (r *queries) PulledZipExists(ctx context.Context, clientContactID, locationID, zip string) (bool, error) {
	const sql = `
		SELECT EXISTS (
			SELECT 1 FROM pulled_zips
			WHERE client_contact_id = $1 AND location_id = $2 AND zip = $3
		)
	`
	exists, err := store.Scalar[bool](ctx, r.q, sql, clientContactID, locationID, zip)
	if err != nil {
		return false, perr.FromPostgres(err, "pulled zip exists")
	}
	return exists, nil
}

// ExistingPulledZips implements Repo
func (r *queries) ExistingPulledZips(
	ctx context.Context,
	clientContactID, locationID string,
	zips []string,
) ([]string, error) {
	if len(zips) == 0 {
		return nil, nil
	}
	const sql = `
		SELECT zip FROM pulled_zips
		WHERE client_contact_id = $1 AND location_id = $2 AND zip = ANY($3)
	`
	rows, err := store.Many(ctx, r.q, func(row store.Row) (string, error) {
		var z string
		err := row.Scan(&z)
		return z, err
	}, sql, clientContactID, locationID, zips)
	if err != nil {
		return nil, perr.FromPostgres(err, "existing pulled zips")
	}
	return rows, nil
}

// ListPulledZips implements Repo
func (r *queries) ListPulledZips(ctx context.Context, clientContactID, locationID string) ([]string, error) {
	const sql = `
		SELECT zip FROM pulled_zips
		WHERE client_contact_id = $1 AND location_id = $2
		ORDER BY zip ASC
	`
	rows, err := store.Many(ctx, r.q, func(row store.Row) (string, error) {
		var z string
		err := row.Scan(&z)
		return z, err
	}, sql, clientContactID, locationID)
	if err != nil {
		return nil, perr.FromPostgres(err, "list pulled zips")
	}
	return rows, nil
}

// InsertPulledZips implements Repo
func (r *queries) InsertPulledZips(
	ctx context.Context,
	clientContactID, locationID string,
	zips []string,
) (int, error) {
	if len(zips) == 0 {
		return 0, nil
	}

	var b strings.Builder
	args := make([]any, 0, len(zips)+2)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	contact := arg(clientContactID)
	location := arg(locationID)
	b.WriteString(`INSERT INTO pulled_zips (client_contact_id, location_id, zip) VALUES `)
	for i, z := range zips {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "(%s, %s, %s)", contact, location, arg(z))
	}

	tag, err := r.q.Exec(ctx, b.String(), args...)
	if err != nil {
		return 0, perr.FromPostgres(err, "insert pulled zips")
	}
	return int(tag.RowsAffected()), nil
}
