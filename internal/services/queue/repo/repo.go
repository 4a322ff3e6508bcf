// Package repo provides Postgres bindings for the contact queue
package repo

import (
	"context"
	"fmt"
	"strings"

	"leadpush/internal/modkit/repokit"
	perr "leadpush/internal/platform/errors"
	"leadpush/internal/platform/store"
	pstrings "leadpush/internal/platform/strings"
	"leadpush/internal/services/queue/domain"
)

// insertBatchSize caps rows per INSERT statement
const insertBatchSize = 1000

// errorMaxLen caps the stored failure message
const errorMaxLen = 2000

type (
	// PG is a Postgres binder for domain.QueuePort
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// Compile-time assertion: queries implements domain.QueuePort
var _ domain.QueuePort = (*queries)(nil)

// NewPG returns a Postgres binder for QueuePort
func NewPG() repokit.Binder[domain.QueuePort] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.QueuePort { return &queries{q: q} }

// FetchPending implements domain.QueuePort
func (r *queries) FetchPending(ctx context.Context, zip string, limit, offset int) ([]domain.Row, error) {
	zip = strings.TrimSpace(zip)

	const sql = `
		SELECT
			id,
			COALESCE(client_contact_id, ''),
			COALESCE(location_id, ''),
			COALESCE(first_name, ''),
			COALESCE(last_name, ''),
			COALESCE(full_name, ''),
			COALESCE(email1, ''),
			COALESCE(e164_phone, ''),
			COALESCE(wireless_choice, ''),
			COALESCE(address_street, ''),
			COALESCE(address_city, ''),
			COALESCE(address_state, ''),
			COALESCE(address_postal_code, ''),
			COALESCE(country, ''),
			COALESCE(zip, ''),
			COALESCE(uploaded, false),
			COALESCE(status, ''),
			created_at
		FROM contact_queue
		WHERE COALESCE(uploaded, false) = false
		  AND (address_postal_code = $1 OR zip = $1)
		  AND processed_at IS NULL
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := store.Many(ctx, r.q, scanRow, sql, zip, limit, offset)
	if err != nil {
		return nil, perr.FromPostgresf(err, "fetch pending zip=%s", zip)
	}
	return rows, nil
}

func scanRow(row store.Row) (domain.Row, error) {
	var out domain.Row
	err := row.Scan(
		&out.ID,
		&out.ClientContactID,
		&out.LocationID,
		&out.FirstName,
		&out.LastName,
		&out.FullName,
		&out.Email1,
		&out.E164Phone,
		&out.WirelessChoice,
		&out.AddressStreet,
		&out.AddressCity,
		&out.AddressState,
		&out.AddressPostal,
		&out.Country,
		&out.Zip,
		&out.Uploaded,
		&out.Status,
		&out.CreatedAt,
	)
	return out, err
}

// MarkSuccess implements domain.QueuePort
func (r *queries) MarkSuccess(ctx context.Context, id string) error {
	const sql = `
		UPDATE contact_queue
		SET uploaded = true, processed_at = now(), status = 'uploaded', error = NULL
		WHERE id = $1
	`
	if _, err := r.q.Exec(ctx, sql, id); err != nil {
		return perr.FromPostgresf(err, "mark success id=%s", id)
	}
	return nil
}

// MarkError implements domain.QueuePort
func (r *queries) MarkError(ctx context.Context, id, message string) error {
	const sql = `
		UPDATE contact_queue
		SET uploaded = false, processed_at = now(), status = 'error', error = $2
		WHERE id = $1
	`
	if _, err := r.q.Exec(ctx, sql, id, pstrings.Truncate(message, errorMaxLen)); err != nil {
		return perr.FromPostgresf(err, "mark error id=%s", id)
	}
	return nil
}

// InsertBatch implements domain.QueuePort
// Failed batches are recorded, not fatal, so one bad slice does not sink the whole upload
func (r *queries) InsertBatch(ctx context.Context, rows []domain.InsertRow) (domain.InsertOutcome, error) {
	out := domain.InsertOutcome{}
	if len(rows) == 0 {
		return out, nil
	}

	for i := 0; i < len(rows); i += insertBatchSize {
		end := i + insertBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		slice := rows[i:end]

		sql, args := buildInsert(slice)
		tag, err := r.q.Exec(ctx, sql, args...)
		if err != nil {
			out.Errors = append(out.Errors, domain.BatchError{
				BatchStart: i,
				Message:    perr.Root(perr.FromPostgres(err, "insert batch")).Error(),
			})
			continue
		}
		out.Inserted += int(tag.RowsAffected())
	}

	out.Failed = len(rows) - out.Inserted
	return out, nil
}

// buildInsert renders a multi-row INSERT for one slice
func buildInsert(rows []domain.InsertRow) (string, []any) {
	var b strings.Builder
	args := make([]any, 0, len(rows)*27)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	b.WriteString(`
		INSERT INTO contact_queue (
			client_contact_id, location_id, zip,
			first_name, last_name, full_name,
			email1, email2, email3,
			phone1, phone1_type, phone2, phone2_type, phone3, phone3_type,
			wireless_choice, e164_phone,
			property_address, address_street, address_city, address_state, address_postal_code,
			country, source, status, old_tag_3, raw_data
		) VALUES `)

	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		b.WriteString(strings.Join([]string{
			arg(row.ClientContactID),
			arg(row.LocationID),
			arg(pstrings.SQLNull(row.Zip)),
			arg(pstrings.SQLNull(row.FirstName)),
			arg(pstrings.SQLNull(row.LastName)),
			arg(pstrings.SQLNull(row.FullName)),
			arg(pstrings.SQLNull(row.Email1)),
			arg(pstrings.SQLNull(row.Email2)),
			arg(pstrings.SQLNull(row.Email3)),
			arg(pstrings.SQLNull(row.Phone1)),
			arg(pstrings.SQLNull(row.Phone1Type)),
			arg(pstrings.SQLNull(row.Phone2)),
			arg(pstrings.SQLNull(row.Phone2Type)),
			arg(pstrings.SQLNull(row.Phone3)),
			arg(pstrings.SQLNull(row.Phone3Type)),
			arg(pstrings.SQLNull(row.WirelessChoice)),
			arg(pstrings.SQLNull(row.E164Phone)),
			arg(pstrings.SQLNull(row.PropertyAddress)),
			arg(pstrings.SQLNull(row.AddressStreet)),
			arg(pstrings.SQLNull(row.AddressCity)),
			arg(pstrings.SQLNull(row.AddressState)),
			arg(pstrings.SQLNull(row.AddressPostal)),
			arg(row.Country),
			arg(row.Source),
			arg(row.Status),
			arg(row.OldTag3),
			arg(row.RawData),
		}, ", "))
		b.WriteString(")")
	}

	return b.String(), args
}

// ExistingByZips implements domain.QueuePort
func (r *queries) ExistingByZips(ctx context.Context, zips []string) ([]domain.ExistingRow, error) {
	if len(zips) == 0 {
		return nil, nil
	}

	const sql = `
		SELECT
			COALESCE(address_postal_code, ''),
			COALESCE(e164_phone, ''),
			COALESCE(property_address, '')
		FROM contact_queue
		WHERE address_postal_code = ANY($1)
	`

	rows, err := store.Many(ctx, r.q, func(row store.Row) (domain.ExistingRow, error) {
		var out domain.ExistingRow
		err := row.Scan(&out.AddressPostal, &out.E164Phone, &out.PropertyAddress)
		return out, err
	}, sql, zips)
	if err != nil {
		return nil, perr.FromPostgres(err, "existing by zips")
	}
	return rows, nil
}
