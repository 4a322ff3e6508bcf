package domain

import "context"

// QueuePort reads and writes the contact queue
type QueuePort interface {
	// FetchPending returns up to limit never-processed rows for zip ordered by created_at,
	// starting at offset
	FetchPending(ctx context.Context, zip string, limit, offset int) ([]Row, error)

	// MarkSuccess stamps a row uploaded and clears any prior error
	MarkSuccess(ctx context.Context, id string) error

	// MarkError stamps a row processed with the failure message
	MarkError(ctx context.Context, id, message string) error

	// InsertBatch inserts rows in fixed-size batches and reports per-batch failures
	InsertBatch(ctx context.Context, rows []InsertRow) (InsertOutcome, error)

	// ExistingByZips returns dedupe projections for rows already queued under the given zips
	ExistingByZips(ctx context.Context, zips []string) ([]ExistingRow, error)
}
