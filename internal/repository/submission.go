package repository

import (
	"context"

	"recipeinbox/internal/model"
)

// SubmissionRepository defines data access for submissions using SQL queries only.
// No business logic here — strictly persistence operations.
type SubmissionRepository interface {
	// ExistsBySlug reports whether a submission with the given slug is stored,
	// regardless of its status.
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// FindByContentHash returns the submission with the given content hash,
	// or ErrNotFound.
	FindByContentHash(ctx context.Context, hash string) (*model.Submission, error)

	// Create inserts a new submission row as a single atomic write.
	// Returns the stored submission including values set by the DB (row id,
	// created_at). Unique conflicts surface as ErrDuplicateSlug or
	// ErrDuplicateContentHash.
	Create(ctx context.Context, sub *model.Submission) (*model.Submission, error)

	// ListByStatus returns submissions with the given status ordered by
	// created_at descending, ties broken by row id descending. When
	// includePayload is false the Payload field is left nil.
	ListByStatus(ctx context.Context, status model.Status, includePayload bool) ([]model.Submission, error)

	// UpdateStatus sets the status of the submission with the given slug.
	// Returns true iff a matching row existed and was updated.
	UpdateStatus(ctx context.Context, slug string, status model.Status) (bool, error)

	// DeleteBySlug removes a submission. Returns true iff a row was removed.
	DeleteBySlug(ctx context.Context, slug string) (bool, error)

	// DeleteAll removes every submission and returns the number removed.
	DeleteAll(ctx context.Context) (int64, error)
}
