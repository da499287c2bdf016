package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"recipeinbox/internal/model"
	"recipeinbox/internal/repository"
)

// SubmissionPostgres is a PostgreSQL implementation of repository.SubmissionRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type SubmissionPostgres struct {
	db *sql.DB
}

// NewSubmissionPostgres creates a new SubmissionPostgres repository.
func NewSubmissionPostgres(db *sql.DB) *SubmissionPostgres {
	return &SubmissionPostgres{db: db}
}

var _ repository.SubmissionRepository = (*SubmissionPostgres)(nil)

const uniqueViolationCode = "23505"

// classifyConflict maps a Postgres unique-violation error onto the repository
// sentinel for the violated constraint. Other errors pass through unchanged.
func classifyConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return err
	}
	switch pgErr.ConstraintName {
	case "submissions_slug_key":
		return fmt.Errorf("%w: %v", repository.ErrDuplicateSlug, err)
	case "submissions_content_hash_key":
		return fmt.Errorf("%w: %v", repository.ErrDuplicateContentHash, err)
	default:
		return err
	}
}

// ExistsBySlug checks for a stored submission with the given slug.
func (r *SubmissionPostgres) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM submissions WHERE slug = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, slug).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// FindByContentHash fetches a single submission by its content hash.
func (r *SubmissionPostgres) FindByContentHash(ctx context.Context, hash string) (*model.Submission, error) {
	const q = `
		SELECT id, slug, title, payload, status, content_hash, created_at
		FROM submissions
		WHERE content_hash = $1
	`
	sub, err := scanSubmission(r.db.QueryRowContext(ctx, q, hash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

// Create inserts a new submission row and returns the stored record.
func (r *SubmissionPostgres) Create(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	payload, err := json.Marshal(sub.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	const q = `
		INSERT INTO submissions (slug, title, payload, status, content_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	out := *sub
	row := r.db.QueryRowContext(ctx, q,
		sub.Slug,
		sub.Title,
		payload,
		sub.Status,
		sub.ContentHash,
	)
	if err := row.Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, classifyConflict(err)
	}
	return &out, nil
}

// ListByStatus returns submissions ordered newest first, most recent insert
// winning created_at ties.
func (r *SubmissionPostgres) ListByStatus(ctx context.Context, status model.Status, includePayload bool) ([]model.Submission, error) {
	q := `
		SELECT id, slug, title, status, content_hash, created_at
		FROM submissions
		WHERE status = $1
		ORDER BY created_at DESC, id DESC
	`
	if includePayload {
		q = `
		SELECT id, slug, title, payload, status, content_hash, created_at
		FROM submissions
		WHERE status = $1
		ORDER BY created_at DESC, id DESC
	`
	}

	rows, err := r.db.QueryContext(ctx, q, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Submission, 0)
	for rows.Next() {
		var (
			s   model.Submission
			err error
		)
		if includePayload {
			var raw []byte
			err = rows.Scan(&s.ID, &s.Slug, &s.Title, &raw, &s.Status, &s.ContentHash, &s.CreatedAt)
			if err == nil && len(raw) > 0 {
				err = json.Unmarshal(raw, &s.Payload)
			}
		} else {
			err = rows.Scan(&s.ID, &s.Slug, &s.Title, &s.Status, &s.ContentHash, &s.CreatedAt)
		}
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatus sets the lifecycle status of the submission with the given slug.
func (r *SubmissionPostgres) UpdateStatus(ctx context.Context, slug string, status model.Status) (bool, error) {
	const q = `UPDATE submissions SET status = $1 WHERE slug = $2`
	res, err := r.db.ExecContext(ctx, q, status, slug)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteBySlug removes a submission by slug.
func (r *SubmissionPostgres) DeleteBySlug(ctx context.Context, slug string) (bool, error) {
	const q = `DELETE FROM submissions WHERE slug = $1`
	res, err := r.db.ExecContext(ctx, q, slug)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteAll wipes the submissions table.
func (r *SubmissionPostgres) DeleteAll(ctx context.Context) (int64, error) {
	const q = `DELETE FROM submissions`
	res, err := r.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanSubmission(row *sql.Row) (*model.Submission, error) {
	var (
		s   model.Submission
		raw []byte
	)
	if err := row.Scan(&s.ID, &s.Slug, &s.Title, &raw, &s.Status, &s.ContentHash, &s.CreatedAt); err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
	}
	return &s, nil
}
