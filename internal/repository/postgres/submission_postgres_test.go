package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipeinbox/internal/model"
	"recipeinbox/internal/repository"
)

func newMockRepo(t *testing.T) (*SubmissionPostgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSubmissionPostgres(db), mock
}

func TestSubmissionPostgres_ExistsBySlug(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("soup").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsBySlug(ctx, "soup")

	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionPostgres_FindByContentHash(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "slug", "title", "payload", "status", "content_hash", "created_at"}).
			AddRow(7, "soup", "Soup", []byte(`{"id":"soup","title":"Soup"}`), "pending", "abc123", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM submissions WHERE content_hash = ?").
			WithArgs("abc123").
			WillReturnRows(rows)

		sub, err := repo.FindByContentHash(ctx, "abc123")

		assert.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, "soup", sub.Slug)
		assert.Equal(t, "Soup", sub.Payload["title"])
		assert.Equal(t, model.StatusPending, sub.Status)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM submissions WHERE content_hash = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		sub, err := repo.FindByContentHash(ctx, "missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, sub)
	})
}

func TestSubmissionPostgres_Create(t *testing.T) {
	ctx := context.Background()

	sub := &model.Submission{
		Slug:        "soup",
		Title:       "Soup",
		Payload:     map[string]any{"id": "soup", "title": "Soup"},
		Status:      model.StatusPending,
		ContentHash: "abc123",
	}

	t.Run("success", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		now := time.Now().UTC()

		mock.ExpectQuery("INSERT INTO submissions").
			WithArgs(sub.Slug, sub.Title, sqlmock.AnyArg(), sub.Status, sub.ContentHash).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, now))

		stored, err := repo.Create(ctx, sub)

		assert.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, int64(1), stored.ID)
		assert.Equal(t, now, stored.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("slug conflict", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery("INSERT INTO submissions").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "submissions_slug_key"})

		stored, err := repo.Create(ctx, sub)

		assert.ErrorIs(t, err, repository.ErrDuplicateSlug)
		assert.Nil(t, stored)
	})

	t.Run("content hash conflict", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery("INSERT INTO submissions").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "submissions_content_hash_key"})

		stored, err := repo.Create(ctx, sub)

		assert.ErrorIs(t, err, repository.ErrDuplicateContentHash)
		assert.Nil(t, stored)
	})

	t.Run("other constraint passes through", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		pgErr := &pgconn.PgError{Code: "23514", ConstraintName: "submissions_status_check"}
		mock.ExpectQuery("INSERT INTO submissions").WillReturnError(pgErr)

		_, err := repo.Create(ctx, sub)

		assert.NotErrorIs(t, err, repository.ErrDuplicateSlug)
		assert.NotErrorIs(t, err, repository.ErrDuplicateContentHash)
	})
}

func TestSubmissionPostgres_ListByStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	t.Run("without payload", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "slug", "title", "status", "content_hash", "created_at"}).
			AddRow(2, "soup-2", "Soup", "pending", "def456", time.Now()).
			AddRow(1, "soup", "Soup", "pending", "abc123", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM submissions WHERE status = (.+) ORDER BY created_at DESC, id DESC").
			WithArgs(model.StatusPending).
			WillReturnRows(rows)

		items, err := repo.ListByStatus(ctx, model.StatusPending, false)

		assert.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "soup-2", items[0].Slug)
		assert.Nil(t, items[0].Payload)
	})

	t.Run("with payload", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "slug", "title", "payload", "status", "content_hash", "created_at"}).
			AddRow(1, "soup", "Soup", []byte(`{"title":"Soup"}`), "pending", "abc123", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM submissions WHERE status = (.+) ORDER BY created_at DESC, id DESC").
			WithArgs(model.StatusPending).
			WillReturnRows(rows)

		items, err := repo.ListByStatus(ctx, model.StatusPending, true)

		assert.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Soup", items[0].Payload["title"])
	})
}

func TestSubmissionPostgres_UpdateStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	t.Run("row updated", func(t *testing.T) {
		mock.ExpectExec("UPDATE submissions SET status = ?").
			WithArgs(model.StatusImported, "soup").
			WillReturnResult(sqlmock.NewResult(0, 1))

		changed, err := repo.UpdateStatus(ctx, "soup", model.StatusImported)

		assert.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("no matching row", func(t *testing.T) {
		mock.ExpectExec("UPDATE submissions SET status = ?").
			WithArgs(model.StatusImported, "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		changed, err := repo.UpdateStatus(ctx, "missing", model.StatusImported)

		assert.NoError(t, err)
		assert.False(t, changed)
	})
}

func TestSubmissionPostgres_DeleteBySlug(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM submissions WHERE slug = ?").
		WithArgs("soup").
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := repo.DeleteBySlug(ctx, "soup")

	assert.NoError(t, err)
	assert.True(t, removed)

	mock.ExpectExec("DELETE FROM submissions WHERE slug = ?").
		WithArgs("soup").
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err = repo.DeleteBySlug(ctx, "soup")

	assert.NoError(t, err)
	assert.False(t, removed)
}

func TestSubmissionPostgres_DeleteAll(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM submissions").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteAll(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
