package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"recipeinbox/internal/canonical"
	"recipeinbox/internal/model"
	"recipeinbox/internal/repository"
	"recipeinbox/internal/slug"
	"recipeinbox/internal/storage"
)

var (
	// ErrMissingPayload is returned when the unwrapped recipe has no title.
	ErrMissingPayload = errors.New("Missing recipe payload")
	// ErrNoIDs is returned when a batch operation receives an empty id list.
	ErrNoIDs = errors.New("No ids provided")
	// ErrConflict is returned when concurrent submissions exhaust the slug
	// retry budget. The request is safe to retry.
	ErrConflict = errors.New("submission conflict, retry")
	// ErrArchiveUnavailable is returned when export archiving is requested
	// but no object storage is configured.
	ErrArchiveUnavailable = errors.New("archive storage not configured")
)

// maxSlugRetries bounds the insert retry loop when concurrent submissions
// race for the same slug.
const maxSlugRetries = 3

// SubmitResult is the outcome of a successful intake.
type SubmitResult struct {
	Slug        string
	ContentHash string
	Duplicate   bool
}

// ArchiveResult describes an export snapshot written to object storage.
type ArchiveResult struct {
	Key string
	URL string
}

// IntakeService defines the use cases for recipe submissions: the intake
// pipeline plus the privileged review surface.
type IntakeService interface {
	// Submit runs the intake pipeline over a decoded request body: unwrap the
	// envelope, validate, resolve a unique slug, dedup by content hash, and
	// persist with status pending.
	Submit(ctx context.Context, body map[string]any) (*SubmitResult, error)

	// List returns submissions with the given status, newest first. An
	// unknown status defaults to pending.
	List(ctx context.Context, status model.Status, includePayload bool) ([]model.Submission, error)

	// MarkImported transitions each listed slug to imported, best effort.
	// Returns the number of rows actually updated.
	MarkImported(ctx context.Context, ids []string) (int, error)

	// Purge removes each listed slug from the store, best effort.
	// Returns the number of rows actually removed.
	Purge(ctx context.Context, ids []string) (int, error)

	// Wipe removes every submission and returns the count removed.
	Wipe(ctx context.Context) (int64, error)

	// ExportArchive serializes an export of the given status to object
	// storage and returns the object key plus a presigned download URL.
	ExportArchive(ctx context.Context, status model.Status) (*ArchiveResult, error)
}

// intakeService is a concrete implementation of IntakeService.
type intakeService struct {
	repo  repository.SubmissionRepository
	store storage.Storage
}

// NewIntakeService constructs a new IntakeService. store may be nil when no
// object storage is configured; ExportArchive then fails with
// ErrArchiveUnavailable.
func NewIntakeService(repo repository.SubmissionRepository, store storage.Storage) IntakeService {
	return &intakeService{repo: repo, store: store}
}

func (s *intakeService) Submit(ctx context.Context, body map[string]any) (*SubmitResult, error) {
	recipe := unwrapEnvelope(body)

	title, _ := recipe["title"].(string)
	if strings.TrimSpace(title) == "" {
		return nil, ErrMissingPayload
	}

	// Hash the recipe before the slug is injected, so the digest depends only
	// on what the client submitted.
	hash, err := canonical.ContentHash(title, recipe)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindByContentHash(ctx, hash); err == nil {
		return &SubmitResult{Slug: existing.Slug, ContentHash: hash, Duplicate: true}, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	desired := desiredIdentifier(recipe, title)

	// The existence check and the insert are separate store calls, so two
	// concurrent submissions can race for the same slug or hash. The table's
	// unique constraints are the source of truth: on a slug conflict the slug
	// is re-resolved and the insert retried, on a hash conflict the winner's
	// row is returned as a duplicate.
	for attempt := 0; attempt < maxSlugRetries; attempt++ {
		resolved, err := s.resolveSlug(ctx, desired)
		if err != nil {
			return nil, err
		}

		sub := &model.Submission{
			Slug:        resolved,
			Title:       title,
			Payload:     injectSlug(recipe, resolved),
			Status:      model.StatusPending,
			ContentHash: hash,
		}
		if _, err := s.repo.Create(ctx, sub); err != nil {
			if errors.Is(err, repository.ErrDuplicateContentHash) {
				existing, ferr := s.repo.FindByContentHash(ctx, hash)
				if ferr != nil {
					return nil, ferr
				}
				return &SubmitResult{Slug: existing.Slug, ContentHash: hash, Duplicate: true}, nil
			}
			if errors.Is(err, repository.ErrDuplicateSlug) {
				continue
			}
			return nil, err
		}
		return &SubmitResult{Slug: resolved, ContentHash: hash}, nil
	}
	return nil, ErrConflict
}

// resolveSlug normalizes the desired identifier and probes candidate,
// candidate-2, candidate-3, ... until one is free.
func (s *intakeService) resolveSlug(ctx context.Context, desired string) (string, error) {
	base := slug.Normalize(desired)
	candidate := base
	for n := 2; ; n++ {
		exists, err := s.repo.ExistsBySlug(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
}

func (s *intakeService) List(ctx context.Context, status model.Status, includePayload bool) ([]model.Submission, error) {
	if !status.Valid() {
		status = model.StatusPending
	}
	return s.repo.ListByStatus(ctx, status, includePayload)
}

func (s *intakeService) MarkImported(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}
	updated := 0
	for _, id := range ids {
		// Best effort: one store call per slug, a failed slug does not abort
		// the rest of the batch.
		changed, err := s.repo.UpdateStatus(ctx, id, model.StatusImported)
		if err != nil {
			continue
		}
		if changed {
			updated++
		}
	}
	return updated, nil
}

func (s *intakeService) Purge(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}
	removed := 0
	for _, id := range ids {
		ok, err := s.repo.DeleteBySlug(ctx, id)
		if err != nil {
			continue
		}
		if ok {
			removed++
		}
	}
	return removed, nil
}

func (s *intakeService) Wipe(ctx context.Context) (int64, error) {
	return s.repo.DeleteAll(ctx)
}

func (s *intakeService) ExportArchive(ctx context.Context, status model.Status) (*ArchiveResult, error) {
	if s.store == nil {
		return nil, ErrArchiveUnavailable
	}
	if !status.Valid() {
		status = model.StatusPending
	}

	items, err := s.repo.ListByStatus(ctx, status, true)
	if err != nil {
		return nil, err
	}

	snapshot := map[string]any{
		"generated_at": time.Now().UTC().Format(time.RFC3339),
		"status":       status,
		"count":        len(items),
		"submissions":  items,
	}
	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal export snapshot: %w", err)
	}

	key := fmt.Sprintf("exports/%s-%s.json", status, time.Now().UTC().Format("20060102T150405Z"))
	if _, err := s.store.Put(ctx, key, bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
	}); err != nil {
		return nil, fmt.Errorf("upload export snapshot: %w", err)
	}

	url, err := s.store.PresignGet(ctx, key, 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("presign export snapshot: %w", err)
	}
	return &ArchiveResult{Key: key, URL: url}, nil
}

// unwrapEnvelope returns the nested payload or recipe object if the body
// carries one, otherwise the body itself is the recipe.
func unwrapEnvelope(body map[string]any) map[string]any {
	if body == nil {
		return map[string]any{}
	}
	if inner, ok := body["payload"].(map[string]any); ok {
		return inner
	}
	if inner, ok := body["recipe"].(map[string]any); ok {
		return inner
	}
	return body
}

// desiredIdentifier picks the client-supplied id or recipe_id when present,
// falling back to the title.
func desiredIdentifier(recipe map[string]any, title string) string {
	if v, ok := recipe["id"].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	if v, ok := recipe["recipe_id"].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return title
}

// injectSlug returns a copy of the recipe with the resolved slug written into
// both id fields. The original map is left untouched.
func injectSlug(recipe map[string]any, resolved string) map[string]any {
	out := make(map[string]any, len(recipe)+2)
	for k, v := range recipe {
		out[k] = v
	}
	out["id"] = resolved
	out["recipe_id"] = resolved
	return out
}
