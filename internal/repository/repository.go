package repository

// Package repository contains data access layer abstractions.
// Implementations can live in subpackages (e.g., postgres) inside this directory.

import "errors"

// Errors returned by SubmissionRepository implementations. Unique-constraint
// conflicts are classified per column so the service layer can distinguish a
// slug race from a content-hash race without knowing driver details.
var (
	ErrNotFound             = errors.New("submission not found")
	ErrDuplicateSlug        = errors.New("slug already exists")
	ErrDuplicateContentHash = errors.New("content hash already exists")
)
