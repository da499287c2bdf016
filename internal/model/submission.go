package model

import "time"

// Submission represents one recipe submission awaiting review.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Submission struct {
	ID          int64          `json:"-"`
	Slug        string         `json:"id"`
	Title       string         `json:"title"`
	Payload     map[string]any `json:"payload,omitempty"`
	Status      Status         `json:"status"`
	ContentHash string         `json:"content_hash"`
	CreatedAt   time.Time      `json:"created_at"`
}
