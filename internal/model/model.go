package model

// Package model contains domain models/data structures.
// Keep it minimal; no business logic here.

// Status is the lifecycle state of a submission. It starts as pending and
// moves to imported exactly once; it never reverts.
type Status string

const (
	StatusPending  Status = "pending"
	StatusImported Status = "imported"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusImported
}
