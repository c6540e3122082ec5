package entities

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned when a store is used before Init succeeded.
var ErrNotInitialized = errors.New("store not initialized")

// ErrNotFound is returned by updates and deletes aimed at a missing entity.
// Reads report absence as a nil result instead.
var ErrNotFound = errors.New("not found")

// DuplicateNameError reports a case-insensitive category name collision.
// Recoverable: the caller is expected to pick another name.
type DuplicateNameError struct {
	Name       string
	ExistingID string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("category name %q already in use (id: %s)", e.Name, e.ExistingID)
}

// CascadeError reports that a dependent-entity cleanup step failed during a
// composite delete. The aggregate operation did not complete cleanly and may
// be retried; the store is left in its pre-delete state.
type CascadeError struct {
	Op  string // e.g. "insight.delete", "category.delete"
	ID  string
	Err error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("%s %s: cascade failed: %v", e.Op, e.ID, e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }

// PartialPairError reports that the second edge of a bidirectional pair
// could not be written after the first succeeded. SurvivingID names the edge
// that was written; callers may retry the reverse edge or delete the stray.
type PartialPairError struct {
	SurvivingID string
	Err         error
}

func (e *PartialPairError) Error() string {
	return fmt.Sprintf("bidirectional pair half-written (surviving edge: %s): %v", e.SurvivingID, e.Err)
}

func (e *PartialPairError) Unwrap() error { return e.Err }
