// Package store persists completed council turns.
//
// The archive sits outside the core pipeline. The orchestrator never touches
// it; the CLI saves each finished turn so past answers can be listed and
// replayed into conversation history.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested turn ID does not exist.
var ErrNotFound = errors.New("not found")

// TurnRecord is an archived council turn.
type TurnRecord struct {
	// ID is the turn identifier assigned by the orchestrator.
	ID string

	// Question is the user question the council answered.
	Question string

	// Title is the finalizer's short summary title.
	Title string

	// FinalAnswer is the synthesized user-facing answer.
	FinalAnswer string

	// ResultJSON is the full serialized turn result, kept for replay and
	// debugging. Opaque to the archive.
	ResultJSON string

	// CreatedAt is when the record was saved.
	CreatedAt time.Time
}

// Archive provides persistence for completed turns.
//
// Implementations must be safe for concurrent use.
type Archive interface {
	// Save persists a turn record. Saving an existing ID overwrites it.
	Save(ctx context.Context, record TurnRecord) error

	// Get retrieves a turn by ID. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (TurnRecord, error)

	// List returns the most recent records, newest first, at most limit
	// entries. A limit below 1 defaults to 20.
	List(ctx context.Context, limit int) ([]TurnRecord, error)

	// Close releases any underlying resources.
	Close() error
}

const defaultListLimit = 20

func clampLimit(limit int) int {
	if limit < 1 {
		return defaultListLimit
	}
	return limit
}
