package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryArchive is an in-memory Archive for testing and ephemeral runs.
// Records are lost when the process exits.
type MemoryArchive struct {
	mu      sync.RWMutex
	records map[string]TurnRecord
}

// NewMemoryArchive creates an empty in-memory archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{
		records: make(map[string]TurnRecord),
	}
}

// Save stores the record, overwriting any existing record with the same ID.
func (m *MemoryArchive) Save(ctx context.Context, record TurnRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = record
	return nil
}

// Get retrieves a record by ID.
func (m *MemoryArchive) Get(ctx context.Context, id string) (TurnRecord, error) {
	if err := ctx.Err(); err != nil {
		return TurnRecord{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return TurnRecord{}, ErrNotFound
	}
	return record, nil
}

// List returns up to limit records, newest first.
func (m *MemoryArchive) List(ctx context.Context, limit int) ([]TurnRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = clampLimit(limit)

	m.mu.RLock()
	out := make([]TurnRecord, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, record)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op for the in-memory archive.
func (m *MemoryArchive) Close() error {
	return nil
}
