package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// archiveFactories builds each backend that can run without external
// services. MySQL is exercised only through its shared SQL paths elsewhere;
// it needs a live server.
func archiveFactories(t *testing.T) map[string]func(t *testing.T) Archive {
	return map[string]func(t *testing.T) Archive{
		"memory": func(t *testing.T) Archive {
			return NewMemoryArchive()
		},
		"sqlite": func(t *testing.T) Archive {
			archive, err := NewSQLiteArchive(":memory:")
			if err != nil {
				t.Fatalf("failed to open sqlite archive: %v", err)
			}
			return archive
		},
	}
}

func sampleRecord(id string, createdAt time.Time) TurnRecord {
	return TurnRecord{
		ID:          id,
		Question:    "How should we cache session tokens?",
		Title:       "Session Token Caching",
		FinalAnswer: "Use a short-TTL in-process cache with revocation checks.",
		ResultJSON:  `{"winner":"` + id + `"}`,
		CreatedAt:   createdAt,
	}
}

func TestArchive_SaveAndGet(t *testing.T) {
	for name, factory := range archiveFactories(t) {
		t.Run(name, func(t *testing.T) {
			archive := factory(t)
			defer archive.Close()

			ctx := context.Background()
			want := sampleRecord("turn-001", time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))

			if err := archive.Save(ctx, want); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			got, err := archive.Get(ctx, "turn-001")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.Question != want.Question || got.Title != want.Title ||
				got.FinalAnswer != want.FinalAnswer || got.ResultJSON != want.ResultJSON {
				t.Errorf("round-trip mismatch:\ngot:  %+v\nwant: %+v", got, want)
			}
		})
	}
}

func TestArchive_GetMissing(t *testing.T) {
	for name, factory := range archiveFactories(t) {
		t.Run(name, func(t *testing.T) {
			archive := factory(t)
			defer archive.Close()

			if _, err := archive.Get(context.Background(), "no-such-turn"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestArchive_SaveOverwrites(t *testing.T) {
	for name, factory := range archiveFactories(t) {
		t.Run(name, func(t *testing.T) {
			archive := factory(t)
			defer archive.Close()

			ctx := context.Background()
			record := sampleRecord("turn-001", time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
			if err := archive.Save(ctx, record); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			record.FinalAnswer = "Revised answer."
			if err := archive.Save(ctx, record); err != nil {
				t.Fatalf("second Save failed: %v", err)
			}

			got, err := archive.Get(ctx, "turn-001")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.FinalAnswer != "Revised answer." {
				t.Errorf("expected overwritten answer, got %q", got.FinalAnswer)
			}

			records, err := archive.List(ctx, 10)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(records) != 1 {
				t.Errorf("expected 1 record after overwrite, got %d", len(records))
			}
		})
	}
}

func TestArchive_ListNewestFirst(t *testing.T) {
	for name, factory := range archiveFactories(t) {
		t.Run(name, func(t *testing.T) {
			archive := factory(t)
			defer archive.Close()

			ctx := context.Background()
			base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
			for i := 0; i < 5; i++ {
				record := sampleRecord(fmt.Sprintf("turn-%03d", i), base.Add(time.Duration(i)*time.Minute))
				if err := archive.Save(ctx, record); err != nil {
					t.Fatalf("Save failed: %v", err)
				}
			}

			records, err := archive.List(ctx, 3)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(records) != 3 {
				t.Fatalf("expected 3 records, got %d", len(records))
			}
			for i, wantID := range []string{"turn-004", "turn-003", "turn-002"} {
				if records[i].ID != wantID {
					t.Errorf("records[%d].ID = %q, want %q", i, records[i].ID, wantID)
				}
			}
		})
	}
}

func TestArchive_ListDefaultLimit(t *testing.T) {
	archive := NewMemoryArchive()
	defer archive.Close()

	ctx := context.Background()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		record := sampleRecord(fmt.Sprintf("turn-%03d", i), base.Add(time.Duration(i)*time.Minute))
		if err := archive.Save(ctx, record); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	records, err := archive.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != defaultListLimit {
		t.Errorf("expected default limit of %d records, got %d", defaultListLimit, len(records))
	}
}

func TestSQLiteArchive_Reopen(t *testing.T) {
	path := t.TempDir() + "/turns.db"

	archive, err := NewSQLiteArchive(path)
	if err != nil {
		t.Fatalf("failed to open sqlite archive: %v", err)
	}

	ctx := context.Background()
	record := sampleRecord("turn-001", time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	if err := archive.Save(ctx, record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := archive.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewSQLiteArchive(path)
	if err != nil {
		t.Fatalf("failed to reopen sqlite archive: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "turn-001")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got.FinalAnswer != record.FinalAnswer {
		t.Errorf("answer lost across reopen: got %q", got.FinalAnswer)
	}
}
