package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteArchive persists turn records in a single-file SQLite database.
//
// Suited to single-process deployments and local use with zero setup.
// WAL mode keeps reads concurrent with the single writer.
type SQLiteArchive struct {
	db *sql.DB
}

// NewSQLiteArchive opens (or creates) the database at path and migrates the
// schema. Pass ":memory:" for an ephemeral database.
func NewSQLiteArchive(path string) (*SQLiteArchive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}

	archive := &SQLiteArchive{db: db}
	if err := archive.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return archive, nil
}

func (s *SQLiteArchive) createTables(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS council_turns (
			id TEXT PRIMARY KEY,
			question TEXT NOT NULL,
			title TEXT NOT NULL,
			final_answer TEXT NOT NULL,
			result_json TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create council_turns table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS idx_turns_created_at ON council_turns(created_at)"); err != nil {
		return fmt.Errorf("failed to create idx_turns_created_at: %w", err)
	}
	return nil
}

// Save upserts the record by ID.
func (s *SQLiteArchive) Save(ctx context.Context, record TurnRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO council_turns (id, question, title, final_answer, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			question = excluded.question,
			title = excluded.title,
			final_answer = excluded.final_answer,
			result_json = excluded.result_json,
			created_at = excluded.created_at
	`
	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.Question, record.Title, record.FinalAnswer,
		record.ResultJSON, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save turn %s: %w", record.ID, err)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *SQLiteArchive) Get(ctx context.Context, id string) (TurnRecord, error) {
	query := `
		SELECT id, question, title, final_answer, result_json, created_at
		FROM council_turns WHERE id = ?
	`
	var record TurnRecord
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID, &record.Question, &record.Title, &record.FinalAnswer,
		&record.ResultJSON, &record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return TurnRecord{}, ErrNotFound
	}
	if err != nil {
		return TurnRecord{}, fmt.Errorf("failed to load turn %s: %w", id, err)
	}
	return record, nil
}

// List returns up to limit records, newest first.
func (s *SQLiteArchive) List(ctx context.Context, limit int) ([]TurnRecord, error) {
	limit = clampLimit(limit)

	query := `
		SELECT id, question, title, final_answer, result_json, created_at
		FROM council_turns
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	defer rows.Close()

	var out []TurnRecord
	for rows.Next() {
		var record TurnRecord
		if err := rows.Scan(&record.ID, &record.Question, &record.Title,
			&record.FinalAnswer, &record.ResultJSON, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn row: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate turn rows: %w", err)
	}
	return out, nil
}

// Close closes the database.
func (s *SQLiteArchive) Close() error {
	return s.db.Close()
}
