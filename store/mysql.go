package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLArchive persists turn records in MySQL/MariaDB.
//
// Suited to shared deployments where several council instances archive into
// the same database. Uses connection pooling; credentials belong in the DSN,
// which should come from the environment rather than source code.
type MySQLArchive struct {
	db *sql.DB
}

// NewMySQLArchive opens a pooled connection for the given DSN and migrates
// the schema. DSN format follows go-sql-driver/mysql, e.g.
// "user:pass@tcp(localhost:3306)/council?parseTime=true".
func NewMySQLArchive(dsn string) (*MySQLArchive, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	archive := &MySQLArchive{db: db}
	if err := archive.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return archive, nil
}

func (m *MySQLArchive) createTables(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS council_turns (
			id VARCHAR(64) PRIMARY KEY,
			question TEXT NOT NULL,
			title VARCHAR(512) NOT NULL,
			final_answer MEDIUMTEXT NOT NULL,
			result_json JSON NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_turns_created_at (created_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci
	`
	if _, err := m.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create council_turns table: %w", err)
	}
	return nil
}

// Save upserts the record by ID.
func (m *MySQLArchive) Save(ctx context.Context, record TurnRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO council_turns (id, question, title, final_answer, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			question = VALUES(question),
			title = VALUES(title),
			final_answer = VALUES(final_answer),
			result_json = VALUES(result_json),
			created_at = VALUES(created_at)
	`
	_, err := m.db.ExecContext(ctx, query,
		record.ID, record.Question, record.Title, record.FinalAnswer,
		record.ResultJSON, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save turn %s: %w", record.ID, err)
	}
	return nil
}

// Get retrieves a record by ID.
func (m *MySQLArchive) Get(ctx context.Context, id string) (TurnRecord, error) {
	query := `
		SELECT id, question, title, final_answer, result_json, created_at
		FROM council_turns WHERE id = ?
	`
	var record TurnRecord
	err := m.db.QueryRowContext(ctx, query, id).Scan(
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
func (m *MySQLArchive) List(ctx context.Context, limit int) ([]TurnRecord, error) {
	limit = clampLimit(limit)

	query := `
		SELECT id, question, title, final_answer, result_json, created_at
		FROM council_turns
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := m.db.QueryContext(ctx, query, limit)
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

// Close closes the connection pool.
func (m *MySQLArchive) Close() error {
	return m.db.Close()
}
