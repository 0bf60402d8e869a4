package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/hskstudio/internal/progress"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// ProgressKey is the fixed document key the progress aggregate is stored
// under. The suffix is a schema version marker.
const ProgressKey = "hsk_intensive_studio_v1"

// DB wraps the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// LoadProgress reads the stored progress document and reconciles it
// against the default shape. A missing row or an unparseable document
// degrades to a fresh default aggregate; neither is an error for the
// caller. Only infrastructure failures (the database itself) propagate.
func (db *DB) LoadProgress() (*progress.Progress, error) {
	var value string
	row := db.conn.QueryRow(`SELECT value FROM documents WHERE key = ?`, ProgressKey)
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return progress.Defaults(), nil
		}
		return nil, fmt.Errorf("failed to load progress document: %w", err)
	}

	// MergeWithDefaults absorbs corrupt or stale-schema JSON; a document we
	// cannot use at all simply becomes the defaults.
	if !json.Valid([]byte(value)) {
		slog.Warn("Stored progress document is not valid JSON, starting fresh")
	}
	return progress.MergeWithDefaults([]byte(value)), nil
}

// SaveProgress serializes the aggregate and upserts it under the fixed key.
// Called after every mutation.
func (db *DB) SaveProgress(p *progress.Progress) error {
	value, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize progress: %w", err)
	}

	_, err = db.conn.Exec(`
		INSERT INTO documents (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, ProgressKey, string(value), time.Now())
	if err != nil {
		return fmt.Errorf("failed to save progress document: %w", err)
	}
	return nil
}

// ClearProgress removes the stored document. The next load starts from
// defaults.
func (db *DB) ClearProgress() error {
	if _, err := db.conn.Exec(`DELETE FROM documents WHERE key = ?`, ProgressKey); err != nil {
		return fmt.Errorf("failed to clear progress document: %w", err)
	}
	return nil
}
