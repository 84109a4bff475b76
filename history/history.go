// Package history persists sqlfill preferences and recently used templates
// in a SQLite file.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

const (
	// driverName is the database/sql driver registered by modernc.org/sqlite
	driverName = "sqlite"
	// DefaultBatchSize is returned by BatchSize when nothing was stored
	DefaultBatchSize = 1000
	// batchSizeKey is the settings key of the batch size preference
	batchSizeKey = "batch_size"
)

// ErrInvalidBatchSize is returned when a batch size below 1 is stored.
var ErrInvalidBatchSize = errors.New("history: batch size must be at least 1")

// schema is applied on every Open; statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS templates (
		id       TEXT PRIMARY KEY,
		body     TEXT NOT NULL UNIQUE,
		created_at INTEGER NOT NULL,
		used_at  INTEGER NOT NULL
	)`,
}

// Template is a stored template.
type Template struct {
	ID        string
	Body      string
	CreatedAt time.Time
	UsedAt    time.Time
}

// Store is a handle on a history database. A Store is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the history database at path. Use ":memory:" for a
// throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("history: failed to open %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writes.
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: failed to create schema: %w", err)
		}
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetBatchSize stores the preferred batch size.
func (s *Store) SetBatchSize(ctx context.Context, n int) error {
	if n < 1 {
		return ErrInvalidBatchSize
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		batchSizeKey, strconv.Itoa(n))
	if err != nil {
		return fmt.Errorf("history: failed to store batch size: %w", err)
	}
	return nil
}

// BatchSize returns the stored batch size, or DefaultBatchSize when none
// has been stored.
func (s *Store) BatchSize(ctx context.Context) (int, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, batchSizeKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultBatchSize, nil
	}
	if err != nil {
		return 0, fmt.Errorf("history: failed to read batch size: %w", err)
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return DefaultBatchSize, nil //nolint:nilerr // a corrupt value falls back to the default
	}
	return n, nil
}

// AddTemplate records body as used now and returns its id. Storing a body
// that already exists only refreshes its last-used time.
func (s *Store) AddTemplate(ctx context.Context, body string) (string, error) {
	if body == "" {
		return "", errors.New("history: template cannot be empty")
	}
	now := s.now().UnixNano()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("history: failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM templates WHERE body = ?`, body).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.NewString()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO templates (id, body, created_at, used_at) VALUES (?, ?, ?, ?)`,
			id, body, now, now); err != nil {
			return "", fmt.Errorf("history: failed to insert template: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("history: failed to look up template: %w", err)
	default:
		if _, err := tx.ExecContext(ctx, `UPDATE templates SET used_at = ? WHERE id = ?`, now, id); err != nil {
			return "", fmt.Errorf("history: failed to update template: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("history: failed to commit: %w", err)
	}
	return id, nil
}

// Templates returns up to limit templates, most recently used first.
// A limit below 1 returns every template.
func (s *Store) Templates(ctx context.Context, limit int) ([]Template, error) {
	query := `SELECT id, body, created_at, used_at FROM templates ORDER BY used_at DESC, created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: failed to list templates: %w", err)
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		var (
			t               Template
			created, usedAt int64
		)
		if err := rows.Scan(&t.ID, &t.Body, &created, &usedAt); err != nil {
			return nil, fmt.Errorf("history: failed to scan template: %w", err)
		}
		t.CreatedAt = time.Unix(0, created)
		t.UsedAt = time.Unix(0, usedAt)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: failed to list templates: %w", err)
	}
	return out, nil
}
