// Package sqlite provides a SQLite-backed store.Adapter.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spetersoncode/storebridge/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS slices (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// Adapter persists slice documents in a SQLite table.
type Adapter struct {
	mu     sync.RWMutex
	sqlDB  *sql.DB
	closed bool
}

var _ store.Adapter = (*Adapter)(nil)

// Open opens (or creates) a SQLite database at path. Use ":memory:" for a
// private in-memory database.
func Open(path string) (*Adapter, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := ":memory:"
	if path != ":memory:" {
		dsn = "file:" + filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection: an in-memory database lives per connection, and slice
	// writes are serialized by the store anyway.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure slices table: %w", err)
	}

	return &Adapter{sqlDB: sqlDB}, nil
}

// Get retrieves one slice document.
func (a *Adapter) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil, false, store.ErrAdapterClosed
	}

	var value []byte
	err := a.sqlDB.QueryRowContext(ctx, `SELECT value FROM slices WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get slice %s: %w", key, err)
	}
	return json.RawMessage(value), true, nil
}

// Put stores one slice document.
func (a *Adapter) Put(ctx context.Context, key string, value json.RawMessage) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return store.ErrAdapterClosed
	}
	if strings.TrimSpace(key) == "" {
		return store.ErrSliceKeyRequired
	}

	_, err := a.sqlDB.ExecContext(ctx,
		`INSERT INTO slices (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, []byte(value), time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("put slice %s: %w", key, err)
	}
	return nil
}

// Delete removes a slice document.
func (a *Adapter) Delete(ctx context.Context, key string) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return store.ErrAdapterClosed
	}
	if _, err := a.sqlDB.ExecContext(ctx, `DELETE FROM slices WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete slice %s: %w", key, err)
	}
	return nil
}

// Load retrieves every stored document.
func (a *Adapter) Load(ctx context.Context) (map[string]json.RawMessage, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil, store.ErrAdapterClosed
	}

	rows, err := a.sqlDB.QueryContext(ctx, `SELECT key, value FROM slices`)
	if err != nil {
		return nil, fmt.Errorf("load slices: %w", err)
	}
	defer rows.Close()

	result := make(map[string]json.RawMessage)
	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan slice: %w", err)
		}
		result[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load slices: %w", err)
	}
	return result, nil
}

// Save replaces all documents in one transaction.
func (a *Adapter) Save(ctx context.Context, data map[string]json.RawMessage) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return store.ErrAdapterClosed
	}

	tx, err := a.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM slices`); err != nil {
		return fmt.Errorf("clear slices: %w", err)
	}
	now := time.Now().UTC().UnixMilli()
	for key, value := range data {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO slices (key, value, updated_at) VALUES (?, ?, ?)`,
			key, []byte(value), now); err != nil {
			return fmt.Errorf("save slice %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	return a.sqlDB.Close()
}
