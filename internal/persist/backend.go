// Package persist is the durable key-value substrate behind the view state.
// Each key holds one versioned blob; typed access goes through Slot.
package persist

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by a Backend when no record exists for a key.
var ErrNotFound = errors.New("state not found")

// Record is one stored blob.
type Record struct {
	Key       string
	Version   int
	Data      []byte
	UpdatedAt time.Time
}

// Backend is the storage a Slot reads from and writes to.
type Backend interface {
	Get(key string) (*Record, error)
	Put(rec Record) error
	Delete(key string) error
}

// SQLiteBackend stores records in the view_state table.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend creates a new SQLiteBackend instance.
func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

// Get fetches the record stored under key.
func (b *SQLiteBackend) Get(key string) (*Record, error) {
	rec := Record{Key: key}
	err := b.db.QueryRow("SELECT version, data, updated_at FROM view_state WHERE key = ?", key).
		Scan(&rec.Version, &rec.Data, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read state %q: %w", key, err)
	}
	return &rec, nil
}

// Put inserts or replaces the record for rec.Key.
func (b *SQLiteBackend) Put(rec Record) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	query := `
		INSERT INTO view_state (key, version, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			version = excluded.version,
			data = excluded.data,
			updated_at = excluded.updated_at;
	`
	if _, err := b.db.Exec(query, rec.Key, rec.Version, rec.Data, rec.UpdatedAt); err != nil {
		return fmt.Errorf("failed to write state %q: %w", rec.Key, err)
	}
	return nil
}

// Delete removes the record for key. Deleting an absent key is not an error.
func (b *SQLiteBackend) Delete(key string) error {
	if _, err := b.db.Exec("DELETE FROM view_state WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete state %q: %w", key, err)
	}
	return nil
}
