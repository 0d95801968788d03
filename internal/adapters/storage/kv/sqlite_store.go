package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"treasurecove/internal/adapters/storage"
)

const upsertEntry = "INSERT INTO kv_entry (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at"

// SQLiteStore implements Store using the kv_entry table.
type SQLiteStore struct {
	db  storage.SQLDB
	now func() time.Time
}

// NewSQLiteStore creates a new key-value store over a migrated database.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Get retrieves the value stored under key.
// PRE: key is non-empty
// POST: Returns the entry or ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, key string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT key, value, updated_at FROM kv_entry WHERE key = ?", key)
	e, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return e, err
}

// Put stores value under key, replacing any previous value.
// PRE: key is non-empty
// POST: Entry is persisted (insert or update)
func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	return s.PutMany(ctx, []Entry{{Key: key, Value: value}})
}

// PutMany stores every entry in one transaction.
// POST: Either all entries are persisted or none are
func (s *SQLiteStore) PutMany(ctx context.Context, entries []Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin kv write: %w", err)
	}
	defer tx.Rollback()

	stamp := s.now().UTC().Format(time.RFC3339Nano)
	for _, e := range entries {
		if e.Key == "" {
			return errors.New("kv key cannot be empty")
		}
		if _, err := tx.ExecContext(ctx, upsertEntry, e.Key, string(e.Value), stamp); err != nil {
			return fmt.Errorf("write %s: %w", e.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit kv write: %w", err)
	}
	return nil
}

func scanEntry(scan func(dest ...interface{}) error) (Entry, error) {
	var e Entry
	var value, updatedAt string
	if err := scan(&e.Key, &value, &updatedAt); err != nil {
		return Entry{}, err
	}
	e.Value = []byte(value)
	t, err := storage.ParseTime(updatedAt)
	if err != nil {
		return Entry{}, err
	}
	e.UpdatedAt = t
	return e, nil
}
