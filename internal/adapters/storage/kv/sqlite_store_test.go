package kv

import (
	"context"
	"errors"
	"testing"
	"time"

	"treasurecove/internal/adapters/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.MemoryPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	s := NewSQLiteStore(db)
	s.now = func() time.Time { return time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestSQLiteStore_PutGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "treasureCove_users", []byte(`[1,2]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	e, err := s.Get(ctx, "treasureCove_users")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(e.Value) != "[1,2]" {
		t.Errorf("value = %s", e.Value)
	}
	if !e.UpdatedAt.Equal(time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("updated_at = %v", e.UpdatedAt)
	}

	if err := s.Put(ctx, "treasureCove_users", []byte(`[3]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	e, _ = s.Get(ctx, "treasureCove_users")
	if string(e.Value) != "[3]" {
		t.Errorf("overwrite value = %s", e.Value)
	}
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_PutManyIsAtomic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.PutMany(ctx, []Entry{
		{Key: "a", Value: []byte("1")},
		{Key: "", Value: []byte("bad")},
	})
	if err == nil {
		t.Fatal("expected error for empty key")
	}
	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("first write should have been rolled back, got %v", err)
	}
}
