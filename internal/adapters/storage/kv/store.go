package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no value is stored under a key.
var ErrNotFound = errors.New("kv entry not found")

// Entry is one stored value.
type Entry struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

// Store persists opaque values under string keys.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Put(ctx context.Context, key string, value []byte) error
	// PutMany writes every entry or none of them.
	PutMany(ctx context.Context, entries []Entry) error
}
