// Package gateway persists the application state as one versioned JSON
// document per collection in the key-value store.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"treasurecove/internal/adapters/perf"
	"treasurecove/internal/adapters/storage/kv"
	"treasurecove/internal/domain/state"
)

// SchemaVersion tags every document written by this build.
const SchemaVersion = 1

// Collection names, appended to the configured key prefix.
const (
	CollectionUsers      = "users"
	CollectionLifeguards = "lifeguards"
	CollectionAudits     = "audits"
	CollectionActivity   = "activityLog"
	CollectionMeta       = "meta"
)

// Errors reported through logs and returned to callers that want them.
var (
	ErrCorrupt       = errors.New("stored value is corrupt")
	ErrNewerSchema   = errors.New("stored value has a newer schema version")
	ErrUnknownFormat = errors.New("stored value has an unknown format")
)

type envelope struct {
	SchemaVersion int             `json:"schema_version"`
	SavedAt       time.Time       `json:"saved_at"`
	Data          json.RawMessage `json:"data"`
}

type meta struct {
	Sequences state.Sequences `json:"sequences"`
}

// Options configures a Gateway.
type Options struct {
	KeyPrefix  string
	BcryptCost int // used when importing unhashed passwords
	Collector  *perf.Collector
	Now        func() time.Time
}

// Gateway loads and saves the named collections.
type Gateway struct {
	store     kv.Store
	prefix    string
	cost      int
	collector *perf.Collector
	now       func() time.Time
}

// New creates a gateway over store.
func New(store kv.Store, opts Options) *Gateway {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Gateway{
		store:     store,
		prefix:    opts.KeyPrefix,
		cost:      opts.BcryptCost,
		collector: opts.Collector,
		now:       now,
	}
}

// Key returns the namespaced store key for a collection.
func (g *Gateway) Key(collection string) string {
	return g.prefix + collection
}

// Load decodes the stored value for collection into dst. It reports false and
// leaves dst untouched when nothing usable is stored; the cause is logged.
// PRE: dst is a non-nil pointer to the collection's slice type or meta
// POST: Returns true only when dst holds the stored value
func (g *Gateway) Load(ctx context.Context, collection string, dst any) bool {
	start := time.Now()
	err := g.load(ctx, collection, dst)
	g.collector.Time(perf.KindQuery, "gateway.load."+collection, start, err)
	switch {
	case err == nil:
		return true
	case errors.Is(err, kv.ErrNotFound):
		slog.Debug("store_event", "event", "collection_missing", "key", g.Key(collection))
	default:
		slog.Error("persistence_failed", "op", "load", "key", g.Key(collection), "error", err)
	}
	return false
}

func (g *Gateway) load(ctx context.Context, collection string, dst any) error {
	entry, err := g.store.Get(ctx, g.Key(collection))
	if err != nil {
		return err
	}
	raw := bytes.TrimSpace(entry.Value)
	if len(raw) == 0 {
		return ErrCorrupt
	}

	switch raw[0] {
	case '[':
		return importLegacy(collection, raw, dst, g.cost)
	case '{':
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if env.SchemaVersion > SchemaVersion {
			return fmt.Errorf("%w: %d > %d", ErrNewerSchema, env.SchemaVersion, SchemaVersion)
		}
		if env.SchemaVersion < 1 || len(env.Data) == 0 {
			return ErrUnknownFormat
		}
		if err := decodeInto(env.Data, dst); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return nil
	}
	return ErrUnknownFormat
}

// decodeInto unmarshals into a scratch value first so dst is only replaced
// when the whole document decodes.
func decodeInto(data []byte, dst any) error {
	switch d := dst.(type) {
	case *meta:
		var v meta
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*d = v
		return nil
	default:
		return unmarshalCollection(data, dst)
	}
}

func (g *Gateway) encode(collection string, v any) (kv.Entry, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return kv.Entry{}, fmt.Errorf("encode %s: %w", collection, err)
	}
	doc, err := json.Marshal(envelope{SchemaVersion: SchemaVersion, SavedAt: g.now().UTC(), Data: data})
	if err != nil {
		return kv.Entry{}, fmt.Errorf("encode %s: %w", collection, err)
	}
	return kv.Entry{Key: g.Key(collection), Value: doc}, nil
}

// Save writes one collection. Failures are logged here; callers may ignore the
// returned error.
func (g *Gateway) Save(ctx context.Context, collection string, v any) error {
	start := time.Now()
	entry, err := g.encode(collection, v)
	if err == nil {
		err = g.store.Put(ctx, entry.Key, entry.Value)
	}
	g.collector.Time(perf.KindQuery, "gateway.save."+collection, start, err)
	if err != nil {
		slog.Error("persistence_failed", "op", "save", "key", g.Key(collection), "error", err)
	}
	return err
}

// SaveAll writes every collection and the id sequences in one transaction.
// Failures are logged here; callers may ignore the returned error.
// POST: Either every collection is durable or none changed
func (g *Gateway) SaveAll(ctx context.Context, st *state.State) error {
	start := time.Now()
	err := g.saveAll(ctx, st)
	g.collector.Time(perf.KindFlush, "gateway.save_all", start, err)
	if err != nil {
		slog.Error("persistence_failed", "op", "save_all", "error", err)
	}
	return err
}

func (g *Gateway) saveAll(ctx context.Context, st *state.State) error {
	docs := []struct {
		name string
		v    any
	}{
		{CollectionUsers, nonNil(st.Users)},
		{CollectionLifeguards, nonNil(st.Lifeguards)},
		{CollectionAudits, nonNil(st.Audits)},
		{CollectionActivity, nonNil(st.Activity)},
		{CollectionMeta, meta{Sequences: st.Sequences}},
	}
	entries := make([]kv.Entry, 0, len(docs))
	for _, d := range docs {
		e, err := g.encode(d.name, d.v)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}
	return g.store.PutMany(ctx, entries)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// LoadAll reads every collection. Collections that are missing or unusable
// stay empty and are reported false.
func (g *Gateway) LoadAll(ctx context.Context) (state.State, state.Loaded) {
	var st state.State
	var loaded state.Loaded
	loaded.Users = g.Load(ctx, CollectionUsers, &st.Users)
	loaded.Lifeguards = g.Load(ctx, CollectionLifeguards, &st.Lifeguards)
	loaded.Audits = g.Load(ctx, CollectionAudits, &st.Audits)
	loaded.Activity = g.Load(ctx, CollectionActivity, &st.Activity)

	var m meta
	if g.Load(ctx, CollectionMeta, &m) {
		st.Sequences = m.Sequences
	}
	return st, loaded
}
