// Package categories manages the purely local, ordered set of category
// names. The set is serialized as a single JSON blob under a fixed key,
// never validated against the remote store, and may drift from categories
// actually used in stored transactions.
package categories

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
)

// StorageKey is the fixed key the serialized category list lives under.
const StorageKey = "cashTrackerCategories"

// Defaults seed the set on first load.
var Defaults = []string{"Makan", "Jajan", "Aset", "Investasi", "Tagihan", "Hiburan", "Esensial"}

// KV is the local key-value blob the set persists into.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

type Store struct {
	kv KV

	mu    sync.Mutex
	names []string
}

// Load reads the persisted set once, seeding defaults when nothing (or
// nothing readable) is stored yet.
func Load(ctx context.Context, kv KV) (*Store, error) {
	s := &Store{kv: kv}

	raw, ok, err := kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	if ok {
		var names []string
		if err := json.Unmarshal([]byte(raw), &names); err == nil {
			s.names = names
			return s, nil
		}
		slog.WarnContext(ctx, "Stored category list unreadable, reseeding defaults", "key", StorageKey)
	}

	s.names = append([]string(nil), Defaults...)
	return s, nil
}

// List returns the set in insertion order.
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...)
}

// Add appends name unless it is empty after trimming or already present
// (exact match, case-sensitive), then persists the full set synchronously.
// It reports whether the set changed. Persistence failures are logged and
// never surfaced; the in-memory set is already updated.
func (s *Store) Add(ctx context.Context, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	s.mu.Lock()
	for _, existing := range s.names {
		if existing == name {
			s.mu.Unlock()
			return false
		}
	}
	s.names = append(s.names, name)
	snapshot := append([]string(nil), s.names...)
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	slog.InfoContext(ctx, "Category added", "category", name, "count", len(snapshot))
	return true
}

func (s *Store) persist(ctx context.Context, names []string) {
	raw, err := json.Marshal(names)
	if err != nil {
		slog.ErrorContext(ctx, "Serializing category list failed", "error", err)
		return
	}
	if err := s.kv.Set(ctx, StorageKey, string(raw)); err != nil {
		slog.ErrorContext(ctx, "Persisting category list failed", "key", StorageKey, "error", err)
	}
}
