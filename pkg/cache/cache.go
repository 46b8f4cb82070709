// Package cache provides session-scoped memoization for upstream
// payloads. Tables never evict: a session is assumed short-lived, and
// payloads for a given key are treated as immutable for its duration.
package cache

import "sync"

// Table is a mutex-guarded key/value store. Writes are last-write-wins,
// which is safe because concurrent writers only ever store identical
// payloads for the same key.
type Table[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// NewTable creates an empty table.
func NewTable[K comparable, V any]() *Table[K, V] {
	return &Table[K, V]{entries: make(map[K]V)}
}

// Get returns the cached value for key, if present.
func (t *Table[K, V]) Get(key K) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	value, ok := t.entries[key]
	return value, ok
}

// Put stores a value under key.
func (t *Table[K, V]) Put(key K, value V) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[key] = value
}

// Contains reports whether key is cached.
func (t *Table[K, V]) Contains(key K) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.entries[key]
	return ok
}

// Len returns the number of cached entries.
func (t *Table[K, V]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
