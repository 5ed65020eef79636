// Package pacstore provides a bounded, TTL'd secondary cache of recently
// active PAC script bytes keyed by source URI. It sits alongside (not
// instead of) the engine's single-active PacState (§3): switching back and
// forth between a small set of PAC URLs doesn't force a re-download every
// time, while the invariant that only one PAC is "active" at a time still
// lives in the engine.
package pacstore

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultMaxEntries = 8
	defaultTTL        = 10 * time.Minute
)

// Store caches PAC bytes by source URI.
type Store struct {
	cache *lru.LRU[string, []byte]
}

// New builds a Store. maxEntries <= 0 and ttl <= 0 fall back to defaults.
func New(maxEntries int, ttl time.Duration) *Store {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}

	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &Store{cache: lru.NewLRU[string, []byte](maxEntries, nil, ttl)}
}

// Get returns cached bytes for sourceURI, if present and unexpired.
func (s *Store) Get(sourceURI string) ([]byte, bool) {
	return s.cache.Get(sourceURI)
}

// Put caches bytes for sourceURI.
func (s *Store) Put(sourceURI string, bytes []byte) {
	s.cache.Add(sourceURI, bytes)
}

// Remove evicts sourceURI's entry, if any.
func (s *Store) Remove(sourceURI string) {
	s.cache.Remove(sourceURI)
}

// Purge clears the entire store (used on a network-available transition).
func (s *Store) Purge() {
	s.cache.Purge()
}
