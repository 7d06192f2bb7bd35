// Package favorites keeps the shopper's wishlist: a set of product ids with toggle
// and membership queries.
package favorites

import (
	"sync"

	"github.com/rs/zerolog"
)

type Store struct {
	mu    sync.RWMutex
	ids   []string
	index map[string]int
	log   zerolog.Logger
}

type Option func(*Store)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l.With().Str("component", "favorites").Logger() }
}

func NewStore(opts ...Option) *Store {
	s := &Store{index: make(map[string]int), log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Toggle adds id when absent and removes it when present. It reports whether id is
// a favorite afterwards. Empty ids are ignored.
func (s *Store) Toggle(id string) bool {
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[id]; ok {
		delete(s.index, id)
		s.ids = append(s.ids[:i], s.ids[i+1:]...)
		for j := i; j < len(s.ids); j++ {
			s.index[s.ids[j]] = j
		}
		s.log.Debug().Str("product_id", id).Int("count", len(s.ids)).Msg("favorite removed")
		return false
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	s.log.Debug().Str("product_id", id).Int("count", len(s.ids)).Msg("favorite added")
	return true
}

func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// Count feeds the wishlist badge.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// IDs returns favorites in the order they were added.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.ids...)
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = nil
	s.index = make(map[string]int)
}
