package catalog

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultRecentSearches = 8

// RecentSearches remembers the last distinct queries, most recent first. Queries
// differing only in case or spacing count as the same entry.
type RecentSearches struct {
	cache *lru.Cache[string, string] // normalised key -> text as typed
}

func NewRecentSearches(size int) *RecentSearches {
	if size <= 0 {
		size = DefaultRecentSearches
	}
	c, err := lru.New[string, string](size)
	if err != nil {
		// lru.New only fails for size <= 0
		panic(err)
	}
	return &RecentSearches{cache: c}
}

func (r *RecentSearches) Add(text string) {
	display := strings.Join(strings.Fields(text), " ")
	if display == "" {
		return
	}
	key := strings.ToLower(display)
	// Remove first so the latest spelling wins and the entry moves to the front.
	r.cache.Remove(key)
	r.cache.Add(key, display)
}

func (r *RecentSearches) List() []string {
	keys := r.cache.Keys() // oldest first
	out := make([]string, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		if v, ok := r.cache.Peek(keys[i]); ok {
			out = append(out, v)
		}
	}
	return out
}

func (r *RecentSearches) Clear() { r.cache.Purge() }

func (r *RecentSearches) Len() int { return r.cache.Len() }
