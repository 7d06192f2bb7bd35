// Package session ties together the state one shopper builds up while the app is
// open: cart, wishlist and recent searches. Nothing here outlives the process.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ahinestrog/mystorefront/cart"
	"github.com/ahinestrog/mystorefront/catalog"
	"github.com/ahinestrog/mystorefront/favorites"
)

type Session struct {
	ID        string
	StartedAt time.Time

	Cart      *cart.Store
	Favorites *favorites.Store
	Recent    *catalog.RecentSearches

	mu        sync.Mutex
	selection *cart.Selection
	ended     bool
	log       zerolog.Logger
}

type options struct {
	log    zerolog.Logger
	recent int
	now    func() time.Time
}

type Option func(*options)

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithRecentSearches sets how many distinct searches are remembered.
func WithRecentSearches(n int) Option {
	return func(o *options) { o.recent = n }
}

func withClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func New(opts ...Option) *Session {
	o := options{
		log:    zerolog.Nop(),
		recent: catalog.DefaultRecentSearches,
		now:    time.Now,
	}
	for _, fn := range opts {
		fn(&o)
	}

	id := uuid.NewString()
	l := o.log.With().Str("session_id", id).Logger()
	s := &Session{
		ID:        id,
		StartedAt: o.now().UTC(),
		Cart:      cart.NewStore(cart.WithLogger(l)),
		Favorites: favorites.NewStore(favorites.WithLogger(l)),
		Recent:    catalog.NewRecentSearches(o.recent),
		log:       l,
	}
	s.log.Info().Time("started_at", s.StartedAt).Msg("session started")
	return s
}

// OpenCart starts a fresh checkout selection with every cart line ticked. The
// previous selection stops following the cart.
func (s *Session) OpenCart() *cart.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection != nil {
		s.selection.Close()
	}
	s.selection = cart.NewSelection(s.Cart)
	return s.selection
}

// Selection returns the current checkout selection, opening one if needed.
func (s *Session) Selection() *cart.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection == nil {
		s.selection = cart.NewSelection(s.Cart)
	}
	return s.selection
}

// End drops everything the shopper collected. Calling it again does nothing.
func (s *Session) End() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	if s.selection != nil {
		s.selection.Close()
		s.selection = nil
	}
	s.mu.Unlock()

	items, favs := s.Cart.Count(), s.Favorites.Count()
	s.Cart.Clear()
	s.Favorites.Clear()
	s.Recent.Clear()
	s.log.Info().
		Int("cart_items", items).
		Int("favorites", favs).
		Dur("duration", time.Since(s.StartedAt)).
		Msg("session ended")
}

func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}
