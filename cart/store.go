// Operaciones de carrito
package cart

import (
	"strconv"
	"sync"

	"github.com/rs/zerolog"
)

// Store owns the cart's line items. One instance is shared by every surface that
// shows cart state (home, categories, search, cart screen, tab badge).
//
// Every operation is total: empty ids, unknown ids and non-positive quantities are
// clamped or ignored, never reported as errors.
type Store struct {
	mu    sync.RWMutex
	items []*LineItem
	index map[string]int // productID -> position in items

	subs    []subscription
	nextSub int

	log zerolog.Logger
}

type Option func(*Store)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l.With().Str("component", "cart").Logger() }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		index: make(map[string]int),
		log:   zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AddItem appends p with the given quantity, or bumps the quantity of the existing
// line for p.ID. Metadata of an existing line is not refreshed. Quantities below 1
// are clamped to 1.
func (s *Store) AddItem(p Product, quantity int) {
	if p.ID == "" {
		s.log.Warn().Msg("add item without product id ignored")
		return
	}
	if quantity < 1 {
		s.log.Warn().Str("product_id", p.ID).Int("quantity", quantity).Msg("quantity clamped to 1")
		quantity = 1
	}
	quantity = clampQuantity(quantity)

	s.mu.Lock()
	var after int
	if i, ok := s.index[p.ID]; ok {
		cur := s.items[i].Quantity
		if cur == MaxQuantity {
			s.mu.Unlock()
			s.log.Warn().Str("product_id", p.ID).Msg("line already at max quantity")
			return
		}
		if quantity > MaxQuantity-cur {
			after = MaxQuantity
		} else {
			after = cur + quantity
		}
		s.items[i].Quantity = after
	} else {
		s.index[p.ID] = len(s.items)
		s.items = append(s.items, newLineItem(p, quantity))
		after = quantity
	}
	ev := s.eventLocked(EventItemAdded, p.ID, after)
	subs := s.listenersLocked()
	s.mu.Unlock()

	s.log.Debug().Str("product_id", p.ID).Int("quantity", after).Int("count", ev.Count).Msg("item added")
	notify(subs, ev)
}

func (s *Store) AddOne(p Product) { s.AddItem(p, 1) }

func (s *Store) RemoveItem(id string) { s.apply(id, func(int) int { return 0 }) }

// UpdateQuantity sets the quantity of id to exactly n. Anything below 1 removes the
// line, which is what a stepper decrementing past 1 ends up calling.
func (s *Store) UpdateQuantity(id string, n int) { s.apply(id, func(int) int { return n }) }

func (s *Store) Increment(id string) {
	s.apply(id, func(q int) int {
		if q >= MaxQuantity {
			return q
		}
		return q + 1
	})
}

func (s *Store) Decrement(id string) { s.apply(id, func(q int) int { return q - 1 }) }

// apply replaces the quantity of an existing line with next(current) and drops the
// line when the result is below 1. Results above MaxQuantity saturate. Unknown ids
// and unchanged quantities are ignored.
func (s *Store) apply(id string, next func(current int) int) {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	cur := s.items[i].Quantity
	n := next(cur)
	if n > MaxQuantity {
		n = MaxQuantity
	}
	if n == cur {
		s.mu.Unlock()
		return
	}
	var ev Event
	if n < 1 {
		s.removeLocked(i)
		ev = s.eventLocked(EventItemRemoved, id, 0)
	} else {
		s.items[i].Quantity = n
		ev = s.eventLocked(EventQuantityUpdated, id, n)
	}
	subs := s.listenersLocked()
	s.mu.Unlock()

	s.log.Debug().Str("event", ev.Kind).Str("product_id", id).Int("quantity", n).Int("count", ev.Count).Msg("cart line changed")
	notify(subs, ev)
}

func (s *Store) Clear() {
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return
	}
	s.items = nil
	s.index = make(map[string]int)
	ev := s.eventLocked(EventCleared, "", 0)
	subs := s.listenersLocked()
	s.mu.Unlock()

	s.log.Debug().Msg("cart cleared")
	notify(subs, ev)
}

// Items returns a copy of the line items in display (insertion) order.
func (s *Store) Items() []LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]LineItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, *it)
	}
	return out
}

func (s *Store) Item(id string) (LineItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return LineItem{}, false
	}
	return *s.items[i], true
}

func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// Len is the number of distinct lines, not the number of units.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Count is the number of units across all lines.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countLocked()
}

func (s *Store) Total() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalLocked()
}

// TotalFor is Total restricted to ids. Unknown ids are skipped and repeated ids
// are counted once.
func (s *Store) TotalFor(ids []string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{}, len(ids))
	var total int64
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if i, ok := s.index[id]; ok {
			total = addSat(total, s.items[i].LineTotal())
		}
	}
	return total
}

func (s *Store) Badge() string { return BadgeLabel(s.Count()) }

// BadgeLabel renders a unit count for the tab-bar badge.
func BadgeLabel(count int) string {
	switch {
	case count <= 0:
		return ""
	case count > 99:
		return "99+"
	default:
		return strconv.Itoa(count)
	}
}

// Subscribe registers fn for every applied mutation. Listeners run synchronously on
// the mutating goroutine after the store lock is released, in subscription order.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// ---- helpers (caller holds mu) ----

func (s *Store) removeLocked(i int) {
	delete(s.index, s.items[i].ID)
	s.items = append(s.items[:i], s.items[i+1:]...)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].ID] = j
	}
}

func (s *Store) countLocked() int {
	var n int
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Store) totalLocked() int64 {
	var total int64
	for _, it := range s.items {
		total = addSat(total, it.LineTotal())
	}
	return total
}

func (s *Store) eventLocked(kind, id string, qty int) Event {
	return Event{
		Kind:      kind,
		ProductID: id,
		Quantity:  qty,
		Count:     s.countLocked(),
		Total:     s.totalLocked(),
	}
}

func (s *Store) listenersLocked() []subscription {
	if len(s.subs) == 0 {
		return nil
	}
	return append([]subscription(nil), s.subs...)
}

func notify(subs []subscription, ev Event) {
	for _, sub := range subs {
		sub.fn(ev)
	}
}
