package cart

import (
	"errors"
	"sync"
)

var ErrNothingSelected = errors.New("no items selected")

// Summary is the checkout footer for the selected lines.
type Summary struct {
	Lines         int
	Quantity      int
	Total         int64
	OriginalTotal int64
	Savings       int64
}

// Selection tracks which cart lines are ticked for checkout. It belongs to the cart
// screen, not to the store: the store only knows full-cart aggregates.
type Selection struct {
	mu          sync.Mutex
	store       *Store
	selected    map[string]struct{}
	unsubscribe func()
}

// NewSelection starts with every line currently in the cart selected. A line
// that leaves the cart loses its tick, so adding it back later leaves it
// unticked. Call Close when the selection is no longer used.
func NewSelection(store *Store) *Selection {
	sel := &Selection{store: store, selected: make(map[string]struct{})}
	for _, it := range store.Items() {
		sel.selected[it.ID] = struct{}{}
	}
	sel.unsubscribe = store.Subscribe(sel.onCartEvent)
	return sel
}

// Close stops following the cart. Calling it more than once is fine.
func (sel *Selection) Close() { sel.unsubscribe() }

func (sel *Selection) onCartEvent(ev Event) {
	sel.mu.Lock()
	defer sel.mu.Unlock()
	switch ev.Kind {
	case EventItemRemoved:
		delete(sel.selected, ev.ProductID)
	case EventCleared:
		sel.selected = make(map[string]struct{})
	}
}

// Toggle flips id and reports whether it is selected afterwards. Ids that are not
// in the cart cannot be selected.
func (sel *Selection) Toggle(id string) bool {
	sel.mu.Lock()
	defer sel.mu.Unlock()
	if _, ok := sel.selected[id]; ok {
		delete(sel.selected, id)
		return false
	}
	if !sel.store.Contains(id) {
		return false
	}
	sel.selected[id] = struct{}{}
	return true
}

// ToggleAll clears the selection when every line is selected, otherwise selects
// every line.
func (sel *Selection) ToggleAll() {
	items := sel.store.Items()
	sel.mu.Lock()
	defer sel.mu.Unlock()
	sel.pruneLocked(items)
	if len(items) > 0 && len(sel.selected) == len(items) {
		sel.selected = make(map[string]struct{})
		return
	}
	for _, it := range items {
		sel.selected[it.ID] = struct{}{}
	}
}

func (sel *Selection) IsSelected(id string) bool {
	items := sel.store.Items()
	sel.mu.Lock()
	defer sel.mu.Unlock()
	sel.pruneLocked(items)
	_, ok := sel.selected[id]
	return ok
}

func (sel *Selection) AllSelected() bool {
	items := sel.store.Items()
	sel.mu.Lock()
	defer sel.mu.Unlock()
	sel.pruneLocked(items)
	return len(items) > 0 && len(sel.selected) == len(items)
}

// IDs returns the selected ids in cart display order.
func (sel *Selection) IDs() []string {
	items := sel.store.Items()
	sel.mu.Lock()
	defer sel.mu.Unlock()
	sel.pruneLocked(items)
	out := make([]string, 0, len(sel.selected))
	for _, it := range items {
		if _, ok := sel.selected[it.ID]; ok {
			out = append(out, it.ID)
		}
	}
	return out
}

func (sel *Selection) Summary() Summary {
	items := sel.store.Items()
	sel.mu.Lock()
	defer sel.mu.Unlock()
	sel.pruneLocked(items)

	var sum Summary
	for _, it := range items {
		if _, ok := sel.selected[it.ID]; !ok {
			continue
		}
		sum.Lines++
		sum.Quantity += it.Quantity
		sum.Total = addSat(sum.Total, it.LineTotal())
		sum.OriginalTotal = addSat(sum.OriginalTotal, it.OriginalLineTotal())
	}
	sum.Savings = sum.OriginalTotal - sum.Total
	return sum
}

// Checkout returns the summary of what would be bought. It does not touch the cart.
func (sel *Selection) Checkout() (Summary, error) {
	sum := sel.Summary()
	if sum.Lines == 0 {
		return sum, ErrNothingSelected
	}
	return sum, nil
}

// pruneLocked drops ids whose line has left the cart.
func (sel *Selection) pruneLocked(items []LineItem) {
	if len(sel.selected) == 0 {
		return
	}
	present := make(map[string]struct{}, len(items))
	for _, it := range items {
		present[it.ID] = struct{}{}
	}
	for id := range sel.selected {
		if _, ok := present[id]; !ok {
			delete(sel.selected, id)
		}
	}
}
