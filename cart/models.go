package cart

import "math"

// MaxQuantity is the most units one line can hold. Adds and updates past it
// saturate instead of wrapping.
const MaxQuantity = math.MaxInt32

// Product is the descriptor callers hand to AddItem. Only ID and Price matter to
// the store; everything else is carried through to the line item for display.
type Product struct {
	ID            string
	Name          string
	Seller        string
	Image         string
	Variant       string
	Category      string
	Location      string
	Price         int64
	OriginalPrice int64
	Rating        float64
	Sold          int
}

type LineItem struct {
	ID            string
	Name          string
	Seller        string
	Image         string
	Variant       string
	Price         int64
	OriginalPrice int64
	Quantity      int
}

func newLineItem(p Product, qty int) *LineItem {
	return &LineItem{
		ID:            p.ID,
		Name:          p.Name,
		Seller:        p.Seller,
		Image:         p.Image,
		Variant:       p.Variant,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Quantity:      qty,
	}
}

func (it LineItem) LineTotal() int64 { return mulSat(it.Price, int64(it.Quantity)) }

// OriginalLineTotal falls back to Price when no (or a lower) original price is known,
// so savings never go negative.
func (it LineItem) OriginalLineTotal() int64 {
	unit := it.OriginalPrice
	if unit < it.Price {
		unit = it.Price
	}
	return mulSat(unit, int64(it.Quantity))
}

// clampQuantity bounds q to [0, MaxQuantity]; callers decide what below 1 means.
func clampQuantity(q int) int {
	if q > MaxQuantity {
		return MaxQuantity
	}
	if q < 0 {
		return 0
	}
	return q
}

// mulSat and addSat stop at the int64 limits instead of wrapping. Prices and
// quantities are never negative in the store.
func mulSat(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > 0 && b > 0 && a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

func addSat(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
