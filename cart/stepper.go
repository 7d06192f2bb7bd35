package cart

// ClampDraft bounds the quantity picked on a product page before it goes into the
// cart: never below 1, never above stock. stock <= 0 means stock is unknown.
func ClampDraft(q, stock int) int {
	if stock > 0 && q > stock {
		q = stock
	}
	if q < 1 {
		q = 1
	}
	return q
}
