package cart

// Eventos emitidos por el carrito a las vistas suscritas
const (
	EventItemAdded       = "cart.item.added"
	EventItemRemoved     = "cart.item.removed"
	EventQuantityUpdated = "cart.quantity.updated"
	EventCleared         = "cart.cleared"
)

// Event describes one applied mutation together with the aggregates after it,
// so a badge or summary can re-render without reading the store again.
type Event struct {
	Kind      string
	ProductID string
	Quantity  int
	Count     int
	Total     int64
}

type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}
