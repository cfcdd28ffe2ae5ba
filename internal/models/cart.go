package models

// CartLine pairs a product with the quantity held in a cart.
// Quantity is always >= 1 for a line that exists.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns quantity * fiat price for the line.
func (l CartLine) Subtotal() float64 {
	return float64(l.Quantity) * l.Product.FiatPrice
}

// TokenSubtotal returns quantity * token price for the line.
func (l CartLine) TokenSubtotal() float64 {
	return float64(l.Quantity) * l.Product.TokenPrice
}

// StoredCartLine is the persisted form of a cart line: product id and quantity
// only, so prices are always re-read from the current catalog.
type StoredCartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// StoredCart is a session cart as written to the cart store.
type StoredCart struct {
	SessionID string           `json:"sessionId"`
	Lines     []StoredCartLine `json:"lines"`
}
