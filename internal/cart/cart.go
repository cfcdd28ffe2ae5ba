// Package cart holds a single session's cart lines and derives its totals.
//
// A Cart is owned by exactly one session and is not safe for concurrent use;
// callers that share one across goroutines must synchronize access.
package cart

import "github.com/GTDGit/ecotoken_store/internal/models"

// Cart is an ordered list of lines, at most one per product id.
type Cart struct {
	lines []models.CartLine
}

// View is the cart as exposed to transport layers.
type View struct {
	Lines      []models.CartLine `json:"lines"`
	CartTotal  float64           `json:"cartTotal"`
	TokenTotal float64           `json:"tokenTotal"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add increments the line for p by one, appending a new line when absent.
// Sold-out products are the caller's responsibility to reject.
func (c *Cart) Add(p models.Product) {
	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, models.CartLine{Product: p, Quantity: 1})
}

// Remove deletes the line for productID; no-op if absent.
func (c *Cart) Remove(productID string) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// UpdateQuantity sets the absolute quantity of a line. A quantity <= 0
// removes the line; an unknown productID is a no-op.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.lines[i].Quantity = quantity
	}
}

// Total is the sum of quantity * fiat price over all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// TokenTotal is the sum of quantity * token price over all lines.
func (c *Cart) TokenTotal() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.TokenSubtotal()
	}
	return total
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for productID.
func (c *Cart) Line(productID string) (models.CartLine, bool) {
	if i := c.index(productID); i >= 0 {
		return c.lines[i], true
	}
	return models.CartLine{}, false
}

// Len returns the number of distinct products in the cart.
func (c *Cart) Len() int {
	return len(c.lines)
}

// View snapshots lines and both totals.
func (c *Cart) View() View {
	return View{
		Lines:      c.Lines(),
		CartTotal:  c.Total(),
		TokenTotal: c.TokenTotal(),
	}
}

func (c *Cart) index(productID string) int {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}
