package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one product entry in a shopper's cart. Name, unit, and price are
// copied from the catalog when the item is added so the cart can render
// without further lookups; the authoritative price is still resolved
// server-side at order submission.
type Line struct {
	ProductID     uuid.UUID       `json:"product_id"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	ImageURL      string          `json:"image_url,omitempty"`
	IsLocallyMade bool            `json:"is_locally_made"`
}

// Cart is the full cart state for one cart token. Lines keep insertion order.
// Quantity on a line is always >= 1; a quantity update to zero or below
// removes the line instead.
type Cart struct {
	Token     string    `json:"token"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCart returns an empty cart bound to the given token.
func NewCart(token string) *Cart {
	return &Cart{Token: token}
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem appends a line for the product, or bumps the quantity when the
// product is already present. Quantities below one are treated as one.
func (c *Cart) AddItem(line Line, qty int) {
	if qty < 1 {
		qty = 1
	}
	if i := c.indexOf(line.ProductID); i >= 0 {
		c.Lines[i].Quantity += qty
		return
	}
	line.Quantity = qty
	c.Lines = append(c.Lines, line)
}

// UpdateQuantity sets the quantity on an existing line. A quantity of zero or
// below removes the line entirely; no zero-quantity line ever survives.
func (c *Cart) UpdateQuantity(productID uuid.UUID, qty int) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	if qty <= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return
	}
	c.Lines[i].Quantity = qty
}

// RemoveItem drops the line for the product if present.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	if i := c.indexOf(productID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}

// Clear empties the cart. Clearing an already-empty cart is a no-op.
func (c *Cart) Clear() {
	c.Lines = nil
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// TotalItems returns the summed quantity across all lines.
func (c *Cart) TotalItems() int {
	total := 0
	for i := range c.Lines {
		total += c.Lines[i].Quantity
	}
	return total
}

// TotalPrice recomputes the cart total from scratch on every call; there is
// no cached total to go stale.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Lines {
		total = total.Add(c.Lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(c.Lines[i].Quantity))))
	}
	return total
}
