// Package cart implements the cart ledger: a value-semantics mapping from
// product identity to line items with a stock ceiling captured at first add.
//
// Every operation is a pure transform returning a new Cart; the input is
// never mutated. Invalid intents (exceeding the ceiling, out-of-range
// quantities, unknown product ids) are silently rejected by returning the
// cart unchanged. The presentation layer prevents them too, but the ledger
// is the final enforcement point.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/catalog"
)

// Line is one product's entry in the cart. Title, Price and StockCeiling are
// captured from the product when the line is created and stay fixed for the
// life of the line; only Quantity changes, within [1, StockCeiling].
type Line struct {
	ProductID    int64
	Title        string
	Price        decimal.Decimal
	StockCeiling int
	Quantity     int
}

// Cart is an ordered sequence of lines, insertion order = order of first
// add, with at most one line per product id. The zero value is an empty cart.
type Cart struct {
	Lines []Line
}

// Totals holds the aggregate quantities and price of a cart. TotalPrice is
// the exact decimal sum; rounding to two places happens only at the
// presentation boundary to avoid cumulative rounding error.
type Totals struct {
	ItemCount  int
	TotalPrice decimal.Decimal
}

// Add returns the cart with one more unit of the given product. A first add
// creates a line with quantity 1, capturing the product's current title,
// price and stock as the line's ceiling. Further adds increment the
// quantity until the ceiling; past it (or for a product with no stock) the
// cart is returned unchanged.
func (c Cart) Add(p catalog.Product) Cart {
	if i := c.index(p.ID); i >= 0 {
		line := c.Lines[i]
		if line.Quantity >= line.StockCeiling {
			return c
		}
		line.Quantity++
		return c.withLine(i, line)
	}

	if p.Stock < 1 {
		return c
	}

	lines := make([]Line, len(c.Lines), len(c.Lines)+1)
	copy(lines, c.Lines)
	lines = append(lines, Line{
		ProductID:    p.ID,
		Title:        p.Title,
		Price:        p.Price,
		StockCeiling: p.Stock,
		Quantity:     1,
	})
	return Cart{Lines: lines}
}

// Remove returns the cart without the line for productID. Removing an absent
// id returns the cart unchanged.
func (c Cart) Remove(productID int64) Cart {
	i := c.index(productID)
	if i < 0 {
		return c
	}

	lines := make([]Line, 0, len(c.Lines)-1)
	lines = append(lines, c.Lines[:i]...)
	lines = append(lines, c.Lines[i+1:]...)
	return Cart{Lines: lines}
}

// SetQuantity returns the cart with the line for productID set to quantity.
// Quantities outside [1, ceiling] and unknown ids leave the cart unchanged.
func (c Cart) SetQuantity(productID int64, quantity int) Cart {
	i := c.index(productID)
	if i < 0 {
		return c
	}

	line := c.Lines[i]
	if quantity < 1 || quantity > line.StockCeiling {
		return c
	}
	line.Quantity = quantity
	return c.withLine(i, line)
}

// Totals returns the summed quantity and exact price over all lines.
func (c Cart) Totals() Totals {
	t := Totals{TotalPrice: decimal.Zero}
	for _, line := range c.Lines {
		t.ItemCount += line.Quantity
		t.TotalPrice = t.TotalPrice.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return t
}

// Equal reports structural equality of two carts: same lines in the same
// order with numerically equal prices. Used to skip redundant snapshot
// writes after no-op operations.
func (c Cart) Equal(other Cart) bool {
	if len(c.Lines) != len(other.Lines) {
		return false
	}
	for i, line := range c.Lines {
		o := other.Lines[i]
		if line.ProductID != o.ProductID ||
			line.Title != o.Title ||
			line.StockCeiling != o.StockCeiling ||
			line.Quantity != o.Quantity ||
			!line.Price.Equal(o.Price) {
			return false
		}
	}
	return true
}

// index returns the position of productID's line, or -1.
func (c Cart) index(productID int64) int {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

// withLine returns a copy of the cart with position i replaced.
func (c Cart) withLine(i int, line Line) Cart {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	lines[i] = line
	return Cart{Lines: lines}
}
