package models

import "github.com/shopspring/decimal"

// CartLine is a reservation of Quantity units at the price seen on first add.
type CartLine struct {
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"price"`
}

// CartItem is a read-only view of a cart line.
type CartItem struct {
	Name      string `json:"product"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"price"`
}

// Amount is Quantity * UnitPrice.
func (i CartItem) Amount() decimal.Decimal {
	return decimal.NewFromInt(i.UnitPrice).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart maps product names to lines in insertion order.
type Cart struct {
	ordered[*CartLine]
}

func (c *Cart) Line(name string) (*CartLine, bool) { return c.get(name) }

// Put appends a new line or replaces an existing one in place.
func (c *Cart) Put(name string, line CartLine) { c.set(name, &line) }

func (c *Cart) Remove(name string) { c.delete(name) }

// Empty drops every line.
func (c *Cart) Empty() { c.reset() }

func (c *Cart) Len() int { return c.len() }

func (c *Cart) IsEmpty() bool { return c.len() == 0 }

// Items returns the lines in insertion order. The result is never nil.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, 0, c.len())
	c.each(func(name string, l *CartLine) bool {
		out = append(out, CartItem{Name: name, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
		return true
	})
	return out
}

// Subtotal sums Quantity * UnitPrice over every line.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items() {
		total = total.Add(it.Amount())
	}
	return total
}

// Clone returns a deep copy, used to snapshot a cart into a transaction.
func (c *Cart) Clone() *Cart {
	out := &Cart{}
	c.each(func(name string, l *CartLine) bool {
		out.Put(name, *l)
		return true
	})
	return out
}
