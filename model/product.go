package models

import "encoding/json"

// Product is a catalog entry. Name is the catalog key and is not repeated in
// the persisted object.
type Product struct {
	Name            string `json:"-"`
	Price           int64  `json:"price"`
	Quantity        int    `json:"quantity"`
	DiscountPercent int    `json:"discount"`
}

// Catalog maps product names to products in definition order.
type Catalog struct {
	ordered[*Product]
}

// NewCatalog builds a catalog holding copies of products, in the given order.
func NewCatalog(products ...Product) *Catalog {
	c := &Catalog{}
	for _, p := range products {
		c.Put(p)
	}
	return c
}

// Put inserts or replaces a product.
func (c *Catalog) Put(p Product) {
	c.set(p.Name, &p)
}

// Get returns the live product entry for name.
func (c *Catalog) Get(name string) (*Product, bool) {
	return c.get(name)
}

func (c *Catalog) Len() int { return c.len() }

// Products returns copies of every product in catalog order.
func (c *Catalog) Products() []Product {
	out := make([]Product, 0, c.len())
	c.each(func(_ string, p *Product) bool {
		out = append(out, *p)
		return true
	})
	return out
}

func (c *Catalog) UnmarshalJSON(data []byte) error {
	if err := c.ordered.UnmarshalJSON(data); err != nil {
		return err
	}
	c.each(func(name string, p *Product) bool {
		if p == nil {
			p = &Product{}
			c.items[name] = p
		}
		p.Name = name
		return true
	})
	return nil
}

var (
	_ json.Marshaler   = (*Catalog)(nil)
	_ json.Unmarshaler = (*Catalog)(nil)
)
