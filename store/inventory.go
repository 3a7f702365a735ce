package store

import (
	"fmt"

	models "shop-simulator/model"
)

// SeedCatalog builds the default catalog used on first run. Every call
// returns a fresh value.
func SeedCatalog() *models.Catalog {
	return models.NewCatalog(
		models.Product{Name: "Laptop", Price: 50000, Quantity: 10, DiscountPercent: 10},
		models.Product{Name: "Keyboard", Price: 1000, Quantity: 50, DiscountPercent: 5},
		models.Product{Name: "Mouse", Price: 500, Quantity: 100, DiscountPercent: 2},
		models.Product{Name: "Monitor", Price: 15000, Quantity: 20, DiscountPercent: 8},
	)
}

// validateCatalog rejects loaded entries that break the product invariants.
func validateCatalog(c *models.Catalog) error {
	for _, p := range c.Products() {
		switch {
		case p.Price <= 0:
			return fmt.Errorf("product %q: price must be > 0, got %d", p.Name, p.Price)
		case p.Quantity < 0:
			return fmt.Errorf("product %q: stock cannot be negative, got %d", p.Name, p.Quantity)
		case p.DiscountPercent < 0 || p.DiscountPercent > 100:
			return fmt.Errorf("product %q: discount must be 0-100, got %d", p.Name, p.DiscountPercent)
		}
	}
	return nil
}
