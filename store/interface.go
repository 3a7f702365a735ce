package store

import (
	"context"

	models "shop-simulator/model"
)

// Store loads and saves the two persisted records: the catalog and the user
// table. Save always writes a full snapshot.
type Store interface {
	// LoadCatalog returns the saved catalog, or SeedCatalog() when nothing
	// has been saved yet.
	LoadCatalog(ctx context.Context) (*models.Catalog, error)
	// LoadUsers returns the saved users, or an empty table.
	LoadUsers(ctx context.Context) (*models.Users, error)
	Save(ctx context.Context, catalog *models.Catalog, users *models.Users) error

	Close() error
}
