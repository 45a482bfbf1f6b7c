package repository

import (
	"context"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
)

// ProductRepository loads and saves the catalog as a whole.
type ProductRepository interface {
	// LoadAll returns the full catalog; a store that was never written yields an empty one
	LoadAll(ctx context.Context) (*entity.Catalog, error)
	// SaveAll replaces the stored catalog with the given one
	SaveAll(ctx context.Context, catalog *entity.Catalog) error
}
