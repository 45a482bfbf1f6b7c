package database

import (
	"context"
	"fmt"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
	"github.com/sangkips/supermarket-api/internal/domain/repository"
	logx "github.com/sangkips/supermarket-api/pkg/logger"
	"github.com/shopspring/decimal"
)

func seedProduct(id, name, category, price string, minStock int, taxRate string) entity.Product {
	return entity.Product{
		ID:            id,
		Name:          name,
		Category:      category,
		Price:         decimal.RequireFromString(price),
		Quantity:      100,
		MinStockLevel: minStock,
		TaxRate:       decimal.RequireFromString(taxRate),
	}
}

// DefaultProducts is the starter catalog for a fresh install.
func DefaultProducts() []entity.Product {
	return []entity.Product{
		seedProduct("med001", "Hand Sanitizer 100ml", "Medical", "4.50", 20, "0.05"),
		seedProduct("med002", "Face Mask (Pack of 10)", "Medical", "5.00", 20, "0.05"),
		seedProduct("med003", "Thermal Gun", "Medical", "25.00", 10, "0.05"),
		seedProduct("med004", "Hand Gloves (Box of 100)", "Medical", "12.00", 20, "0.05"),
		seedProduct("med005", "Cough Syrup 100ml", "Medical", "8.00", 20, "0.05"),
		seedProduct("med006", "Antiseptic Cream 50g", "Medical", "6.00", 20, "0.05"),

		seedProduct("gro001", "Rice 1kg", "Grocery", "3.00", 30, "0.05"),
		seedProduct("gro002", "Cooking Oil 1L", "Grocery", "4.00", 30, "0.05"),
		seedProduct("gro003", "Wheat Flour 1kg", "Grocery", "2.00", 30, "0.05"),
		seedProduct("gro004", "Spices Pack", "Grocery", "3.00", 25, "0.05"),
		seedProduct("gro005", "Sugar 1kg", "Grocery", "2.50", 30, "0.05"),
		seedProduct("gro006", "Salt 1kg", "Grocery", "1.50", 30, "0.05"),
		seedProduct("gro007", "Maggi Noodles", "Grocery", "1.50", 30, "0.05"),
		seedProduct("gro008", "Bread Loaf", "Grocery", "2.00", 25, "0.05"),

		seedProduct("cld001", "Coca Cola 500ml", "Cold Drinks", "2.50", 40, "0.10"),
		seedProduct("cld002", "Sprite 500ml", "Cold Drinks", "2.50", 40, "0.10"),
		seedProduct("cld003", "Mineral Water 1L", "Cold Drinks", "1.50", 50, "0.10"),
		seedProduct("cld004", "Mango Juice 1L", "Cold Drinks", "3.50", 30, "0.10"),
		seedProduct("cld005", "Lassi 200ml", "Cold Drinks", "2.00", 30, "0.10"),
		seedProduct("cld006", "Mountain Dew 500ml", "Cold Drinks", "2.25", 40, "0.10"),
	}
}

// SeedDefaultProducts writes the starter catalog when the store is empty.
// It reports whether anything was written.
func SeedDefaultProducts(ctx context.Context, repo repository.ProductRepository) (bool, error) {
	catalog, err := repo.LoadAll(ctx)
	if err != nil {
		return false, fmt.Errorf("load catalog: %w", err)
	}
	if catalog.Len() > 0 {
		return false, nil
	}

	if err := repo.SaveAll(ctx, entity.NewCatalog(DefaultProducts()...)); err != nil {
		return false, fmt.Errorf("save default catalog: %w", err)
	}
	logx.Info().Int("products", len(DefaultProducts())).Msg("default products initialized")
	return true, nil
}
