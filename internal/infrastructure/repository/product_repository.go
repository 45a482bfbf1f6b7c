package repository

import (
	"context"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
	domainRepo "github.com/sangkips/supermarket-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) LoadAll(ctx context.Context) (*entity.Catalog, error) {
	var products []entity.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return entity.NewCatalog(products...), nil
}

// SaveAll makes the products table match the catalog in one transaction:
// rows missing from the catalog are deleted, the rest are upserted.
func (r *productRepository) SaveAll(ctx context.Context, catalog *entity.Catalog) error {
	products := catalog.All()
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		remove := tx.Where("1 = 1")
		if len(ids) > 0 {
			remove = tx.Where("id NOT IN ?", ids)
		}
		if err := remove.Delete(&entity.Product{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "category", "price", "quantity", "min_stock_level", "tax_rate", "barcode", "updated_at"}),
		}).CreateInBatches(&products, 100).Error
	})
}
