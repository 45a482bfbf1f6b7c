package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
	domainRepo "github.com/sangkips/supermarket-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// productRecord mirrors the on-disk shape; optional fields fall back to defaults.
type productRecord struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	MinStockLevel *int            `json:"min_stock_level"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Barcode       string          `json:"barcode,omitempty"`
}

func (r productRecord) toEntity(key string) entity.Product {
	p := entity.Product{
		ID:            r.ID,
		Name:          r.Name,
		Category:      r.Category,
		Price:         r.Price,
		Quantity:      r.Quantity,
		MinStockLevel: entity.DefaultMinStockLevel,
		TaxRate:       r.TaxRate,
		Barcode:       r.Barcode,
	}
	if p.ID == "" {
		p.ID = key
	}
	if r.MinStockLevel != nil {
		p.MinStockLevel = *r.MinStockLevel
	}
	return p
}

func fromEntity(p entity.Product) productRecord {
	minStock := p.MinStockLevel
	return productRecord{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Price:         p.Price,
		Quantity:      p.Quantity,
		MinStockLevel: &minStock,
		TaxRate:       p.TaxRate,
		Barcode:       p.Barcode,
	}
}

// ProductStore keeps the catalog in products.json as an object keyed by product id.
type ProductStore struct {
	path string
}

// NewProductStore creates a product store rooted at dataDir
func NewProductStore(dataDir string) *ProductStore {
	return &ProductStore{path: filepath.Join(dataDir, ProductsFile)}
}

var _ domainRepo.ProductRepository = (*ProductStore)(nil)

func (s *ProductStore) LoadAll(ctx context.Context) (*entity.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return entity.NewCatalog(), nil
	}

	var records map[string]productRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	catalog := entity.NewCatalog()
	for key, rec := range records {
		catalog.Upsert(rec.toEntity(key))
	}
	return catalog, nil
}

func (s *ProductStore) SaveAll(ctx context.Context, catalog *entity.Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	records := make(map[string]productRecord, catalog.Len())
	for _, p := range catalog.All() {
		records[p.ID] = fromEntity(p)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode products: %w", err)
	}
	return writeFileAtomic(s.path, data)
}
