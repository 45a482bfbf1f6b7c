package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
	"github.com/sangkips/supermarket-api/internal/domain/repository"
	"github.com/sangkips/supermarket-api/pkg/apperror"
	logx "github.com/sangkips/supermarket-api/pkg/logger"
	"github.com/sangkips/supermarket-api/pkg/pagination"
	"github.com/sangkips/supermarket-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// CatalogService handles product-related operations
type CatalogService struct {
	productRepo     repository.ProductRepository
	guard           *CatalogGuard
	defaultMinStock int
	newID           func() string
}

// NewCatalogService creates a new catalog service
func NewCatalogService(productRepo repository.ProductRepository, guard *CatalogGuard, defaultMinStock int) *CatalogService {
	if defaultMinStock <= 0 {
		defaultMinStock = entity.DefaultMinStockLevel
	}
	return &CatalogService{
		productRepo:     productRepo,
		guard:           guard,
		defaultMinStock: defaultMinStock,
		newID:           utils.NewProductID,
	}
}

// ProductFilter narrows a product listing
type ProductFilter struct {
	Search   string // case-insensitive match on id, name or barcode
	Category string // exact, case-insensitive
	LowStock bool
}

func (f ProductFilter) matches(p *entity.Product) bool {
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.LowStock && !p.IsLowStock() {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.ID), q) &&
			!strings.Contains(strings.ToLower(p.Barcode), q) {
			return false
		}
	}
	return true
}

func (s *CatalogService) load(ctx context.Context) (*entity.Catalog, error) {
	catalog, err := s.productRepo.LoadAll(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError("load catalog", err)
	}
	return catalog, nil
}

func (s *CatalogService) save(ctx context.Context, catalog *entity.Catalog) error {
	return apperror.NewPersistenceError("save catalog", s.productRepo.SaveAll(ctx, catalog))
}

// mutate runs fn on a working copy under the guard and saves it when fn succeeds
func (s *CatalogService) mutate(ctx context.Context, fn func(c *entity.Catalog) error) error {
	return s.guard.Do(func() error {
		snapshot, err := s.load(ctx)
		if err != nil {
			return err
		}
		working := snapshot.Clone()
		if err := fn(working); err != nil {
			return err
		}
		return s.save(ctx, working)
	})
}

// ListProducts returns one page of products sorted by id
func (s *CatalogService) ListProducts(ctx context.Context, filter ProductFilter, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Product], error) {
	catalog, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]entity.Product, 0, catalog.Len())
	for _, p := range catalog.All() {
		if filter.matches(&p) {
			products = append(products, p)
		}
	}
	return pagination.Paginate(products, params), nil
}

// Categories returns the distinct category names, sorted
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	catalog, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, p := range catalog.All() {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

// GetProduct returns a product by id
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	catalog, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := catalog.Get(id)
	if !ok {
		return nil, &apperror.ProductNotFoundError{ProductID: id}
	}
	return &p, nil
}

// GetByBarcode returns the product carrying barcode
func (s *CatalogService) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	catalog, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := catalog.FindByBarcode(strings.TrimSpace(barcode))
	if !ok {
		return nil, apperror.NewNotFoundError("Product with barcode " + barcode)
	}
	return &p, nil
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	ID            string
	Name          string
	Category      string
	Price         decimal.Decimal
	Quantity      int
	MinStockLevel *int
	TaxRate       *decimal.Decimal
	Barcode       string
}

// UpdateProductInput carries only the fields to change
type UpdateProductInput struct {
	Name          *string
	Category      *string
	Price         *decimal.Decimal
	MinStockLevel *int
	TaxRate       *decimal.Decimal
	Barcode       *string
}

func validateProduct(p *entity.Product) error {
	var errs fieldErrors
	if isBlank(p.Name) {
		errs.add("name", "Name is required")
	}
	if p.Price.IsNegative() {
		errs.add("price", "Price cannot be negative")
	}
	if p.Quantity < 0 {
		errs.add("quantity", "Quantity cannot be negative")
	}
	if p.MinStockLevel < 0 {
		errs.add("min_stock_level", "Minimum stock level cannot be negative")
	}
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		errs.add("tax_rate", "Tax rate must be a fraction between 0 and 1")
	}
	return errs.err()
}

func checkBarcodeFree(c *entity.Catalog, barcode, ownID string) error {
	if barcode == "" {
		return nil
	}
	if other, ok := c.FindByBarcode(barcode); ok && other.ID != ownID {
		return apperror.NewConflictError(fmt.Sprintf("Barcode %s is already assigned to %s", barcode, other.ID))
	}
	return nil
}

// CreateProduct adds a product; the id is generated when left empty
func (s *CatalogService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	p := entity.Product{
		ID:            strings.TrimSpace(input.ID),
		Name:          strings.TrimSpace(input.Name),
		Category:      strings.TrimSpace(input.Category),
		Price:         input.Price,
		Quantity:      input.Quantity,
		MinStockLevel: s.defaultMinStock,
		TaxRate:       decimal.Zero,
		Barcode:       strings.TrimSpace(input.Barcode),
	}
	if input.MinStockLevel != nil {
		p.MinStockLevel = *input.MinStockLevel
	}
	if input.TaxRate != nil {
		p.TaxRate = *input.TaxRate
	}
	if err := validateProduct(&p); err != nil {
		return nil, err
	}

	err := s.mutate(ctx, func(c *entity.Catalog) error {
		if p.ID == "" {
			p.ID = s.newID()
			for _, taken := c.Get(p.ID); taken; _, taken = c.Get(p.ID) {
				p.ID = s.newID()
			}
		} else if _, exists := c.Get(p.ID); exists {
			return apperror.NewConflictError("Product " + p.ID + " already exists")
		}
		if err := checkBarcodeFree(c, p.Barcode, p.ID); err != nil {
			return err
		}
		c.Upsert(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logx.Info().Str("product_id", p.ID).Msg("product created")
	return &p, nil
}

// UpdateProduct applies a partial update. Quantity is changed through SetQuantity or AddStock.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput) (*entity.Product, error) {
	var updated entity.Product
	err := s.mutate(ctx, func(c *entity.Catalog) error {
		p, ok := c.Get(id)
		if !ok {
			return &apperror.ProductNotFoundError{ProductID: id}
		}
		if input.Name != nil {
			p.Name = strings.TrimSpace(*input.Name)
		}
		if input.Category != nil {
			p.Category = strings.TrimSpace(*input.Category)
		}
		if input.Price != nil {
			p.Price = *input.Price
		}
		if input.MinStockLevel != nil {
			p.MinStockLevel = *input.MinStockLevel
		}
		if input.TaxRate != nil {
			p.TaxRate = *input.TaxRate
		}
		if input.Barcode != nil {
			p.Barcode = strings.TrimSpace(*input.Barcode)
		}
		if err := validateProduct(&p); err != nil {
			return err
		}
		if err := checkBarcodeFree(c, p.Barcode, p.ID); err != nil {
			return err
		}
		c.Upsert(p)
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes a product. Past bills keep their snapshot of it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	err := s.mutate(ctx, func(c *entity.Catalog) error {
		if !c.Delete(id) {
			return &apperror.ProductNotFoundError{ProductID: id}
		}
		return nil
	})
	if err == nil {
		logx.Info().Str("product_id", id).Msg("product deleted")
	}
	return err
}

// SetQuantity overwrites the quantity on hand
func (s *CatalogService) SetQuantity(ctx context.Context, id string, quantity int) (*entity.Product, error) {
	if quantity < 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "quantity", Message: "Quantity cannot be negative"}})
	}
	return s.adjust(ctx, id, func(p *entity.Product) error {
		p.Quantity = quantity
		return nil
	})
}

// AddStock receives quantity more units of a product
func (s *CatalogService) AddStock(ctx context.Context, id string, quantity int) (*entity.Product, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "quantity", Message: "Quantity must be greater than 0"}})
	}
	return s.adjust(ctx, id, func(p *entity.Product) error {
		if quantity > math.MaxInt-p.Quantity {
			return apperror.NewValidationError([]apperror.FieldError{{Field: "quantity", Message: "Quantity would exceed the maximum stock level"}})
		}
		p.Quantity += quantity
		return nil
	})
}

func (s *CatalogService) adjust(ctx context.Context, id string, fn func(p *entity.Product) error) (*entity.Product, error) {
	var updated entity.Product
	err := s.mutate(ctx, func(c *entity.Catalog) error {
		p, ok := c.Get(id)
		if !ok {
			return &apperror.ProductNotFoundError{ProductID: id}
		}
		if err := fn(&p); err != nil {
			return err
		}
		c.Upsert(p)
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	logx.Info().Str("product_id", id).Int("quantity", updated.Quantity).Msg("stock updated")
	return &updated, nil
}

// BulkQuantityResult is the outcome for one product of a bulk update
type BulkQuantityResult struct {
	ProductID string `json:"product_id"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// BulkSetQuantities sets several quantities and saves once. Unknown ids and
// negative quantities fail individually without blocking the rest.
func (s *CatalogService) BulkSetQuantities(ctx context.Context, updates map[string]int) ([]BulkQuantityResult, error) {
	ids := make([]string, 0, len(updates))
	for id := range updates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make([]BulkQuantityResult, 0, len(ids))
	err := s.mutate(ctx, func(c *entity.Catalog) error {
		for _, id := range ids {
			qty := updates[id]
			p, ok := c.Get(id)
			switch {
			case !ok:
				results = append(results, BulkQuantityResult{ProductID: id, Error: "product not found"})
			case qty < 0:
				results = append(results, BulkQuantityResult{ProductID: id, Error: "quantity cannot be negative"})
			default:
				p.Quantity = qty
				c.Upsert(p)
				results = append(results, BulkQuantityResult{ProductID: id, Success: true})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
