package entity

import "sort"

// Catalog is the complete set of products at a point in time, keyed by id.
// It is a plain value holder; loading and saving belong to the store.
type Catalog struct {
	products map[string]Product
}

// NewCatalog builds a catalog from a list; later duplicates replace earlier ones.
func NewCatalog(products ...Product) *Catalog {
	c := &Catalog{products: make(map[string]Product, len(products))}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

// Get returns a copy of the product with the given id.
func (c *Catalog) Get(id string) (Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

// Upsert inserts or replaces a product by id.
func (c *Catalog) Upsert(p Product) {
	if c.products == nil {
		c.products = make(map[string]Product)
	}
	c.products[p.ID] = p
}

// Delete removes a product, reporting whether it existed.
func (c *Catalog) Delete(id string) bool {
	if _, ok := c.products[id]; !ok {
		return false
	}
	delete(c.products, id)
	return true
}

// All returns every product sorted by id.
func (c *Catalog) All() []Product {
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Clone returns an independent copy. Products hold only value fields,
// so copying the map entries is a deep copy.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{products: make(map[string]Product, len(c.products))}
	for id, p := range c.products {
		out.products[id] = p
	}
	return out
}

// FindByBarcode returns the product carrying barcode, if any.
func (c *Catalog) FindByBarcode(barcode string) (Product, bool) {
	if barcode == "" {
		return Product{}, false
	}
	for _, p := range c.products {
		if p.Barcode == barcode {
			return p, true
		}
	}
	return Product{}, false
}
