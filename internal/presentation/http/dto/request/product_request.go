package request

import "github.com/shopspring/decimal"

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	ID            string           `json:"id" binding:"omitempty,max=64"`
	Name          string           `json:"name" binding:"required,max=255"`
	Category      string           `json:"category" binding:"required,max=100"`
	Price         *decimal.Decimal `json:"price" binding:"required"`
	Quantity      int              `json:"quantity" binding:"min=0"`
	MinStockLevel *int             `json:"min_stock_level" binding:"omitempty,min=0"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	Barcode       string           `json:"barcode" binding:"omitempty,max=64"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Category      *string          `json:"category" binding:"omitempty,min=1,max=100"`
	Price         *decimal.Decimal `json:"price"`
	MinStockLevel *int             `json:"min_stock_level" binding:"omitempty,min=0"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	Barcode       *string          `json:"barcode" binding:"omitempty,max=64"`
}

// SetQuantityRequest overwrites the quantity on hand
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// RestockRequest adds units to the quantity on hand
type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// BulkQuantityRequest sets several quantities at once, keyed by product id
type BulkQuantityRequest struct {
	Updates map[string]int `json:"updates" binding:"required"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}
