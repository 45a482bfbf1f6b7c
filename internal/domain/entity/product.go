package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money travels as JSON numbers, matching the flat-file record shape.
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultMinStockLevel applies when a product is created without one.
const DefaultMinStockLevel = 50

// Product represents a product in the catalog
type Product struct {
	ID            string          `gorm:"primaryKey;size:64" json:"id"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	Category      string          `gorm:"size:100;index" json:"category"`
	Price         decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
	Quantity      int             `gorm:"not null;default:0" json:"quantity"`
	MinStockLevel int             `gorm:"not null;default:50" json:"min_stock_level"`
	TaxRate       decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"tax_rate"`
	Barcode       string          `gorm:"size:64;index" json:"barcode,omitempty"`
	CreatedAt     time.Time       `json:"-"`
	UpdatedAt     time.Time       `json:"-"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether the quantity on hand has fallen below the minimum.
func (p *Product) IsLowStock() bool {
	return p.Quantity < p.MinStockLevel
}

// StockValue is price × quantity on hand.
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
