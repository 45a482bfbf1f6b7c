package entity

import (
	"time"

	"github.com/sangkips/supermarket-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// BillIDLength is the length of the uppercase bill code.
const BillIDLength = 8

// BillLineItem is one sold line. Name and unit price are snapshots taken at sale time.
type BillLineItem struct {
	ID          uint            `gorm:"primaryKey" json:"-"`
	BillID      string          `gorm:"size:16;index;not null" json:"-"`
	Position    int             `gorm:"not null" json:"-"`
	ProductID   string          `gorm:"size:64;not null;index" json:"product_id"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric;not null" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric;not null" json:"total_price"`
	TaxAmount   decimal.Decimal `gorm:"type:numeric;not null" json:"tax_amount"`
}

// TableName returns the table name for the BillLineItem model
func (BillLineItem) TableName() string {
	return "bill_items"
}

// Bill is a completed sale. Bills are never edited after creation.
type Bill struct {
	ID          string          `gorm:"primaryKey;size:16" json:"id"`
	Customer    Customer        `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Items       []BillLineItem  `gorm:"foreignKey:BillID;references:ID" json:"items"`
	Subtotal    decimal.Decimal `gorm:"type:numeric;not null" json:"subtotal"`
	TaxAmount   decimal.Decimal `gorm:"type:numeric;not null" json:"tax_amount"`
	TotalAmount decimal.Decimal `gorm:"type:numeric;not null" json:"total_amount"`
	CreatedAt   time.Time       `gorm:"not null;index" json:"created_at"`
	Status      enum.BillStatus `gorm:"type:smallint;not null;default:0" json:"status"`
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// ItemCount is the number of distinct lines on the bill.
func (b *Bill) ItemCount() int {
	return len(b.Items)
}

// UnitCount is the total quantity across all lines.
func (b *Bill) UnitCount() int {
	n := 0
	for _, item := range b.Items {
		n += item.Quantity
	}
	return n
}
