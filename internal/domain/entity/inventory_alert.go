package entity

import (
	"github.com/sangkips/supermarket-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// InventoryAlert describes a product below its minimum stock level.
type InventoryAlert struct {
	ProductID              string          `json:"product_id"`
	ProductName            string          `json:"product_name"`
	Category               string          `json:"category"`
	CurrentQuantity        int             `json:"current_quantity"`
	MinRequired            int             `json:"min_required"`
	SuggestedOrderQuantity int             `json:"suggested_order_quantity"`
	UnitPrice              decimal.Decimal `json:"unit_price"`
	Level                  enum.StockLevel `json:"level"`
}

// EstimatedCost is the value of the suggested order at the current unit price.
func (a *InventoryAlert) EstimatedCost() decimal.Decimal {
	return a.UnitPrice.Mul(decimal.NewFromInt(int64(a.SuggestedOrderQuantity)))
}
