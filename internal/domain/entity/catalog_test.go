package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProduct(id string, qty int) Product {
	return Product{
		ID:            id,
		Name:          "Product " + id,
		Category:      "Groceries",
		Price:         decimal.RequireFromString("2.50"),
		Quantity:      qty,
		MinStockLevel: DefaultMinStockLevel,
		TaxRate:       decimal.RequireFromString("0.05"),
	}
}

func TestCatalog_CloneIsIndependent(t *testing.T) {
	c := NewCatalog(sampleProduct("a", 10), sampleProduct("b", 5))
	clone := c.Clone()

	p, ok := clone.Get("a")
	require.True(t, ok)
	p.Quantity = 1
	clone.Upsert(p)
	clone.Delete("b")

	orig, _ := c.Get("a")
	assert.Equal(t, 10, orig.Quantity)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 1, clone.Len())
}

func TestCatalog_AllSortedByID(t *testing.T) {
	c := NewCatalog(sampleProduct("gro002", 1), sampleProduct("cld001", 1), sampleProduct("med001", 1))

	var ids []string
	for _, p := range c.All() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"cld001", "gro002", "med001"}, ids)
}

func TestCatalog_GetReturnsCopy(t *testing.T) {
	c := NewCatalog(sampleProduct("a", 10))
	p, _ := c.Get("a")
	p.Quantity = 0

	again, _ := c.Get("a")
	assert.Equal(t, 10, again.Quantity)
}

func TestCatalog_FindByBarcode(t *testing.T) {
	p := sampleProduct("a", 1)
	p.Barcode = "5000112637922"
	c := NewCatalog(p, sampleProduct("b", 1))

	found, ok := c.FindByBarcode("5000112637922")
	require.True(t, ok)
	assert.Equal(t, "a", found.ID)

	_, ok = c.FindByBarcode("")
	assert.False(t, ok)
	_, ok = c.FindByBarcode("nope")
	assert.False(t, ok)
}

func TestCatalog_DeleteMissing(t *testing.T) {
	c := NewCatalog()
	assert.False(t, c.Delete("x"))
}

func TestCatalog_UpsertOnZeroValue(t *testing.T) {
	var c Catalog
	c.Upsert(sampleProduct("a", 1))
	assert.Equal(t, 1, c.Len())
}

func TestProduct_LowStockAndValue(t *testing.T) {
	p := sampleProduct("a", 49)
	assert.True(t, p.IsLowStock())
	p.Quantity = 50
	assert.False(t, p.IsLowStock())
	assert.True(t, p.StockValue().Equal(decimal.RequireFromString("125")))
}

func TestBill_Counts(t *testing.T) {
	b := Bill{Items: []BillLineItem{{Quantity: 2}, {Quantity: 3}}}
	assert.Equal(t, 2, b.ItemCount())
	assert.Equal(t, 5, b.UnitCount())
}
