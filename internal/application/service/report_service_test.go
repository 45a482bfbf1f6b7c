package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
	"github.com/sangkips/supermarket-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var nairobi = time.FixedZone("EAT", 3*60*60)

func newReportFixture(t *testing.T) (*ReportService, *fakeBillRepo) {
	t.Helper()
	products := newFakeProductRepo(
		product("rice", "Rice 5kg", "Groceries", "3.00", 90, 30, "0.05"),
		product("milk", "Milk 1L", "Dairy", "1.00", 5, 20, "0"),
	)
	mail := "jane@example.com"
	early := bill("BILL0001", "Jane", "555", time.Date(2026, 5, 1, 22, 30, 0, 0, time.UTC), // 01:30 on the 2nd in EAT
		line("rice", "Rice 5kg", 10, "3.00", "0.05"),
		line("milk", "Milk 1L", 4, "1.00", "0"))
	early.Customer.Email = &mail
	bills := &fakeBillRepo{bills: []entity.Bill{
		early,
		bill("BILL0002", "Tom", "777", time.Date(2026, 5, 2, 9, 0, 0, 0, nairobi), line("milk", "Milk 1L", 2, "1.00", "0")),
		bill("BILL0003", "Jane D", "555", time.Date(2026, 5, 3, 9, 0, 0, 0, nairobi), line("rice", "Rice 5kg", 1, "3.00", "0.05")),
		bill("BILL0004", "Old", "999", time.Date(2026, 1, 1, 9, 0, 0, 0, nairobi), line("milk", "Milk 1L", 100, "1.00", "0")),
	}}
	inv := NewInventoryService(products, DefaultInventoryThresholds(), nil, "", "Corner Market")
	svc := NewReportService(products, bills, inv, nairobi, t.TempDir(), "Corner Market")
	svc.now = func() time.Time { return time.Date(2026, 5, 4, 12, 0, 0, 0, nairobi) }
	return svc, bills
}

func TestDailySalesSummary_UsesStoreTimezone(t *testing.T) {
	svc, _ := newReportFixture(t)
	ctx := context.Background()

	day, err := svc.ParseDate("2026-05-02")
	require.NoError(t, err)
	s, err := svc.DailySalesSummary(ctx, day)
	require.NoError(t, err)

	assert.Equal(t, "2026-05-02", s.Date)
	assert.Equal(t, 2, s.TotalBills)
	// 30 + 1.50 + 4, then 2
	assert.True(t, s.TotalSales.Equal(dec("37.50")), s.TotalSales.String())
	assert.Equal(t, 3, s.TotalItems)
	assert.Equal(t, 16, s.TotalUnits)
	assert.True(t, s.AverageBillValue.Equal(dec("18.75")))

	day, _ = svc.ParseDate("2026-05-01")
	s, err = svc.DailySalesSummary(ctx, day)
	require.NoError(t, err)
	assert.Zero(t, s.TotalBills)
	assert.True(t, s.AverageBillValue.IsZero())
}

func TestParseDate(t *testing.T) {
	svc, _ := newReportFixture(t)

	today, err := svc.ParseDate("")
	require.NoError(t, err)
	assert.Equal(t, 4, today.Day())

	_, err = svc.ParseDate("05/02/2026")
	assert.True(t, apperror.IsValidationError(err))
}

func TestSalesSummary(t *testing.T) {
	svc, _ := newReportFixture(t)
	ctx := context.Background()

	_, err := svc.SalesSummary(ctx, 0)
	assert.True(t, apperror.IsValidationError(err))

	s, err := svc.SalesSummary(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 3, s.TotalBills, "January bill is outside the window")
	assert.True(t, s.TotalRevenue.Equal(dec("42.65")), s.TotalRevenue.String())
	assert.True(t, s.TotalTax.Equal(dec("1.65")))
	assert.True(t, s.AverageBillValue.Equal(dec("14.22")), s.AverageBillValue.String())

	require.Len(t, s.TopProducts, 2)
	assert.Equal(t, "rice", s.TopProducts[0].ProductID)
	assert.Equal(t, 11, s.TopProducts[0].QuantitySold)
	assert.True(t, s.TopProducts[0].Revenue.Equal(dec("33")))
	assert.Equal(t, 6, s.TopProducts[1].QuantitySold)
}

func TestCustomerAnalysis(t *testing.T) {
	svc, _ := newReportFixture(t)

	stats, err := svc.CustomerAnalysis(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "999", stats[0].Phone)
	assert.Equal(t, "555", stats[1].Phone)
	assert.Equal(t, 2, stats[1].Visits)
	assert.Equal(t, "Jane D", stats[1].Name, "latest visit names the customer")
	assert.Nil(t, stats[1].Email)
	assert.True(t, stats[1].TotalSpent.Equal(dec("38.65")))
	assert.True(t, stats[1].AverageSpend.Equal(dec("19.33")), stats[1].AverageSpend.String())

	all, err := svc.CustomerAnalysis(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTextReports(t *testing.T) {
	svc, _ := newReportFixture(t)
	ctx := context.Background()

	inv, err := svc.InventoryReport(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(inv, "INVENTORY REPORT"))
	assert.Contains(t, inv, "Generated: 2026-05-04 12:00:00")
	assert.Contains(t, inv, "Low stock: 1")
	assert.Contains(t, inv, "Inventory value: 275.00")

	sales, err := svc.SalesReport(ctx, 30)
	require.NoError(t, err)
	assert.Contains(t, sales, "Period: last 30 days")
	assert.Contains(t, sales, "Total bills: 3")
	assert.Contains(t, sales, "TOP PRODUCTS")
	assert.Contains(t, sales, "TOP CUSTOMERS")

	_, err = svc.SalesReport(ctx, -1)
	assert.True(t, apperror.IsValidationError(err))
}

func TestExportWorkbook(t *testing.T) {
	svc, _ := newReportFixture(t)

	data, err := svc.ExportWorkbook(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Products", "Bills", "Bill Items", "Summary"}, f.GetSheetList())

	products, err := f.GetRows("Products")
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "ID", products[0][0])
	assert.Equal(t, "milk", products[1][0])

	bills, err := f.GetRows("Bills")
	require.NoError(t, err)
	require.Len(t, bills, 5)
	assert.Equal(t, "BILL0001", bills[1][0])
	assert.Equal(t, "2026-05-02 01:30:00", bills[1][1])
	assert.Equal(t, "jane@example.com", bills[1][4])

	items, err := f.GetRows("Bill Items")
	require.NoError(t, err)
	assert.Len(t, items, 6)

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, "Total bills", summary[6][0])
	assert.Equal(t, "4", summary[6][1])
}

func TestExportToFile(t *testing.T) {
	svc, _ := newReportFixture(t)

	path, err := svc.ExportToFile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "report_20260504_120000.xlsx", filepath.Base(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestReports_StoreFailure(t *testing.T) {
	svc, bills := newReportFixture(t)
	bills.loadErr = errDiskFull

	_, err := svc.SalesSummary(context.Background(), 7)
	assert.ErrorIs(t, err, errDiskFull)
	_, err = svc.ExportWorkbook(context.Background())
	assert.Error(t, err)
}
