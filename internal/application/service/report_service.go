package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
	"github.com/sangkips/supermarket-api/internal/domain/repository"
	"github.com/sangkips/supermarket-api/pkg/apperror"
	logx "github.com/sangkips/supermarket-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const topProductsLimit = 10

// ReportService aggregates bill history and stock into summaries and exports
type ReportService struct {
	productRepo repository.ProductRepository
	billRepo    repository.BillRepository
	inventory   *InventoryService
	loc         *time.Location
	reportsDir  string
	storeName   string
	now         func() time.Time
}

// NewReportService creates a new report service. loc decides calendar days.
func NewReportService(
	productRepo repository.ProductRepository,
	billRepo repository.BillRepository,
	inventory *InventoryService,
	loc *time.Location,
	reportsDir, storeName string,
) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{
		productRepo: productRepo,
		billRepo:    billRepo,
		inventory:   inventory,
		loc:         loc,
		reportsDir:  reportsDir,
		storeName:   storeName,
		now:         time.Now,
	}
}

func (s *ReportService) bills(ctx context.Context) ([]entity.Bill, error) {
	bills, err := s.billRepo.LoadAll(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError("load bills", err)
	}
	return bills, nil
}

func average(total decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.DivRound(decimal.NewFromInt(int64(n)), 2)
}

// DailySummary aggregates the bills of one calendar day
type DailySummary struct {
	Date             string          `json:"date"`
	TotalBills       int             `json:"total_bills"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalItems       int             `json:"total_items"` // line items, not units
	TotalUnits       int             `json:"total_units"`
	AverageBillValue decimal.Decimal `json:"average_bill_value"`
}

// DailySalesSummary summarises bills created on date's calendar day in the store location
func (s *ReportService) DailySalesSummary(ctx context.Context, date time.Time) (*DailySummary, error) {
	bills, err := s.bills(ctx)
	if err != nil {
		return nil, err
	}

	y, m, d := date.In(s.loc).Date()
	summary := &DailySummary{
		Date:       fmt.Sprintf("%04d-%02d-%02d", y, m, d),
		TotalSales: decimal.Zero,
	}
	for _, b := range bills {
		by, bm, bd := b.CreatedAt.In(s.loc).Date()
		if by != y || bm != m || bd != d {
			continue
		}
		summary.TotalBills++
		summary.TotalSales = summary.TotalSales.Add(b.TotalAmount)
		summary.TotalItems += b.ItemCount()
		summary.TotalUnits += b.UnitCount()
	}
	summary.AverageBillValue = average(summary.TotalSales, summary.TotalBills)
	return summary, nil
}

// ParseDate reads YYYY-MM-DD in the store location; empty means today
func (s *ReportService) ParseDate(value string) (time.Time, error) {
	if value == "" {
		return s.now().In(s.loc), nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, s.loc)
	if err != nil {
		return time.Time{}, apperror.NewValidationError([]apperror.FieldError{{Field: "date", Message: "Date must be YYYY-MM-DD"}})
	}
	return t, nil
}

// ProductSales is one row of the top products table
type ProductSales struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// SalesSummary aggregates the bills of the last N days
type SalesSummary struct {
	PeriodDays       int             `json:"period_days"`
	From             time.Time       `json:"from"`
	To               time.Time       `json:"to"`
	TotalBills       int             `json:"total_bills"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalTax         decimal.Decimal `json:"total_tax"`
	AverageBillValue decimal.Decimal `json:"average_bill_value"`
	TopProducts      []ProductSales  `json:"top_products"`
}

// SalesSummary summarises bills created within the last days days
func (s *ReportService) SalesSummary(ctx context.Context, days int) (*SalesSummary, error) {
	if days <= 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "days", Message: "Days must be greater than 0"}})
	}
	bills, err := s.bills(ctx)
	if err != nil {
		return nil, err
	}

	to := s.now()
	from := to.Add(-time.Duration(days) * 24 * time.Hour)
	summary := &SalesSummary{
		PeriodDays:   days,
		From:         from,
		To:           to,
		TotalRevenue: decimal.Zero,
		TotalTax:     decimal.Zero,
	}

	byProduct := map[string]*ProductSales{}
	for _, b := range bills {
		if b.CreatedAt.Before(from) || b.CreatedAt.After(to) {
			continue
		}
		summary.TotalBills++
		summary.TotalRevenue = summary.TotalRevenue.Add(b.TotalAmount)
		summary.TotalTax = summary.TotalTax.Add(b.TaxAmount)
		for _, item := range b.Items {
			ps, ok := byProduct[item.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: item.ProductID, Revenue: decimal.Zero}
				byProduct[item.ProductID] = ps
			}
			ps.ProductName = item.ProductName
			ps.QuantitySold += item.Quantity
			ps.Revenue = ps.Revenue.Add(item.TotalPrice)
		}
	}
	summary.AverageBillValue = average(summary.TotalRevenue, summary.TotalBills)
	summary.TopProducts = topProducts(byProduct, topProductsLimit)
	return summary, nil
}

func topProducts(byProduct map[string]*ProductSales, limit int) []ProductSales {
	out := make([]ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].ProductID < out[j].ProductID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CustomerStats aggregates the bills of one customer, identified by phone
type CustomerStats struct {
	Phone        string          `json:"phone"`
	Name         string          `json:"name"`
	Email        *string         `json:"email"`
	Visits       int             `json:"visits"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
	AverageSpend decimal.Decimal `json:"average_spend"`
	LastVisit    time.Time       `json:"last_visit"`
}

// CustomerAnalysis ranks customers by total spend. limit <= 0 returns all.
func (s *ReportService) CustomerAnalysis(ctx context.Context, limit int) ([]CustomerStats, error) {
	bills, err := s.bills(ctx)
	if err != nil {
		return nil, err
	}

	byPhone := map[string]*CustomerStats{}
	for _, b := range bills {
		cs, ok := byPhone[b.Customer.Phone]
		if !ok {
			cs = &CustomerStats{Phone: b.Customer.Phone, TotalSpent: decimal.Zero}
			byPhone[b.Customer.Phone] = cs
		}
		cs.Visits++
		cs.TotalSpent = cs.TotalSpent.Add(b.TotalAmount)
		if !b.CreatedAt.Before(cs.LastVisit) {
			cs.LastVisit = b.CreatedAt
			cs.Name = b.Customer.Name
			cs.Email = b.Customer.Email
		}
	}

	out := make([]CustomerStats, 0, len(byPhone))
	for _, cs := range byPhone {
		cs.AverageSpend = average(cs.TotalSpent, cs.Visits)
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalSpent.Cmp(out[j].TotalSpent); c != 0 {
			return c > 0
		}
		return out[i].Phone < out[j].Phone
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// InventoryReport renders the stock table and low stock section as text
func (s *ReportService) InventoryReport(ctx context.Context) (string, error) {
	catalog, err := s.productRepo.LoadAll(ctx)
	if err != nil {
		return "", apperror.NewPersistenceError("load catalog", err)
	}
	summary, err := s.inventory.Summary(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	rule := strings.Repeat("=", 78)
	b.WriteString("INVENTORY REPORT\n" + rule + "\n")
	fmt.Fprintf(&b, "%s\nGenerated: %s\n%s\n", s.storeName, s.now().In(s.loc).Format("2006-01-02 15:04:05"), rule)
	fmt.Fprintf(&b, "%-8s %-28s %-12s %8s %6s %6s %10s\n", "ID", "NAME", "CATEGORY", "PRICE", "QTY", "MIN", "VALUE")
	b.WriteString(strings.Repeat("-", 78) + "\n")
	for _, p := range catalog.All() {
		flag := ""
		if p.IsLowStock() {
			flag = " !"
		}
		fmt.Fprintf(&b, "%-8s %-28s %-12s %8s %6d %6d %10s%s\n",
			truncate(p.ID, 8), truncate(p.Name, 28), truncate(p.Category, 12),
			p.Price.StringFixed(2), p.Quantity, p.MinStockLevel, p.StockValue().StringFixed(2), flag)
	}
	b.WriteString(strings.Repeat("-", 78) + "\n")
	fmt.Fprintf(&b, "Total products: %d\nLow stock: %d\nInventory value: %s\nStock health: %s (%s%% healthy)\n",
		summary.TotalProducts, summary.LowStockCount, summary.TotalInventoryValue.StringFixed(2),
		summary.StockHealth, summary.HealthyPercentage.StringFixed(1))
	for _, c := range summary.Categories {
		fmt.Fprintf(&b, "  %-20s %4d products %12s\n", c.Category, c.Count, c.Value.StringFixed(2))
	}
	b.WriteString(rule)
	return b.String(), nil
}

// SalesReport renders SalesSummary and the top customers as text
func (s *ReportService) SalesReport(ctx context.Context, days int) (string, error) {
	summary, err := s.SalesSummary(ctx, days)
	if err != nil {
		return "", err
	}
	customers, err := s.CustomerAnalysis(ctx, 5)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	rule := strings.Repeat("=", 60)
	b.WriteString("SALES REPORT\n" + rule + "\n")
	fmt.Fprintf(&b, "%s\nPeriod: last %d days (%s to %s)\n%s\n", s.storeName, days,
		summary.From.In(s.loc).Format("2006-01-02"), summary.To.In(s.loc).Format("2006-01-02"), rule)
	fmt.Fprintf(&b, "Total bills: %d\nTotal revenue: %s\nTotal tax: %s\nAverage bill: %s\n",
		summary.TotalBills, summary.TotalRevenue.StringFixed(2), summary.TotalTax.StringFixed(2), summary.AverageBillValue.StringFixed(2))

	b.WriteString("\nTOP PRODUCTS\n" + strings.Repeat("-", 60) + "\n")
	for i, p := range summary.TopProducts {
		fmt.Fprintf(&b, "%2d. %-32s %6d %14s\n", i+1, truncate(p.ProductName, 32), p.QuantitySold, p.Revenue.StringFixed(2))
	}
	b.WriteString("\nTOP CUSTOMERS\n" + strings.Repeat("-", 60) + "\n")
	for i, c := range customers {
		fmt.Fprintf(&b, "%2d. %-24s %-14s %4d %12s\n", i+1, truncate(c.Name, 24), c.Phone, c.Visits, c.TotalSpent.StringFixed(2))
	}
	b.WriteString(rule)
	return b.String(), nil
}

// cellNumber converts for spreadsheet cells only; the stores keep exact values.
func cellNumber(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// ExportWorkbook builds an XLSX file with products, bills, bill lines and a summary sheet
func (s *ReportService) ExportWorkbook(ctx context.Context) ([]byte, error) {
	catalog, err := s.productRepo.LoadAll(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError("load catalog", err)
	}
	bills, err := s.bills(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.inventory.Summary(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	sheets := []struct {
		name   string
		header []interface{}
		rows   [][]interface{}
	}{
		{name: "Products", header: []interface{}{"ID", "Name", "Category", "Price", "Quantity", "Min Stock", "Tax Rate", "Barcode", "Stock Value", "Low Stock"}},
		{name: "Bills", header: []interface{}{"Bill ID", "Created At", "Customer", "Phone", "Email", "Items", "Subtotal", "Tax", "Total", "Status"}},
		{name: "Bill Items", header: []interface{}{"Bill ID", "Product ID", "Product", "Quantity", "Unit Price", "Line Total", "Tax"}},
		{name: "Summary", header: []interface{}{"Metric", "Value"}},
	}

	for _, p := range catalog.All() {
		sheets[0].rows = append(sheets[0].rows, []interface{}{
			p.ID, p.Name, p.Category, cellNumber(p.Price), p.Quantity, p.MinStockLevel,
			cellNumber(p.TaxRate), p.Barcode, cellNumber(p.StockValue()), p.IsLowStock(),
		})
	}
	for _, b := range bills {
		email := ""
		if b.Customer.Email != nil {
			email = *b.Customer.Email
		}
		sheets[1].rows = append(sheets[1].rows, []interface{}{
			b.ID, b.CreatedAt.In(s.loc).Format("2006-01-02 15:04:05"), b.Customer.Name, b.Customer.Phone, email,
			b.ItemCount(), cellNumber(b.Subtotal), cellNumber(b.TaxAmount), cellNumber(b.TotalAmount), b.Status.String(),
		})
		for _, item := range b.Items {
			sheets[2].rows = append(sheets[2].rows, []interface{}{
				b.ID, item.ProductID, item.ProductName, item.Quantity,
				cellNumber(item.UnitPrice), cellNumber(item.TotalPrice), cellNumber(item.TaxAmount),
			})
		}
	}
	sheets[3].rows = [][]interface{}{
		{"Generated", s.now().In(s.loc).Format("2006-01-02 15:04:05")},
		{"Total products", summary.TotalProducts},
		{"Low stock products", summary.LowStockCount},
		{"Inventory value", cellNumber(summary.TotalInventoryValue)},
		{"Stock health", summary.StockHealth},
		{"Total bills", len(bills)},
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sh.name, "A1", &sh.header); err != nil {
			return nil, err
		}
		if err := f.SetRowStyle(sh.name, 1, 1, bold); err != nil {
			return nil, err
		}
		for r, row := range sh.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
				return nil, err
			}
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToFile writes the workbook under the reports directory and returns its path
func (s *ReportService) ExportToFile(ctx context.Context) (string, error) {
	data, err := s.ExportWorkbook(ctx)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.reportsDir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}
	path := filepath.Join(s.reportsDir, "report_"+s.now().In(s.loc).Format("20060102_150405")+".xlsx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	logx.Info().Str("path", path).Msg("report exported")
	return path, nil
}
