package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
	"github.com/sangkips/supermarket-api/internal/domain/enum"
	"github.com/sangkips/supermarket-api/internal/domain/repository"
	"github.com/sangkips/supermarket-api/pkg/apperror"
	"github.com/sangkips/supermarket-api/pkg/email"
	logx "github.com/sangkips/supermarket-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// InventoryThresholds holds the stock rule constants
type InventoryThresholds struct {
	ReorderFloor int // smallest suggested order
	Critical     int // quantity below this is critical
	Low          int // quantity below this is low
}

// DefaultInventoryThresholds returns the standard rule constants
func DefaultInventoryThresholds() InventoryThresholds {
	return InventoryThresholds{ReorderFloor: 50, Critical: 10, Low: 50}
}

// LowStockMailer delivers the low stock email
type LowStockMailer interface {
	SendLowStockAlert(toEmail string, alert email.LowStockAlert) error
}

// InventoryService reports on stock and raises low stock alerts
type InventoryService struct {
	productRepo repository.ProductRepository
	thresholds  InventoryThresholds
	mailer      LowStockMailer
	alertTo     string
	storeName   string
	now         func() time.Time
}

// NewInventoryService creates a new inventory service. mailer may be nil.
func NewInventoryService(
	productRepo repository.ProductRepository,
	thresholds InventoryThresholds,
	mailer LowStockMailer,
	alertTo, storeName string,
) *InventoryService {
	return &InventoryService{
		productRepo: productRepo,
		thresholds:  thresholds,
		mailer:      mailer,
		alertTo:     alertTo,
		storeName:   storeName,
		now:         time.Now,
	}
}

// SuggestedOrderQuantity is the reorder rule used everywhere:
// twice the minimum level, never less than the reorder floor.
func (s *InventoryService) SuggestedOrderQuantity(p *entity.Product) int {
	return max(s.thresholds.ReorderFloor, 2*p.MinStockLevel)
}

// StockLevel classifies a quantity on hand
func (s *InventoryService) StockLevel(quantity int) enum.StockLevel {
	switch {
	case quantity < s.thresholds.Critical:
		return enum.StockLevelCritical
	case quantity < s.thresholds.Low:
		return enum.StockLevelLow
	default:
		return enum.StockLevelNormal
	}
}

func (s *InventoryService) load(ctx context.Context) (*entity.Catalog, error) {
	catalog, err := s.productRepo.LoadAll(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError("load catalog", err)
	}
	return catalog, nil
}

func (s *InventoryService) alertsFor(catalog *entity.Catalog) []entity.InventoryAlert {
	alerts := make([]entity.InventoryAlert, 0)
	for _, p := range catalog.All() {
		if !p.IsLowStock() {
			continue
		}
		alerts = append(alerts, entity.InventoryAlert{
			ProductID:              p.ID,
			ProductName:            p.Name,
			Category:               p.Category,
			CurrentQuantity:        p.Quantity,
			MinRequired:            p.MinStockLevel,
			SuggestedOrderQuantity: s.SuggestedOrderQuantity(&p),
			UnitPrice:              p.Price,
			Level:                  s.StockLevel(p.Quantity),
		})
	}
	return alerts
}

// LowStockAlerts lists every product below its minimum level, sorted by id
func (s *InventoryService) LowStockAlerts(ctx context.Context) ([]entity.InventoryAlert, error) {
	catalog, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.alertsFor(catalog), nil
}

// LowStockProducts lists the products behind LowStockAlerts
func (s *InventoryService) LowStockProducts(ctx context.Context) ([]entity.Product, error) {
	catalog, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0)
	for _, p := range catalog.All() {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

// CategorizedAlerts groups low stock alerts by urgency
type CategorizedAlerts struct {
	Critical []entity.InventoryAlert `json:"critical"`
	Low      []entity.InventoryAlert `json:"low"`
	Normal   []entity.InventoryAlert `json:"normal"`
}

// Total is the number of alerts across all levels
func (c *CategorizedAlerts) Total() int {
	return len(c.Critical) + len(c.Low) + len(c.Normal)
}

// CategorizedAlerts splits the low stock alerts into critical, low and normal
func (s *InventoryService) CategorizedAlerts(ctx context.Context) (*CategorizedAlerts, error) {
	alerts, err := s.LowStockAlerts(ctx)
	if err != nil {
		return nil, err
	}
	out := &CategorizedAlerts{
		Critical: []entity.InventoryAlert{},
		Low:      []entity.InventoryAlert{},
		Normal:   []entity.InventoryAlert{},
	}
	for _, a := range alerts {
		switch a.Level {
		case enum.StockLevelCritical:
			out.Critical = append(out.Critical, a)
		case enum.StockLevelLow:
			out.Low = append(out.Low, a)
		default:
			out.Normal = append(out.Normal, a)
		}
	}
	return out, nil
}

// CategoryStock aggregates one product category
type CategoryStock struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Value    decimal.Decimal `json:"value"`
}

// InventorySummary is the stock overview
type InventorySummary struct {
	TotalProducts       int             `json:"total_products"`
	LowStockCount       int             `json:"low_stock_count"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	HealthyPercentage   decimal.Decimal `json:"healthy_percentage"`
	StockHealth         string          `json:"stock_health"`
	Categories          []CategoryStock `json:"categories"`
}

// Summary computes counts and values over the whole catalog
func (s *InventoryService) Summary(ctx context.Context) (*InventorySummary, error) {
	catalog, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	summary := &InventorySummary{
		TotalInventoryValue: decimal.Zero,
		HealthyPercentage:   decimal.Zero,
		Categories:          []CategoryStock{},
	}
	byCategory := map[string]*CategoryStock{}
	for _, p := range catalog.All() {
		summary.TotalProducts++
		if p.IsLowStock() {
			summary.LowStockCount++
		}
		value := p.StockValue()
		summary.TotalInventoryValue = summary.TotalInventoryValue.Add(value)

		cs, ok := byCategory[p.Category]
		if !ok {
			cs = &CategoryStock{Category: p.Category, Value: decimal.Zero}
			byCategory[p.Category] = cs
		}
		cs.Count++
		cs.Value = cs.Value.Add(value)
	}
	for _, cs := range byCategory {
		summary.Categories = append(summary.Categories, *cs)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		return summary.Categories[i].Category < summary.Categories[j].Category
	})

	if summary.TotalProducts > 0 {
		healthy := summary.TotalProducts - summary.LowStockCount
		summary.HealthyPercentage = decimal.NewFromInt(int64(healthy * 100)).
			DivRound(decimal.NewFromInt(int64(summary.TotalProducts)), 1)
	}
	summary.StockHealth = "Good"
	if summary.LowStockCount > 0 {
		summary.StockHealth = "Needs Attention"
	}
	return summary, nil
}

// PurchaseOrder renders a fixed-width purchase order for alerts.
func (s *InventoryService) PurchaseOrder(alerts []entity.InventoryAlert) string {
	if len(alerts) == 0 {
		return "No items need to be ordered."
	}

	var b strings.Builder
	rule := strings.Repeat("=", 64)
	line := strings.Repeat("-", 64)

	b.WriteString("PURCHASE ORDER\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Date: %s\n", s.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "%s Purchase Order\n", s.storeName)
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%-30s %-10s %-10s %-10s\n", "ITEM", "CURRENT", "REQUIRED", "ORDER")
	b.WriteString(line + "\n")

	total := decimal.Zero
	for _, a := range alerts {
		fmt.Fprintf(&b, "%-30s %-10d %-10d %-10d\n", truncate(a.ProductName, 30), a.CurrentQuantity, a.MinRequired, a.SuggestedOrderQuantity)
		total = total.Add(a.EstimatedCost())
	}

	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Estimated Total Order Value: $%s\n", total.StringFixed(2))
	b.WriteString(rule)
	return b.String()
}

// CurrentPurchaseOrder renders the purchase order for today's alerts
func (s *InventoryService) CurrentPurchaseOrder(ctx context.Context) (string, error) {
	alerts, err := s.LowStockAlerts(ctx)
	if err != nil {
		return "", err
	}
	return s.PurchaseOrder(alerts), nil
}

// NotifyLowStock emails the manager when anything is low. It returns the number of alerts.
func (s *InventoryService) NotifyLowStock(ctx context.Context) (int, error) {
	alerts, err := s.LowStockAlerts(ctx)
	if err != nil {
		return 0, err
	}
	if len(alerts) == 0 {
		return 0, nil
	}
	for _, a := range alerts {
		logx.Warn().Str("product_id", a.ProductID).Int("quantity", a.CurrentQuantity).Str("level", a.Level.String()).Msg("low stock")
	}
	if s.mailer == nil {
		return len(alerts), fmt.Errorf("no mailer configured, %d alerts not sent", len(alerts))
	}

	msg := email.LowStockAlert{
		StoreName:     s.storeName,
		PurchaseOrder: s.PurchaseOrder(alerts),
		Items:         make([]email.LowStockItem, 0, len(alerts)),
	}
	for _, a := range alerts {
		msg.Items = append(msg.Items, email.LowStockItem{
			ProductID: a.ProductID,
			Name:      a.ProductName,
			Current:   a.CurrentQuantity,
			Minimum:   a.MinRequired,
			Order:     a.SuggestedOrderQuantity,
			Level:     a.Level.String(),
		})
	}
	if err := s.mailer.SendLowStockAlert(s.alertTo, msg); err != nil {
		return len(alerts), err
	}
	logx.Info().Int("alerts", len(alerts)).Str("to", s.alertTo).Msg("low stock email sent")
	return len(alerts), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
