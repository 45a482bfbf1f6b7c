package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/supermarket-api/internal/application/service"
	"github.com/sangkips/supermarket-api/internal/presentation/http/dto/response"
	logx "github.com/sangkips/supermarket-api/pkg/logger"
)

// InventoryHandler handles stock reporting and alerts
type InventoryHandler struct {
	inventoryService *service.InventoryService
	notify           func(ctx context.Context)
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	h := &InventoryHandler{inventoryService: inventoryService}
	h.notify = func(ctx context.Context) {
		go h.sendAlerts(ctx)
	}
	return h
}

func (h *InventoryHandler) sendAlerts(ctx context.Context) {
	n, err := h.inventoryService.NotifyLowStock(ctx)
	if err != nil {
		logx.Error().Err(err).Int("alerts", n).Msg("low stock notification failed")
	}
}

// Summary returns product counts, value and stock health
func (h *InventoryHandler) Summary(c *gin.Context) {
	summary, err := h.inventoryService.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory summary retrieved successfully", summary)
}

// LowStock returns products below their minimum level
func (h *InventoryHandler) LowStock(c *gin.Context) {
	products, err := h.inventoryService.LowStockProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock products retrieved successfully", products)
}

// Alerts returns every product bucketed into critical, low and normal
func (h *InventoryHandler) Alerts(c *gin.Context) {
	alerts, err := h.inventoryService.CategorizedAlerts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory alerts retrieved successfully", alerts)
}

// PurchaseOrder returns the purchase order text for everything that is low
func (h *InventoryHandler) PurchaseOrder(c *gin.Context) {
	order, err := h.inventoryService.CurrentPurchaseOrder(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	if c.Query("format") == "text" {
		c.String(http.StatusOK, order)
		return
	}
	response.OK(c, "Purchase order generated successfully", gin.H{"purchase_order": order})
}

// CheckAlerts starts the low stock email in the background and returns at once
func (h *InventoryHandler) CheckAlerts(c *gin.Context) {
	alerts, err := h.inventoryService.LowStockAlerts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	if len(alerts) > 0 {
		h.notify(context.WithoutCancel(c.Request.Context()))
	}

	response.Success(c, http.StatusAccepted, "Low stock check started", gin.H{
		"low_stock_count": len(alerts),
	})
}
