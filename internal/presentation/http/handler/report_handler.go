package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/supermarket-api/internal/application/service"
	"github.com/sangkips/supermarket-api/internal/presentation/http/dto/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler handles sales and inventory reports
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Daily returns the sales summary for ?date=YYYY-MM-DD, today by default
func (h *ReportHandler) Daily(c *gin.Context) {
	date, err := h.reportService.ParseDate(c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}

	summary, err := h.reportService.DailySalesSummary(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Daily summary retrieved successfully", summary)
}

// Sales returns totals and top products for the last ?days=N days (default 30)
func (h *ReportHandler) Sales(c *gin.Context) {
	days, ok := queryInt(c, "days", 30)
	if !ok {
		return
	}

	if c.Query("format") == "text" {
		text, err := h.reportService.SalesReport(c.Request.Context(), days)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.String(http.StatusOK, text)
		return
	}

	summary, err := h.reportService.SalesSummary(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales summary retrieved successfully", summary)
}

// Customers ranks customers by spend, ?limit=N (default 10, 0 for all)
func (h *ReportHandler) Customers(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 10)
	if !ok {
		return
	}

	stats, err := h.reportService.CustomerAnalysis(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer analysis retrieved successfully", stats)
}

// Inventory returns the inventory report as plain text
func (h *ReportHandler) Inventory(c *gin.Context) {
	text, err := h.reportService.InventoryReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.String(http.StatusOK, text)
}

// ExportXLSX streams the workbook as a download
func (h *ReportHandler) ExportXLSX(c *gin.Context) {
	data, err := h.reportService.ExportWorkbook(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := "report_" + time.Now().Format("20060102_150405") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ExportToFile saves the workbook under the reports directory on the server
func (h *ReportHandler) ExportToFile(c *gin.Context) {
	path, err := h.reportService.ExportToFile(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Report exported successfully", gin.H{"path": path})
}
