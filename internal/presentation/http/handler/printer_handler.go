package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/supermarket-api/internal/application/service"
	"github.com/sangkips/supermarket-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.printerService.GetStatus(c.Request.Context())
	response.OK(c, "Printer status retrieved", status)
}

// PrintBill prints the receipt of a stored bill.
func (h *PrinterHandler) PrintBill(c *gin.Context) {
	receipt, err := h.printerService.PrintBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		if receipt == nil {
			response.Error(c, err)
			return
		}
		// The bill exists; hand back the receipt so the till can show it.
		response.OK(c, "Receipt generated but printing failed", gin.H{
			"receipt": receipt,
			"printed": false,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Receipt sent to printer", gin.H{
		"receipt": receipt,
		"printed": true,
	})
}
