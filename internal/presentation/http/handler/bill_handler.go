package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/supermarket-api/internal/application/service"
	"github.com/sangkips/supermarket-api/internal/presentation/http/dto/request"
	"github.com/sangkips/supermarket-api/internal/presentation/http/dto/response"
	logx "github.com/sangkips/supermarket-api/pkg/logger"
	"github.com/sangkips/supermarket-api/pkg/pagination"
)

// BillHandler handles sales and bill lookups
type BillHandler struct {
	billingService *service.BillingService
	printerService *service.PrinterService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billingService *service.BillingService, printerService *service.PrinterService) *BillHandler {
	return &BillHandler{billingService: billingService, printerService: printerService}
}

// Create records a sale
func (h *BillHandler) Create(c *gin.Context) {
	var req request.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	items := make([]service.RequestedItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.RequestedItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	bill, err := h.billingService.CreateBill(c.Request.Context(), service.CustomerInput{
		Name:  req.Customer.Name,
		Phone: req.Customer.Phone,
		Email: req.Customer.Email,
	}, items)
	if err != nil {
		response.Error(c, err)
		return
	}

	if op := GetOperator(c); op != "" {
		logx.Debug().Str("bill_id", bill.ID).Str("operator", op).Msg("bill rung up")
	}

	response.Created(c, "Bill created successfully", bill)
}

// List returns bills newest first; ?customer filters by name
func (h *BillHandler) List(c *gin.Context) {
	var filter request.BillFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	params := &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage}

	if filter.Customer != "" {
		bills, err := h.billingService.SearchByCustomerName(c.Request.Context(), filter.Customer)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.SuccessWithPagination(c, 200, "Bills retrieved successfully", pagination.Paginate(bills, params))
		return
	}

	result, err := h.billingService.ListBills(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Bills retrieved successfully", result)
}

// Get returns a single bill
func (h *BillHandler) Get(c *gin.Context) {
	bill, err := h.billingService.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// Receipt returns the receipt of a bill, as JSON or as plain text with ?format=text
func (h *BillHandler) Receipt(c *gin.Context) {
	receipt, text, err := h.printerService.ReceiptForBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if c.Query("format") == "text" {
		c.String(200, text)
		return
	}

	response.OK(c, "Receipt generated successfully", gin.H{
		"receipt": receipt,
		"text":    text,
	})
}

// CustomerBills returns the customer details and history for a phone number
func (h *BillHandler) CustomerBills(c *gin.Context) {
	phone := c.Param("phone")
	customer, err := h.billingService.CustomerByPhone(c.Request.Context(), phone)
	if err != nil {
		response.Error(c, err)
		return
	}
	bills, err := h.billingService.BillsByPhone(c.Request.Context(), phone)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer bills retrieved successfully", gin.H{
		"customer": customer,
		"bills":    bills,
	})
}
