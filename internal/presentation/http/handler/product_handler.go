package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/supermarket-api/internal/application/service"
	"github.com/sangkips/supermarket-api/internal/presentation/http/dto/request"
	"github.com/sangkips/supermarket-api/internal/presentation/http/dto/response"
	"github.com/sangkips/supermarket-api/pkg/pagination"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	catalogService *service.CatalogService
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.catalogService.ListProducts(c.Request.Context(), service.ProductFilter{
		Search:   filter.Search,
		Category: filter.Category,
		LowStock: filter.LowStock,
	}, &pagination.PaginationParams{
		Page:    filter.Page,
		PerPage: filter.PerPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// Categories lists the distinct product categories
func (h *ProductHandler) Categories(c *gin.Context) {
	categories, err := h.catalogService.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Categories retrieved successfully", categories)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		ID:            req.ID,
		Name:          req.Name,
		Category:      req.Category,
		Price:         *req.Price,
		Quantity:      req.Quantity,
		MinStockLevel: req.MinStockLevel,
		TaxRate:       req.TaxRate,
		Barcode:       req.Barcode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get handles getting a single product
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// GetByBarcode resolves a scanned barcode to a product
func (h *ProductHandler) GetByBarcode(c *gin.Context) {
	product, err := h.catalogService.GetByBarcode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles updating a product
func (h *ProductHandler) Update(c *gin.Context) {
	var req request.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), c.Param("id"), &service.UpdateProductInput{
		Name:          req.Name,
		Category:      req.Category,
		Price:         req.Price,
		MinStockLevel: req.MinStockLevel,
		TaxRate:       req.TaxRate,
		Barcode:       req.Barcode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles deleting a product
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.catalogService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// SetQuantity overwrites the quantity on hand
func (h *ProductHandler) SetQuantity(c *gin.Context) {
	var req request.SetQuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.catalogService.SetQuantity(c.Request.Context(), c.Param("id"), *req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quantity updated successfully", product)
}

// Restock adds delivered units to a product
func (h *ProductHandler) Restock(c *gin.Context) {
	var req request.RestockRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.catalogService.AddStock(c.Request.Context(), c.Param("id"), req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock added successfully", product)
}

// BulkQuantity sets several quantities in one catalog write
func (h *ProductHandler) BulkQuantity(c *gin.Context) {
	var req request.BulkQuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	results, err := h.catalogService.BulkSetQuantities(c.Request.Context(), req.Updates)
	if err != nil {
		response.Error(c, err)
		return
	}

	updated := 0
	for _, r := range results {
		if r.Success {
			updated++
		}
	}

	response.OK(c, "Bulk quantity update processed", gin.H{
		"updated": updated,
		"failed":  len(results) - updated,
		"results": results,
	})
}
