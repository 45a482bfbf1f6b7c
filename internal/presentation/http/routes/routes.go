package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/supermarket-api/internal/application"
	"github.com/sangkips/supermarket-api/internal/config"
	domainRepo "github.com/sangkips/supermarket-api/internal/domain/repository"
	"github.com/sangkips/supermarket-api/internal/presentation/http/handler"
	"github.com/sangkips/supermarket-api/internal/presentation/http/middleware"
	"github.com/sangkips/supermarket-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Bill      *handler.BillHandler
	Inventory *handler.InventoryHandler
	Report    *handler.ReportHandler
	Printer   *handler.PrinterHandler
}

// NewHandlers builds every handler from the application services.
func NewHandlers(app *application.App) *Handlers {
	return &Handlers{
		Health:    handler.NewHealthHandler(app.Config.App.Name),
		Auth:      handler.NewAuthHandler(app.Auth),
		Product:   handler.NewProductHandler(app.Catalog),
		Bill:      handler.NewBillHandler(app.Billing, app.Printer),
		Inventory: handler.NewInventoryHandler(app.Inventory),
		Report:    handler.NewReportHandler(app.Reports),
		Printer:   handler.NewPrinterHandler(app.Printer),
	}
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter // optional; the caller owns Stop
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	handler.UseJSONFieldNames()

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Check)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health.Check)

		if deps.RateLimiter != nil {
			v1.Use(deps.RateLimiter.Middleware())
		}

		registerAuthRoutes(v1, h)

		protected := v1.Group("")
		if deps.Cfg.Auth.Enabled {
			protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(rg *gin.RouterGroup, h *Handlers) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
	}
}

func registerProtectedRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	rg.GET("/auth/me", h.Auth.Me)

	products := rg.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/categories", h.Product.Categories)
		products.GET("/barcode/:code", h.Product.GetByBarcode)
		products.POST("/bulk-quantity", h.Product.BulkQuantity)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
		products.PUT("/:id/quantity", h.Product.SetQuantity)
		products.POST("/:id/restock", idempotency, h.Product.Restock)
	}

	bills := rg.Group("/bills")
	{
		bills.GET("", h.Bill.List)
		bills.POST("", idempotency, h.Bill.Create)
		bills.GET("/:id", h.Bill.Get)
		bills.GET("/:id/receipt", h.Bill.Receipt)
	}

	rg.GET("/customers/:phone/bills", h.Bill.CustomerBills)

	inventory := rg.Group("/inventory")
	{
		inventory.GET("/summary", h.Inventory.Summary)
		inventory.GET("/low-stock", h.Inventory.LowStock)
		inventory.GET("/alerts", h.Inventory.Alerts)
		inventory.GET("/purchase-order", h.Inventory.PurchaseOrder)
		inventory.POST("/check-alerts", h.Inventory.CheckAlerts)
	}

	reports := rg.Group("/reports")
	{
		reports.GET("/daily", h.Report.Daily)
		reports.GET("/sales", h.Report.Sales)
		reports.GET("/customers", h.Report.Customers)
		reports.GET("/inventory", h.Report.Inventory)
		reports.GET("/export.xlsx", h.Report.ExportXLSX)
		reports.POST("/export", h.Report.ExportToFile)
	}

	printer := rg.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/bills/:id", h.Printer.PrintBill)
	}
}
