package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/estokia-api/internal/application/auth"
	"github.com/tu-usuario/estokia-api/internal/application/sales"
	"github.com/tu-usuario/estokia-api/internal/application/stock"
	"github.com/tu-usuario/estokia-api/internal/application/usecase"
	"github.com/tu-usuario/estokia-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	CategoryUC *usecase.CategoryUseCase
	ProductUC  *usecase.ProductUseCase
	LedgerUC   *stock.LedgerUseCase
	AlertUC    *stock.AlertUseCase
	ReportUC   *stock.ReportUseCase
	SalesUC    *sales.SalesUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleOperator)

	// Users (solo admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Categories (protegido)
	categories := protected.Group("/categories", anyRole)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	// Products (protegido; borrar solo admin)
	products := protected.Group("/products", anyRole)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Stock ledger (protegido)
	stockGroup := protected.Group("/stock", anyRole)
	stockHandler := NewStockHandler(deps.LedgerUC, deps.AlertUC, deps.ReportUC)
	stockGroup.Post("/bulk-adjust", stockHandler.BulkAdjust)
	stockGroup.Get("/movements", stockHandler.Movements)
	stockGroup.Get("/low", stockHandler.LowStock)
	stockGroup.Post("/:productId/adjust", stockHandler.Adjust)
	stockGroup.Get("/:productId/history", stockHandler.History)
	stockGroup.Put("/:productId/limits", stockHandler.UpdateLimits)

	// Sales (protegido)
	salesGroup := protected.Group("/sales", anyRole)
	salesHandler := NewSalesHandler(deps.SalesUC)
	salesGroup.Post("/", salesHandler.Create)
	salesGroup.Get("/", salesHandler.List)
	salesGroup.Get("/:id", salesHandler.GetByID)
	salesGroup.Patch("/:id/status", salesHandler.UpdateStatus)
	salesGroup.Get("/:id/receipt", salesHandler.ReceiptPDF)

	// Alerts (protegido)
	alerts := protected.Group("/alerts", anyRole)
	alertHandler := NewAlertHandler(deps.AlertUC)
	alerts.Get("/", alertHandler.ListUnread)
	alerts.Patch("/:id/read", alertHandler.MarkRead)

	// Reports (protegido)
	reports := protected.Group("/reports", anyRole)
	reports.Get("/inventory", stockHandler.InventoryReport)
	reports.Get("/sales", salesHandler.Report)
}
