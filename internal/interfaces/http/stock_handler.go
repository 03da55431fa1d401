package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/estokia-api/internal/application/dto"
	"github.com/tu-usuario/estokia-api/internal/application/stock"
	"github.com/tu-usuario/estokia-api/internal/domain/repository"
)

// StockHandler maneja las peticiones HTTP del ledger de stock (protegido).
type StockHandler struct {
	ledger  *stock.LedgerUseCase
	alerts  *stock.AlertUseCase
	reports *stock.ReportUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stock.LedgerUseCase, alerts *stock.AlertUseCase, reports *stock.ReportUseCase) *StockHandler {
	return &StockHandler{ledger: ledger, alerts: alerts, reports: reports}
}

// Adjust godoc
// @Summary      Ajustar stock de un producto
// @Description  Registra un movimiento IN/OUT/ADJUSTMENT y actualiza la proyección
//
//	de stock en la misma transacción.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Param        body  body  dto.AdjustStockRequest  true  "type, quantity, unit_price, reason, notes"
// @Success      201   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productId es requerido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.ledger.Adjust(c.Context(), stock.MovementInput{
		ProductID: productID,
		UserID:    GetUserID(c),
		Type:      in.Type,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Reason:    in.Reason,
		Notes:     in.Notes,
	})
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustStockResponse{
		ProductID:    res.Product.ID,
		CurrentStock: res.Product.CurrentStock,
		Movement: dto.StockMovementResponse{
			ID:           res.Movement.ID,
			ProductID:    res.Movement.ProductID,
			UserID:       res.Movement.UserID,
			Type:         res.Movement.Type,
			Quantity:     res.Movement.Quantity,
			UnitPrice:    res.Movement.UnitPrice,
			Reason:       res.Movement.Reason,
			Notes:        res.Movement.Notes,
			MovementDate: res.Movement.MovementDate,
		},
	})
}

// BulkAdjust godoc
// @Summary      Ajustar stock en lote
// @Description  Aplica los ajustes en orden. Cada ítem es su propia unidad atómica:
//
//	un fallo se reporta en results sin abortar el resto.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkAdjustRequest  true  "adjustments"
// @Success      200   {object}  dto.BulkAdjustResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/bulk-adjust [post]
func (h *StockHandler) BulkAdjust(c *fiber.Ctx) error {
	var in dto.BulkAdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Adjustments) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "adjustments no puede estar vacío"})
	}
	out, err := h.ledger.BulkAdjust(c.Context(), GetUserID(c), in)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        type       query  string  false  "IN | OUT | ADJUSTMENT"
// @Param        from       query  string  false  "Fecha desde (RFC3339)"
// @Param        to         query  string  false  "Fecha hasta (RFC3339)"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/history [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productId es requerido"})
	}
	filter, err := movementFilterFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas inválidas (usar RFC3339)"})
	}
	out, err := h.reports.History(c.Context(), productID, filter)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Listar movimientos del ledger
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        user_id     query  string  false  "Filtrar por actor"
// @Param        type        query  string  false  "IN | OUT | ADJUSTMENT"
// @Param        from        query  string  false  "Fecha desde (RFC3339)"
// @Param        to          query  string  false  "Fecha hasta (RFC3339)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	filter, err := movementFilterFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas inválidas (usar RFC3339)"})
	}
	filter.ProductID = c.Query("product_id")
	filter.UserID = c.Query("user_id")
	out, err := h.reports.Movements(c.Context(), filter)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Description  Lista productos activos con current_stock <= minimum_stock,
//
//	los más comprometidos primero.
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/stock/low [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.reports.LowStockProducts(c.Context())
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// UpdateLimits godoc
// @Summary      Actualizar umbrales de alerta de un producto
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateStockLimitsRequest  true  "minimum_stock, maximum_stock"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/limits [put]
func (h *StockHandler) UpdateLimits(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productId es requerido"})
	}
	var in dto.UpdateStockLimitsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.alerts.UpdateStockLimits(c.Context(), productID, in)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(dto.ProductResponse{
		ID:            product.ID,
		SKU:           product.SKU,
		Name:          product.Name,
		Description:   product.Description,
		CategoryID:    product.CategoryID,
		CostPrice:     product.CostPrice,
		SellingPrice:  product.SellingPrice,
		CurrentStock:  product.CurrentStock,
		MinimumStock:  product.MinimumStock,
		MaximumStock:  product.MaximumStock,
		UnitOfMeasure: product.UnitOfMeasure,
		Active:        product.Active,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	})
}

// InventoryReport godoc
// @Summary      Reporte de inventario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        include_inactive  query  bool  false  "Incluir productos inactivos"
// @Param        low_stock_only    query  bool  false  "Solo productos con stock bajo o agotado"
// @Success      200  {object}  dto.InventoryReportResponse
// @Router       /api/reports/inventory [get]
func (h *StockHandler) InventoryReport(c *fiber.Ctx) error {
	includeInactive := c.QueryBool("include_inactive", false)
	lowStockOnly := c.QueryBool("low_stock_only", false)
	out, err := h.reports.InventoryReport(c.Context(), includeInactive, lowStockOnly)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

func movementFilterFromQuery(c *fiber.Ctx) (repository.MovementFilter, error) {
	filter := repository.MovementFilter{
		Type:   c.Query("type"),
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return filter, err
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return filter, err
		}
		filter.To = &t
	}
	return filter, nil
}
