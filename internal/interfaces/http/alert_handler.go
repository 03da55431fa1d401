package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/estokia-api/internal/application/dto"
	"github.com/tu-usuario/estokia-api/internal/application/stock"
)

// AlertHandler maneja las peticiones HTTP de alertas (protegido).
type AlertHandler struct {
	uc *stock.AlertUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *stock.AlertUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// ListUnread godoc
// @Summary      Listar alertas sin leer
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.AlertResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) ListUnread(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.uc.ListUnread(c.Context(), limit, offset)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Marcar alerta como leída
// @Tags         alerts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la alerta"
// @Success      204
// @Router       /api/alerts/{id}/read [patch]
func (h *AlertHandler) MarkRead(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.MarkRead(c.Context(), id); err != nil {
		return handleDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
