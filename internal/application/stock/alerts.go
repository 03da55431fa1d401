package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/estokia-api/internal/application/dto"
	"github.com/tu-usuario/estokia-api/internal/domain"
	"github.com/tu-usuario/estokia-api/internal/domain/entity"
	"github.com/tu-usuario/estokia-api/internal/domain/repository"
)

// AlertUseCase deriva alertas de stock bajo a partir del ledger y administra
// los umbrales (MinimumStock/MaximumStock) que las disparan.
type AlertUseCase struct {
	alertRepo   repository.AlertRepository
	productRepo repository.ProductRepository
	onAlert     func(ctx context.Context, alert *entity.Alert)
}

// NewAlertUseCase construye el caso de uso.
func NewAlertUseCase(alertRepo repository.AlertRepository, productRepo repository.ProductRepository) *AlertUseCase {
	return &AlertUseCase{alertRepo: alertRepo, productRepo: productRepo}
}

// OnAlert registra un callback best-effort al crear una alerta (auditoría).
func (uc *AlertUseCase) OnAlert(fn func(ctx context.Context, alert *entity.Alert)) {
	uc.onAlert = fn
}

// CheckProduct relee el producto y, si CurrentStock <= MinimumStock, garantiza
// que exista exactamente una alerta LOW_STOCK no leída para él (check-then-insert;
// la ventana de carrera sin índice único es una limitación conocida y asumida).
// Prioridad CRITICAL con stock en cero, HIGH en otro caso. Por encima del
// mínimo no hace nada: las alertas existentes no se auto-resuelven.
func (uc *AlertUseCase) CheckProduct(ctx context.Context, productID string) error {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return nil
	}
	if !product.IsLowStock() {
		return nil
	}

	existing, err := uc.alertRepo.FindUnread(productID, entity.AlertTypeLowStock)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil // dedup: ya hay una alerta sin leer
	}

	priority := entity.AlertPriorityHigh
	if product.CurrentStock == 0 {
		priority = entity.AlertPriorityCritical
	}
	alert := &entity.Alert{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Type:      entity.AlertTypeLowStock,
		Title:     "Low Stock Alert",
		Message: fmt.Sprintf("Product %s (%s) is running low. Current stock: %d, Minimum: %d",
			product.Name, product.SKU, product.CurrentStock, product.MinimumStock),
		Priority:  priority,
		CreatedAt: time.Now(),
	}
	if err := uc.alertRepo.Create(alert); err != nil {
		return err
	}
	if uc.onAlert != nil {
		uc.onAlert(ctx, alert)
	}
	return nil
}

// UpdateStockLimits actualiza los umbrales de alerta de un producto
// (min >= 0; max >= min si ambos definidos) y reevalúa la alerta.
func (uc *AlertUseCase) UpdateStockLimits(ctx context.Context, productID string, in dto.UpdateStockLimitsRequest) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	minimum := product.MinimumStock
	maximum := product.MaximumStock
	if in.MinimumStock != nil {
		if *in.MinimumStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		minimum = *in.MinimumStock
	}
	if in.MaximumStock != nil {
		maximum = in.MaximumStock
	}
	if maximum != nil && *maximum < minimum {
		return nil, domain.ErrInvalidInput
	}

	if err := uc.productRepo.UpdateStockLimits(productID, minimum, maximum); err != nil {
		return nil, err
	}
	product.MinimumStock = minimum
	product.MaximumStock = maximum

	if err := uc.CheckProduct(ctx, productID); err != nil {
		return nil, err
	}
	return product, nil
}

// ListUnread lista alertas pendientes de atención.
func (uc *AlertUseCase) ListUnread(ctx context.Context, limit, offset int) ([]dto.AlertResponse, error) {
	alerts, err := uc.alertRepo.ListUnread(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, dto.AlertResponse{
			ID:        a.ID,
			ProductID: a.ProductID,
			Type:      a.Type,
			Title:     a.Title,
			Message:   a.Message,
			Priority:  a.Priority,
			Read:      a.Read,
			CreatedAt: a.CreatedAt,
		})
	}
	return out, nil
}

// MarkRead marca una alerta como leída (habilita que una futura caída de
// stock genere una alerta nueva).
func (uc *AlertUseCase) MarkRead(ctx context.Context, id string) error {
	return uc.alertRepo.MarkRead(id)
}
