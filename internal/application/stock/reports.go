package stock

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/estokia-api/internal/application/dto"
	"github.com/tu-usuario/estokia-api/internal/domain"
	"github.com/tu-usuario/estokia-api/internal/domain/entity"
	"github.com/tu-usuario/estokia-api/internal/domain/repository"
)

// ReportUseCase consultas de solo lectura sobre el ledger y el inventario.
type ReportUseCase struct {
	movRepo     repository.StockMovementRepository
	productRepo repository.ProductRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) *ReportUseCase {
	return &ReportUseCase{movRepo: movRepo, productRepo: productRepo}
}

// History devuelve el historial de movimientos de un producto con filtros.
func (uc *ReportUseCase) History(ctx context.Context, productID string, filter repository.MovementFilter) (*dto.StockHistoryResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	filter.ProductID = productID
	movements, total, err := uc.movRepo.List(filter)
	if err != nil {
		return nil, err
	}
	return &dto.StockHistoryResponse{
		Product:   toProductResponse(product),
		Movements: toMovementResponses(movements),
		Total:     total,
	}, nil
}

// Movements lista movimientos del ledger con filtros (todos los productos).
func (uc *ReportUseCase) Movements(ctx context.Context, filter repository.MovementFilter) (*dto.MovementListResponse, error) {
	movements, total, err := uc.movRepo.List(filter)
	if err != nil {
		return nil, err
	}
	return &dto.MovementListResponse{
		Movements: toMovementResponses(movements),
		Total:     total,
	}, nil
}

// LowStockProducts lista productos activos en o por debajo de su mínimo.
func (uc *ReportUseCase) LowStockProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := uc.productRepo.ListLowStock()
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// InventoryReport arma el reporte de inventario: productos enriquecidos con
// valor a costo y banderas de stock bajo/agotado, más totales.
func (uc *ReportUseCase) InventoryReport(ctx context.Context, includeInactive, lowStockOnly bool) (*dto.InventoryReportResponse, error) {
	products, err := uc.productRepo.List(includeInactive, 0, 0) // sin límite
	if err != nil {
		return nil, err
	}

	report := &dto.InventoryReportResponse{
		Summary: dto.InventoryReportSummary{TotalValue: decimal.Zero},
	}
	for _, p := range products {
		low := p.IsLowStock()
		out := p.CurrentStock == 0
		if lowStockOnly && !low && !out {
			continue
		}
		value := p.StockValue()
		report.Products = append(report.Products, dto.InventoryReportProduct{
			ProductResponse: toProductResponse(p),
			StockValue:      value,
			IsLowStock:      low,
			IsOutOfStock:    out,
		})
		report.Summary.TotalProducts++
		report.Summary.TotalValue = report.Summary.TotalValue.Add(value)
		if out {
			report.Summary.OutOfStockProducts++
		} else if low {
			report.Summary.LowStockProducts++
		}
	}
	return report, nil
}

func toMovementResponses(movements []*entity.StockMovement) []dto.StockMovementResponse {
	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return out
}

func toMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		UserID:       m.UserID,
		Type:         m.Type,
		Quantity:     m.Quantity,
		UnitPrice:    m.UnitPrice,
		Reason:       m.Reason,
		Notes:        m.Notes,
		MovementDate: m.MovementDate,
	}
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		CostPrice:     p.CostPrice,
		SellingPrice:  p.SellingPrice,
		CurrentStock:  p.CurrentStock,
		MinimumStock:  p.MinimumStock,
		MaximumStock:  p.MaximumStock,
		UnitOfMeasure: p.UnitOfMeasure,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
