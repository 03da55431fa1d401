package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/estokia-api/internal/application/dto"
	"github.com/tu-usuario/estokia-api/internal/application/stock"
	"github.com/tu-usuario/estokia-api/internal/domain"
	"github.com/tu-usuario/estokia-api/internal/domain/entity"
	domstock "github.com/tu-usuario/estokia-api/internal/domain/stock"
	"github.com/tu-usuario/estokia-api/internal/domain/repository"
)

// Motivos estándar de los movimientos derivados de ventas.
const (
	reasonCompletion   = "Sale completion"
	reasonCancellation = "Sale cancellation"
)

// StatusHook se invoca tras persistir un cambio de estado (auditoría).
// Best-effort: jamás afecta la operación.
type StatusHook func(ctx context.Context, sale *entity.Sale, oldStatus string)

// SalesUseCase implementa el ciclo de vida de una venta
// (PENDING -> COMPLETED -> CANCELLED) y su acople con el ledger:
// descuento de stock al completar, devolución al cancelar.
type SalesUseCase struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	ledger      StockLedger
	txRunner    stock.TxRunner
	receipts    ReceiptGenerator

	// atomicCompletion: modo estricto opcional. Por defecto cada línea se
	// descuenta en su propia transacción y un fallo a mitad de lista deja en
	// pie los descuentos previos (comportamiento heredado, ver tests).
	atomicCompletion bool
	statusHooks      []StatusHook
}

// NewSalesUseCase construye el caso de uso.
func NewSalesUseCase(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	ledger StockLedger,
	txRunner stock.TxRunner,
) *SalesUseCase {
	return &SalesUseCase{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		ledger:      ledger,
		txRunner:    txRunner,
	}
}

// WithAtomicCompletion activa el modo estricto: todas las líneas de la
// completación en una sola transacción (rollback total si una falla).
func (uc *SalesUseCase) WithAtomicCompletion(on bool) *SalesUseCase {
	uc.atomicCompletion = on
	return uc
}

// WithReceiptGenerator inyecta el generador de comprobantes PDF.
func (uc *SalesUseCase) WithReceiptGenerator(g ReceiptGenerator) *SalesUseCase {
	uc.receipts = g
	return uc
}

// AddStatusHook registra un hook post-cambio de estado.
func (uc *SalesUseCase) AddStatusHook(h StatusHook) {
	uc.statusHooks = append(uc.statusHooks, h)
}

// CreateSale valida cada línea (producto existente y activo, cantidad > 0,
// precio >= 0) y persiste la venta en PENDING con subtotales y total
// redondeados a 2 decimales. No toca stock: el descuento ocurre al completar,
// por lo que una venta PENDING puede quedar creada contra stock insuficiente.
func (uc *SalesUseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if !product.Active {
			return nil, domain.ErrProductInactive
		}
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:         uuid.New().String(),
		SaleNumber: fmt.Sprintf("SALE-%d", now.UnixMilli()),
		UserID:     userID,
		Status:     entity.SaleStatusPending,
		SaleDate:   now,
	}
	if in.Customer != nil {
		sale.Customer = entity.CustomerInfo{
			Name:  in.Customer.Name,
			Email: in.Customer.Email,
			Phone: in.Customer.Phone,
		}
	}

	total := decimal.Zero
	for _, item := range in.Items {
		subtotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		total = total.Add(subtotal)
		sale.Items = append(sale.Items, entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  subtotal,
		})
	}
	sale.TotalAmount = total.Round(2)

	if err := uc.saleRepo.Create(sale); err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// UpdateStatus aplica una transición del ciclo de vida. Reenviar el estado
// actual se rechaza con ErrSameStatus; cualquier transición fuera de
// PENDING->COMPLETED y COMPLETED->CANCELLED, con ErrInvalidTransition.
// La fila de la venta solo se actualiza después de que todas las líneas
// pasaron por el ledger.
func (uc *SalesUseCase) UpdateStatus(ctx context.Context, saleID, newStatus string) (*dto.SaleResponse, error) {
	switch newStatus {
	case entity.SaleStatusPending, entity.SaleStatusCompleted, entity.SaleStatusCancelled:
	default:
		return nil, domain.ErrInvalidInput
	}

	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status == newStatus {
		return nil, domain.ErrSameStatus
	}

	switch {
	case sale.Status == entity.SaleStatusPending && newStatus == entity.SaleStatusCompleted:
		if err := uc.completeSale(ctx, sale); err != nil {
			return nil, err
		}
	case sale.Status == entity.SaleStatusCompleted && newStatus == entity.SaleStatusCancelled:
		if err := uc.cancelSale(ctx, sale); err != nil {
			return nil, err
		}
	default:
		return nil, domain.ErrInvalidTransition
	}

	if err := uc.saleRepo.UpdateStatus(sale.ID, newStatus); err != nil {
		return nil, err
	}
	oldStatus := sale.Status
	sale.Status = newStatus

	for _, h := range uc.statusHooks {
		func() {
			defer func() { _ = recover() }()
			h(ctx, sale, oldStatus)
		}()
	}
	return toSaleResponse(sale), nil
}

// completeSale descuenta stock línea por línea (OUT). En el modo por defecto
// cada línea es su propia transacción, secuencial: si la línea k falla por
// stock insuficiente, las líneas anteriores quedan descontadas y el error
// identifica al producto ofensor. En modo estricto todas las líneas comparten
// una transacción y un fallo revierte todo.
func (uc *SalesUseCase) completeSale(ctx context.Context, sale *entity.Sale) error {
	if uc.atomicCompletion {
		return uc.completeSaleAtomic(ctx, sale)
	}
	for _, item := range sale.Items {
		if _, err := uc.ledger.Apply(ctx, uc.movementForItem(sale, item, domstock.TypeOUT)); err != nil {
			return err
		}
	}
	return nil
}

func (uc *SalesUseCase) completeSaleAtomic(ctx context.Context, sale *entity.Sale) error {
	var applied []stock.MovementResult
	now := time.Now()
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		for _, item := range sale.Items {
			res, err := uc.ledger.ApplyInTx(movRepo, productRepo, uc.movementForItem(sale, item, domstock.TypeOUT), now)
			if err != nil {
				return err
			}
			applied = append(applied, *res)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, res := range applied {
		uc.ledger.NotifyApplied(ctx, res)
	}
	return nil
}

// cancelSale devuelve el stock línea por línea (IN). Igual que la
// completación por defecto, cada línea es su propia unidad atómica.
func (uc *SalesUseCase) cancelSale(ctx context.Context, sale *entity.Sale) error {
	for _, item := range sale.Items {
		if _, err := uc.ledger.Apply(ctx, uc.movementForItem(sale, item, domstock.TypeIN)); err != nil {
			return err
		}
	}
	return nil
}

func (uc *SalesUseCase) movementForItem(sale *entity.Sale, item entity.SaleItem, movType string) stock.MovementInput {
	reason := reasonCompletion
	notes := fmt.Sprintf("Sale #%s", sale.SaleNumber)
	if movType == domstock.TypeIN {
		reason = reasonCancellation
		notes = fmt.Sprintf("Sale #%s cancelled", sale.SaleNumber)
	}
	price := item.UnitPrice
	return stock.MovementInput{
		ProductID: item.ProductID,
		UserID:    sale.UserID,
		Type:      movType,
		Quantity:  item.Quantity,
		UnitPrice: &price,
		Reason:    reason,
		Notes:     notes,
	}
}

// GetSale obtiene una venta por ID con sus líneas.
func (uc *SalesUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(sale), nil
}

// List lista ventas con filtros y paginación.
func (uc *SalesUseCase) List(ctx context.Context, filter repository.SaleFilter) (*dto.SaleListResponse, error) {
	sales, total, err := uc.saleRepo.List(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:          s.ID,
		SaleNumber:  s.SaleNumber,
		UserID:      s.UserID,
		Status:      s.Status,
		TotalAmount: s.TotalAmount,
		SaleDate:    s.SaleDate,
		Items:       make([]dto.SaleItemResponse, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return resp
}
