package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/estokia-api/internal/domain"
	"github.com/tu-usuario/estokia-api/internal/domain/entity"
	"github.com/tu-usuario/estokia-api/internal/domain/repository"
	domstock "github.com/tu-usuario/estokia-api/internal/domain/stock"
)

// MovementInput entrada para aplicar un movimiento al ledger.
// Para IN/OUT Quantity es magnitud positiva; para ADJUSTMENT es delta con signo.
type MovementInput struct {
	ProductID string
	UserID    string
	Type      string
	Quantity  int
	UnitPrice *decimal.Decimal
	Reason    string
	Notes     string
}

// MovementResult movimiento persistido + proyección actualizada del producto.
type MovementResult struct {
	Movement *entity.StockMovement
	Product  *entity.Product
}

// PostCommitHook se invoca después de confirmar un movimiento (derivación de
// alertas, log de auditoría). Best-effort: un hook jamás afecta la operación.
type PostCommitHook func(ctx context.Context, res MovementResult)

// LedgerUseCase es el dueño del ledger de stock: crea movimientos y recalcula
// CurrentStock de forma atómica, con bloqueo de fila (SELECT FOR UPDATE) para
// que dos aplicaciones concurrentes sobre el mismo producto no se pisen
// (lost update).
type LedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	hooks       []PostCommitHook
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, productRepo repository.ProductRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, productRepo: productRepo}
}

// AddPostCommitHook registra un hook post-commit.
func (uc *LedgerUseCase) AddPostCommitHook(h PostCommitHook) {
	uc.hooks = append(uc.hooks, h)
}

// Adjust aplica un ajuste manual (IN/OUT/ADJUSTMENT). A diferencia de Apply,
// exige que el producto esté activo: los movimientos derivados de ventas
// saltan ese chequeo porque una venta sobre producto inactivo ya fue
// rechazada antes.
func (uc *LedgerUseCase) Adjust(ctx context.Context, in MovementInput) (*MovementResult, error) {
	if !domstock.ValidType(in.Type) || in.Quantity == 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !product.Active {
		return nil, domain.ErrProductInactive
	}
	return uc.Apply(ctx, in)
}

// Apply ejecuta la unidad atómica del ledger: dentro de una transacción
// bloquea la fila del producto, calcula el nuevo stock, rechaza si quedaría
// negativo, inserta la fila del ledger y persiste la proyección. Luego de
// confirmar dispara los hooks post-commit.
func (uc *LedgerUseCase) Apply(ctx context.Context, in MovementInput) (*MovementResult, error) {
	var res *MovementResult
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		r, err := uc.ApplyInTx(movRepo, productRepo, in, time.Now())
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.NotifyApplied(ctx, *res)
	return res, nil
}

// ApplyInTx ejecuta el movimiento usando los repositorios proporcionados
// (misma transacción del caller). Lo usa el motor de ventas en modo estricto
// para descontar todas las líneas en una sola transacción; en ese caso el
// caller es responsable de invocar NotifyApplied tras su propio commit.
func (uc *LedgerUseCase) ApplyInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	in MovementInput,
	now time.Time,
) (*MovementResult, error) {
	delta, err := domstock.SignedDelta(in.Type, in.Quantity)
	if err != nil {
		return nil, err
	}

	// Bloquea la fila del producto: serializa aplicaciones concurrentes
	product, err := productRepo.GetByIDForUpdate(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	newStock := product.CurrentStock + delta
	if newStock < 0 {
		return nil, &domain.InsufficientStockError{
			ProductID: product.ID,
			Available: product.CurrentStock,
			Requested: domstock.Magnitude(delta),
		}
	}

	movement := &entity.StockMovement{
		ID:           uuid.New().String(),
		ProductID:    in.ProductID,
		UserID:       in.UserID,
		Type:         in.Type,
		Quantity:     domstock.Magnitude(delta), // el ledger guarda la magnitud
		UnitPrice:    in.UnitPrice,
		Reason:       in.Reason,
		Notes:        in.Notes,
		MovementDate: now,
	}
	if err := movRepo.Create(movement); err != nil {
		return nil, err
	}
	if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
		return nil, err
	}
	product.CurrentStock = newStock

	return &MovementResult{Movement: movement, Product: product}, nil
}

// NotifyApplied dispara los hooks post-commit para un movimiento confirmado.
// Un pánico en un hook se contiene: el movimiento ya está confirmado y los
// efectos secundarios son best-effort.
func (uc *LedgerUseCase) NotifyApplied(ctx context.Context, res MovementResult) {
	for _, h := range uc.hooks {
		func() {
			defer func() { _ = recover() }()
			h(ctx, res)
		}()
	}
}
