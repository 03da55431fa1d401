package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/estokia-api/internal/application/stock"
	"github.com/tu-usuario/estokia-api/internal/domain/entity"
	"github.com/tu-usuario/estokia-api/internal/domain/repository"
)

// StockLedger interfaz para integrar el motor de ventas con el ledger.
// Apply ejecuta un movimiento como su propia unidad atómica (modo por defecto);
// ApplyInTx usa los repositorios del caller (modo estricto, una sola
// transacción para todas las líneas) y en ese caso el caller debe invocar
// NotifyApplied tras confirmar.
type StockLedger interface {
	Apply(ctx context.Context, in stock.MovementInput) (*stock.MovementResult, error)
	ApplyInTx(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		in stock.MovementInput,
		now time.Time,
	) (*stock.MovementResult, error)
	NotifyApplied(ctx context.Context, res stock.MovementResult)
}

// ReceiptLine línea enriquecida para el comprobante PDF de una venta.
type ReceiptLine struct {
	ProductName string
	SKU         string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// ReceiptGenerator genera la representación gráfica (PDF) de una venta.
type ReceiptGenerator interface {
	GenerateSaleReceipt(ctx context.Context, sale *entity.Sale, lines []ReceiptLine) ([]byte, error)
}
