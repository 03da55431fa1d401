package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// CurrentStock es la proyección autoritativa del ledger de movimientos:
// solo el motor de stock la escribe, y siempre junto a un StockMovement.
type Product struct {
	ID            string
	SKU           string // único
	Name          string
	Description   string
	CategoryID    string
	CostPrice     decimal.Decimal
	SellingPrice  decimal.Decimal
	CurrentStock  int
	MinimumStock  int
	MaximumStock  *int // nil = sin tope; si está definido, MinimumStock <= MaximumStock
	UnitOfMeasure string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si el stock actual está en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinimumStock
}

// StockValue devuelve el valor del inventario a costo (CostPrice * CurrentStock).
func (p *Product) StockValue() decimal.Decimal {
	return p.CostPrice.Mul(decimal.NewFromInt(int64(p.CurrentStock))).Round(2)
}
