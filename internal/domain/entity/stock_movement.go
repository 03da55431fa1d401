package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovement es una entrada del ledger de inventario: registro inmutable
// de un único evento que afecta stock. Nunca se actualiza ni se borra.
// Quantity se guarda siempre como magnitud no negativa; el signo del efecto
// lo determina Type (ver domain/stock.SignedDelta).
type StockMovement struct {
	ID           string
	ProductID    string
	UserID       string // actor
	Type         string // IN, OUT, ADJUSTMENT
	Quantity     int    // magnitud, >= 0
	UnitPrice    *decimal.Decimal
	Reason       string
	Notes        string
	MovementDate time.Time
}
