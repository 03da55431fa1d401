package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. El ciclo de vida es
// PENDING --complete--> COMPLETED --cancel--> CANCELLED.
// No hay transiciones definidas desde CANCELLED.
const (
	SaleStatusPending   = "PENDING"
	SaleStatusCompleted = "COMPLETED"
	SaleStatusCancelled = "CANCELLED"
)

// Sale representa una venta con sus líneas. Se crea en PENDING sin tocar
// stock; el descuento ocurre recién al completarla.
type Sale struct {
	ID          string
	SaleNumber  string // generado, único (SALE-<epoch ms>)
	UserID      string
	Status      string
	TotalAmount decimal.Decimal // suma de subtotales, redondeada a 2 decimales
	Customer    CustomerInfo
	SaleDate    time.Time
	Items       []SaleItem
}

// CustomerInfo datos opcionales del cliente de una venta.
type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}

// SaleItem es una línea de venta, creada atómicamente con su Sale e inmutable después.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int             // >= 1
	UnitPrice decimal.Decimal // >= 0
	Subtotal  decimal.Decimal // Quantity * UnitPrice, redondeado a 2 decimales
}
