package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/stock/:productId/adjust.
// Para IN/OUT quantity es magnitud positiva; para ADJUSTMENT es delta con signo.
type AdjustStockRequest struct {
	Type      string           `json:"type"` // IN, OUT, ADJUSTMENT
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	Notes     string           `json:"notes,omitempty"`
}

// BulkAdjustItem un ajuste dentro de un lote.
type BulkAdjustItem struct {
	ProductID string           `json:"product_id"`
	Type      string           `json:"type"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	Notes     string           `json:"notes,omitempty"`
}

// BulkAdjustRequest body para POST /api/stock/bulk-adjust.
type BulkAdjustRequest struct {
	Adjustments []BulkAdjustItem `json:"adjustments"`
}

// BulkAdjustItemResult resultado por ítem de un ajuste en lote.
type BulkAdjustItemResult struct {
	ProductID    string `json:"product_id"`
	Success      bool   `json:"success"`
	CurrentStock int    `json:"current_stock,omitempty"`
	Error        string `json:"error,omitempty"`
}

// BulkAdjustResponse resultado global de un ajuste en lote.
// Success es true solo si todos los ítems se aplicaron; Processed siempre
// es el largo del input (los fallos no abortan el resto).
type BulkAdjustResponse struct {
	Success   bool                   `json:"success"`
	Processed int                    `json:"processed"`
	Results   []BulkAdjustItemResult `json:"results"`
}

// AdjustStockResponse resultado de un ajuste individual.
type AdjustStockResponse struct {
	ProductID    string                `json:"product_id"`
	CurrentStock int                   `json:"current_stock"`
	Movement     StockMovementResponse `json:"movement"`
}

// StockMovementResponse una entrada del ledger.
type StockMovementResponse struct {
	ID           string           `json:"id"`
	ProductID    string           `json:"product_id"`
	UserID       string           `json:"user_id"`
	Type         string           `json:"type"`
	Quantity     int              `json:"quantity"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	Reason       string           `json:"reason,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	MovementDate time.Time        `json:"movement_date"`
}

// StockHistoryResponse historial de movimientos de un producto.
type StockHistoryResponse struct {
	Product   ProductResponse         `json:"product"`
	Movements []StockMovementResponse `json:"movements"`
	Total     int                     `json:"total"`
}

// MovementListResponse listado global de movimientos.
type MovementListResponse struct {
	Movements []StockMovementResponse `json:"movements"`
	Total     int                     `json:"total"`
}

// InventoryReportProduct producto enriquecido para el reporte de inventario.
type InventoryReportProduct struct {
	ProductResponse
	StockValue   decimal.Decimal `json:"stock_value"`
	IsLowStock   bool            `json:"is_low_stock"`
	IsOutOfStock bool            `json:"is_out_of_stock"`
}

// InventoryReportSummary totales del reporte de inventario.
type InventoryReportSummary struct {
	TotalProducts      int             `json:"total_products"`
	TotalValue         decimal.Decimal `json:"total_value"`
	LowStockProducts   int             `json:"low_stock_products"`
	OutOfStockProducts int             `json:"out_of_stock_products"`
}

// InventoryReportResponse reporte de inventario completo.
type InventoryReportResponse struct {
	Summary  InventoryReportSummary   `json:"summary"`
	Products []InventoryReportProduct `json:"products"`
}

// AlertResponse una alerta derivada del ledger.
type AlertResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Priority  string    `json:"priority"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
