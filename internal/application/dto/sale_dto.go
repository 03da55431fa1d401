package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta en la creación.
type SaleItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CustomerInfoRequest datos opcionales del cliente.
type CustomerInfoRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	Items    []SaleItemRequest    `json:"items"`
	Customer *CustomerInfoRequest `json:"customer,omitempty"`
}

// UpdateSaleStatusRequest body para PATCH /api/sales/:id/status.
type UpdateSaleStatusRequest struct {
	Status string `json:"status"` // COMPLETED, CANCELLED
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse representación de una venta.
type SaleResponse struct {
	ID          string             `json:"id"`
	SaleNumber  string             `json:"sale_number"`
	UserID      string             `json:"user_id"`
	Status      string             `json:"status"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	SaleDate    time.Time          `json:"sale_date"`
	Items       []SaleItemResponse `json:"items"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// SalesReportPeriod agregado de ventas por período.
type SalesReportPeriod struct {
	Period  string          `json:"period"` // 2024-05-01 (day/week) o 2024-05 (month)
	Sales   int             `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
	Items   int             `json:"items"`
}

// SalesReportSummary totales del reporte de ventas.
type SalesReportSummary struct {
	TotalSales        int             `json:"total_sales"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	TotalItems        int             `json:"total_items"`
}

// SalesReportResponse reporte de ventas completadas agrupado por período.
type SalesReportResponse struct {
	Summary SalesReportSummary  `json:"summary"`
	Data    []SalesReportPeriod `json:"data"`
}
