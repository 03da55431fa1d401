package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	CategoryID    string          `json:"category_id,omitempty"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	CurrentStock  int             `json:"current_stock,omitempty"` // stock inicial
	MinimumStock  int             `json:"minimum_stock,omitempty"`
	MaximumStock  *int            `json:"maximum_stock,omitempty"`
	UnitOfMeasure string          `json:"unit_of_measure,omitempty"`
	Description   string          `json:"description,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id (campos opcionales).
// CurrentStock no aparece: el stock solo se mueve vía ledger.
type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	SKU           *string          `json:"sku,omitempty"`
	CategoryID    *string          `json:"category_id,omitempty"`
	CostPrice     *decimal.Decimal `json:"cost_price,omitempty"`
	SellingPrice  *decimal.Decimal `json:"selling_price,omitempty"`
	UnitOfMeasure *string          `json:"unit_of_measure,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Active        *bool            `json:"active,omitempty"`
}

// UpdateStockLimitsRequest body para PUT /api/stock/:productId/limits.
type UpdateStockLimitsRequest struct {
	MinimumStock *int `json:"minimum_stock,omitempty"`
	MaximumStock *int `json:"maximum_stock,omitempty"`
}

// ProductResponse representación de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	CategoryID    string          `json:"category_id,omitempty"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	CurrentStock  int             `json:"current_stock"`
	MinimumStock  int             `json:"minimum_stock"`
	MaximumStock  *int            `json:"maximum_stock,omitempty"`
	UnitOfMeasure string          `json:"unit_of_measure,omitempty"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
