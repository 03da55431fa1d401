package repository

import "github.com/tu-usuario/estokia-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// UpdateStock es de uso exclusivo del motor de stock: fuera de él, nadie
// escribe CurrentStock.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	GetByIDForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(productID string, newStock int) error
	UpdateStockLimits(productID string, minimum int, maximum *int) error
	List(includeInactive bool, limit, offset int) ([]*entity.Product, error)
	// ListLowStock lista productos activos con CurrentStock <= MinimumStock,
	// ordenados por stock ascendente.
	ListLowStock() ([]*entity.Product, error)
	Delete(id string) error
}
