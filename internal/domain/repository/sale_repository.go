package repository

import (
	"time"

	"github.com/tu-usuario/estokia-api/internal/domain/entity"
)

// SaleFilter filtros para listar ventas.
type SaleFilter struct {
	Status string
	UserID string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
// Create persiste venta y líneas como una unidad; UpdateStatus es la única
// mutación permitida después.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	UpdateStatus(id, status string) error
	List(filter SaleFilter) ([]*entity.Sale, int, error)
	// ListCompletedBetween lista ventas COMPLETED en [from, to] ordenadas por fecha,
	// con líneas cargadas (para reportes).
	ListCompletedBetween(from, to time.Time) ([]*entity.Sale, error)
}
