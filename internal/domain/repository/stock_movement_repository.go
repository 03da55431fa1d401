package repository

import (
	"time"

	"github.com/tu-usuario/estokia-api/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos del ledger.
type MovementFilter struct {
	ProductID string
	Type      string
	UserID    string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockMovementRepository define el puerto de persistencia del ledger.
// Los movimientos son inmutables: solo Create y lecturas.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	List(filter MovementFilter) ([]*entity.StockMovement, int, error)
}
