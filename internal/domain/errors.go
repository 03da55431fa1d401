package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrProductInactive    = errors.New("producto inactivo")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrSameStatus         = errors.New("la venta ya está en ese estado")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
)

// InsufficientStockError detalla un rechazo por stock insuficiente:
// qué producto, cuánto hay disponible y cuánto se pidió.
// errors.Is(err, ErrInsufficientStock) retorna true para este tipo.
type InsufficientStockError struct {
	ProductID string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: disponible %d, solicitado %d",
		e.ProductID, e.Available, e.Requested)
}

// Is permite comparar contra el sentinel ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
