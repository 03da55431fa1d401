// Package stock contiene la lógica pura del ledger de inventario:
// la semántica de signo por tipo de movimiento vive aquí y en ningún otro lado.
package stock

import "github.com/tu-usuario/estokia-api/internal/domain"

// Tipos de movimiento de inventario (variante cerrada).
const (
	TypeIN         = "IN"         // entrada: quantity es magnitud positiva
	TypeOUT        = "OUT"        // salida: quantity es magnitud positiva
	TypeADJUSTMENT = "ADJUSTMENT" // ajuste: quantity es delta con signo
)

// ValidType indica si t es un tipo de movimiento conocido.
func ValidType(t string) bool {
	switch t {
	case TypeIN, TypeOUT, TypeADJUSTMENT:
		return true
	}
	return false
}

// SignedDelta calcula el efecto con signo de un movimiento sobre el stock.
// IN y OUT toman quantity como magnitud sin signo (debe ser > 0) y el tipo
// fija la dirección; ADJUSTMENT toma quantity como delta ya con signo.
func SignedDelta(movType string, quantity int) (int, error) {
	switch movType {
	case TypeIN:
		if quantity <= 0 {
			return 0, domain.ErrInvalidInput
		}
		return quantity, nil
	case TypeOUT:
		if quantity <= 0 {
			return 0, domain.ErrInvalidInput
		}
		return -quantity, nil
	case TypeADJUSTMENT:
		if quantity == 0 {
			return 0, domain.ErrInvalidInput
		}
		return quantity, nil
	}
	return 0, domain.ErrInvalidInput
}

// Magnitude devuelve el valor absoluto a persistir en el ledger.
func Magnitude(delta int) int {
	if delta < 0 {
		return -delta
	}
	return delta
}
