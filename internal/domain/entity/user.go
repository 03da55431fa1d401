package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// User representa un usuario del sistema (actor de movimientos y ventas).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, operator
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
