package entity

import "time"

// Tipos y prioridades de alerta.
const (
	AlertTypeLowStock = "LOW_STOCK"

	AlertPriorityHigh     = "HIGH"
	AlertPriorityCritical = "CRITICAL"
)

// Alert es un aviso derivado del ledger (ej. stock bajo). Invariante de
// deduplicación: a lo sumo una alerta LOW_STOCK no leída por producto.
type Alert struct {
	ID        string
	ProductID string
	Type      string
	Title     string
	Message   string
	Priority  string // HIGH, CRITICAL
	Read      bool
	CreatedAt time.Time
}
