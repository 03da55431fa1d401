package repository

import "github.com/tu-usuario/estokia-api/internal/domain/entity"

// AlertRepository define el puerto de persistencia para alertas derivadas.
type AlertRepository interface {
	Create(alert *entity.Alert) error
	// FindUnread devuelve la alerta no leída de ese tipo para el producto,
	// o nil si no existe.
	FindUnread(productID, alertType string) (*entity.Alert, error)
	ListUnread(limit, offset int) ([]*entity.Alert, error)
	MarkRead(id string) error
}
