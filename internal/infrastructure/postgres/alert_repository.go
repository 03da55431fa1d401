package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/estokia-api/internal/domain/entity"
	"github.com/tu-usuario/estokia-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación del puerto AlertRepository sobre PostgreSQL (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador de persistencia para alertas. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// Create persiste una alerta.
func (r *AlertRepo) Create(alert *entity.Alert) error {
	query := `
		INSERT INTO alerts (id, product_id, type, title, message, priority, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		alert.ID, alert.ProductID, alert.Type, alert.Title, alert.Message,
		alert.Priority, alert.Read, alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// FindUnread devuelve la alerta no leída de ese tipo para el producto, o nil.
func (r *AlertRepo) FindUnread(productID, alertType string) (*entity.Alert, error) {
	query := `
		SELECT id, product_id, type, title, message, priority, read, created_at
		FROM alerts WHERE product_id = $1 AND type = $2 AND NOT read
		ORDER BY created_at DESC LIMIT 1`
	var a entity.Alert
	err := r.q.QueryRow(context.Background(), query, productID, alertType).Scan(
		&a.ID, &a.ProductID, &a.Type, &a.Title, &a.Message, &a.Priority, &a.Read, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find unread alert: %w", err)
	}
	return &a, nil
}

// ListUnread lista alertas no leídas, más recientes primero.
func (r *AlertRepo) ListUnread(limit, offset int) ([]*entity.Alert, error) {
	query := `
		SELECT id, product_id, type, title, message, priority, read, created_at
		FROM alerts WHERE NOT read ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list unread alerts: %w", err)
	}
	defer rows.Close()

	var list []*entity.Alert
	for rows.Next() {
		var a entity.Alert
		if err := rows.Scan(&a.ID, &a.ProductID, &a.Type, &a.Title, &a.Message,
			&a.Priority, &a.Read, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// MarkRead marca una alerta como leída.
func (r *AlertRepo) MarkRead(id string) error {
	_, err := r.q.Exec(context.Background(), `UPDATE alerts SET read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	return nil
}
