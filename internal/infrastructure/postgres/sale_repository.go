package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/estokia-api/internal/domain"
	"github.com/tu-usuario/estokia-api/internal/domain/entity"
	"github.com/tu-usuario/estokia-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
// Necesita el pool (no un Querier): Create abre su propia transacción para
// persistir venta y líneas como una unidad.
type SaleRepo struct {
	pool beginQuerier
}

// beginQuerier es un Querier que además puede abrir transacciones (*pgxpool.Pool).
type beginQuerier interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// NewSaleRepository construye el adaptador de persistencia para ventas.
func NewSaleRepository(pool beginQuerier) *SaleRepo {
	return &SaleRepo{pool: pool}
}

// Create persiste la venta y todas sus líneas en una transacción.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO sales (id, sale_number, user_id, status, total_amount, customer_name, customer_email, customer_phone, sale_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sale.ID, sale.SaleNumber, sale.UserID, sale.Status, sale.TotalAmount,
		sale.Customer.Name, sale.Customer.Email, sale.Customer.Phone, sale.SaleDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, item := range sale.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una venta con sus líneas.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `
		SELECT id, sale_number, user_id, status, total_amount, customer_name, customer_email, customer_phone, sale_date
		FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.pool.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.SaleNumber, &s.UserID, &s.Status, &s.TotalAmount,
		&s.Customer.Name, &s.Customer.Email, &s.Customer.Phone, &s.SaleDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	items, err := r.itemsFor(s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

// UpdateStatus cambia el estado de la venta. Única mutación permitida post-creación.
func (r *SaleRepo) UpdateStatus(id, status string) error {
	cmd, err := r.pool.Exec(context.Background(),
		`UPDATE sales SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista ventas con filtros y total sin paginar. Las líneas se cargan por venta.
func (r *SaleRepo) List(filter repository.SaleFilter) ([]*entity.Sale, int, error) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.UserID != "" {
		add("user_id = $%d", filter.UserID)
	}
	if filter.From != nil {
		add("sale_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("sale_date <= $%d", *filter.To)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(context.Background(),
		`SELECT count(*) FROM sales`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	query := `
		SELECT id, sale_number, user_id, status, total_amount, customer_name, customer_email, customer_phone, sale_date
		FROM sales` + where + ` ORDER BY sale_date DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	sales, err := r.querySales(query, args...)
	if err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

// ListCompletedBetween lista ventas COMPLETED en [from, to] con líneas, para reportes.
func (r *SaleRepo) ListCompletedBetween(from, to time.Time) ([]*entity.Sale, error) {
	query := `
		SELECT id, sale_number, user_id, status, total_amount, customer_name, customer_email, customer_phone, sale_date
		FROM sales WHERE status = $1 AND sale_date >= $2 AND sale_date <= $3
		ORDER BY sale_date ASC`
	return r.querySales(query, entity.SaleStatusCompleted, from, to)
}

func (r *SaleRepo) querySales(query string, args ...any) ([]*entity.Sale, error) {
	rows, err := r.pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.SaleNumber, &s.UserID, &s.Status, &s.TotalAmount,
			&s.Customer.Name, &s.Customer.Email, &s.Customer.Phone, &s.SaleDate); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range list {
		items, err := r.itemsFor(s.ID)
		if err != nil {
			return nil, err
		}
		s.Items = items
	}
	return list, nil
}

func (r *SaleRepo) itemsFor(saleID string) ([]entity.SaleItem, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()

	var items []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
