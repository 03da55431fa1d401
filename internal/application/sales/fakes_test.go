package sales_test

import (
	"context"
	"sync"
	"time"

	"github.com/tu-usuario/estokia-api/internal/domain/entity"
	"github.com/tu-usuario/estokia-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de persistencia
// ──────────────────────────────────────────────────────────────────────────────

// memProductRepo implementación en memoria de repository.ProductRepository.
type memProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newMemProductRepo(products ...*entity.Product) *memProductRepo {
	r := &memProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		cp := *p
		r.products[p.ID] = &cp
	}
	return r
}

func (r *memProductRepo) Create(product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetByIDForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *memProductRepo) Update(product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *memProductRepo) UpdateStock(productID string, newStock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[productID]; ok {
		p.CurrentStock = newStock
	}
	return nil
}

func (r *memProductRepo) UpdateStockLimits(productID string, minimum int, maximum *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[productID]; ok {
		p.MinimumStock = minimum
		p.MaximumStock = maximum
	}
	return nil
}

func (r *memProductRepo) List(includeInactive bool, limit, offset int) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Product
	for _, p := range r.products {
		if !includeInactive && !p.Active {
			continue
		}
		cp := *p
		list = append(list, &cp)
	}
	return list, nil
}

func (r *memProductRepo) ListLowStock() ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Product
	for _, p := range r.products {
		if p.Active && p.CurrentStock <= p.MinimumStock {
			cp := *p
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *memProductRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (r *memProductRepo) snapshot() map[string]entity.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[string]entity.Product, len(r.products))
	for id, p := range r.products {
		snap[id] = *p
	}
	return snap
}

func (r *memProductRepo) restore(snap map[string]entity.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = make(map[string]*entity.Product, len(snap))
	for id := range snap {
		cp := snap[id]
		r.products[id] = &cp
	}
}

// memMovementRepo implementación en memoria de repository.StockMovementRepository.
type memMovementRepo struct {
	mu        sync.Mutex
	movements []*entity.StockMovement
}

func (r *memMovementRepo) Create(movement *entity.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *movement
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *memMovementRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.StockMovement
	for _, m := range r.movements {
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		cp := *m
		list = append(list, &cp)
	}
	return list, len(list), nil
}

func (r *memMovementRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.movements)
}

// memTxRunner serializa transacciones y restaura el estado si el callback
// falla, emulando el rollback de PostgreSQL (clave para el modo estricto).
type memTxRunner struct {
	mu          sync.Mutex
	movRepo     *memMovementRepo
	productRepo *memProductRepo
}

func newMemTxRunner(movRepo *memMovementRepo, productRepo *memProductRepo) *memTxRunner {
	return &memTxRunner{movRepo: movRepo, productRepo: productRepo}
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	productSnap := r.productRepo.snapshot()
	r.movRepo.mu.Lock()
	movCount := len(r.movRepo.movements)
	r.movRepo.mu.Unlock()

	if err := fn(r.movRepo, r.productRepo); err != nil {
		r.productRepo.restore(productSnap)
		r.movRepo.mu.Lock()
		r.movRepo.movements = r.movRepo.movements[:movCount]
		r.movRepo.mu.Unlock()
		return err
	}
	return nil
}

// memAlertRepo implementación en memoria de repository.AlertRepository.
type memAlertRepo struct {
	mu     sync.Mutex
	alerts []*entity.Alert
}

func (r *memAlertRepo) Create(alert *entity.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *alert
	r.alerts = append(r.alerts, &cp)
	return nil
}

func (r *memAlertRepo) FindUnread(productID, alertType string) (*entity.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.ProductID == productID && a.Type == alertType && !a.Read {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memAlertRepo) ListUnread(limit, offset int) ([]*entity.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Alert
	for _, a := range r.alerts {
		if !a.Read {
			cp := *a
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *memAlertRepo) MarkRead(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.ID == id {
			a.Read = true
		}
	}
	return nil
}

func (r *memAlertRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alerts)
}

// memSaleRepo implementación en memoria de repository.SaleRepository.
type memSaleRepo struct {
	mu    sync.Mutex
	sales map[string]*entity.Sale
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{sales: make(map[string]*entity.Sale)}
}

func (r *memSaleRepo) Create(sale *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *sale
	cp.Items = append([]entity.SaleItem(nil), sale.Items...)
	r.sales[sale.ID] = &cp
	return nil
}

func (r *memSaleRepo) GetByID(id string) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	cp.Items = append([]entity.SaleItem(nil), s.Items...)
	return &cp, nil
}

func (r *memSaleRepo) UpdateStatus(id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sales[id]; ok {
		s.Status = status
	}
	return nil
}

func (r *memSaleRepo) List(filter repository.SaleFilter) ([]*entity.Sale, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Sale
	for _, s := range r.sales {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.UserID != "" && s.UserID != filter.UserID {
			continue
		}
		cp := *s
		list = append(list, &cp)
	}
	return list, len(list), nil
}

func (r *memSaleRepo) ListCompletedBetween(from, to time.Time) ([]*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Sale
	for _, s := range r.sales {
		if s.Status != entity.SaleStatusCompleted {
			continue
		}
		if s.SaleDate.Before(from) || s.SaleDate.After(to) {
			continue
		}
		cp := *s
		cp.Items = append([]entity.SaleItem(nil), s.Items...)
		list = append(list, &cp)
	}
	return list, nil
}
