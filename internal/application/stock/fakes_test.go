package stock_test

import (
	"context"
	"strings"
	"sync"

	"github.com/tu-usuario/estokia-api/internal/domain/entity"
	"github.com/tu-usuario/estokia-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de persistencia
// ──────────────────────────────────────────────────────────────────────────────

// fakeProductRepo implementación en memoria de repository.ProductRepository.
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		cp := *p
		r.products[p.ID] = &cp
	}
	return r
}

func (r *fakeProductRepo) Create(product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
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

// GetByIDForUpdate: el bloqueo de fila lo emula el mutex del fakeTxRunner.
func (r *fakeProductRepo) GetByIDForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) Update(product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdateStock(productID string, newStock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[productID]; ok {
		p.CurrentStock = newStock
	}
	return nil
}

func (r *fakeProductRepo) UpdateStockLimits(productID string, minimum int, maximum *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[productID]; ok {
		p.MinimumStock = minimum
		p.MaximumStock = maximum
	}
	return nil
}

func (r *fakeProductRepo) List(includeInactive bool, limit, offset int) ([]*entity.Product, error) {
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

func (r *fakeProductRepo) ListLowStock() ([]*entity.Product, error) {
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

func (r *fakeProductRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		p.Active = false
	}
	return nil
}

// snapshot / restore para emular rollback transaccional.
func (r *fakeProductRepo) snapshot() map[string]entity.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[string]entity.Product, len(r.products))
	for id, p := range r.products {
		snap[id] = *p
	}
	return snap
}

func (r *fakeProductRepo) restore(snap map[string]entity.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = make(map[string]*entity.Product, len(snap))
	for id := range snap {
		cp := snap[id]
		r.products[id] = &cp
	}
}

// fakeMovementRepo implementación en memoria de repository.StockMovementRepository.
type fakeMovementRepo struct {
	mu        sync.Mutex
	movements []*entity.StockMovement
}

func (r *fakeMovementRepo) Create(movement *entity.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *movement
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, int, error) {
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
		if filter.UserID != "" && m.UserID != filter.UserID {
			continue
		}
		cp := *m
		list = append(list, &cp)
	}
	total := len(list)
	return list, total, nil
}

func (r *fakeMovementRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.movements)
}

func (r *fakeMovementRepo) byProduct(productID string) []*entity.StockMovement {
	list, _, _ := r.List(repository.MovementFilter{ProductID: productID})
	return list
}

// fakeAlertRepo implementación en memoria de repository.AlertRepository.
type fakeAlertRepo struct {
	mu     sync.Mutex
	alerts []*entity.Alert
}

func (r *fakeAlertRepo) Create(alert *entity.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *alert
	r.alerts = append(r.alerts, &cp)
	return nil
}

func (r *fakeAlertRepo) FindUnread(productID, alertType string) (*entity.Alert, error) {
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

func (r *fakeAlertRepo) ListUnread(limit, offset int) ([]*entity.Alert, error) {
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

func (r *fakeAlertRepo) MarkRead(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.ID == id {
			a.Read = true
		}
	}
	return nil
}

func (r *fakeAlertRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alerts)
}

// fakeTxRunner serializa transacciones con un mutex (el equivalente en memoria
// del bloqueo de fila) y restaura el estado previo si el callback falla,
// emulando el rollback de PostgreSQL.
type fakeTxRunner struct {
	mu          sync.Mutex
	movRepo     *fakeMovementRepo
	productRepo *fakeProductRepo
}

func newFakeTxRunner(movRepo *fakeMovementRepo, productRepo *fakeProductRepo) *fakeTxRunner {
	return &fakeTxRunner{movRepo: movRepo, productRepo: productRepo}
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
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
		// rollback
		r.productRepo.restore(productSnap)
		r.movRepo.mu.Lock()
		r.movRepo.movements = r.movRepo.movements[:movCount]
		r.movRepo.mu.Unlock()
		return err
	}
	return nil
}

// containsIgnoreCase helper para mensajes de error.
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
