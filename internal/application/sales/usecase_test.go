package sales_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/estokia-api/internal/application/dto"
	"github.com/tu-usuario/estokia-api/internal/application/sales"
	"github.com/tu-usuario/estokia-api/internal/application/stock"
	"github.com/tu-usuario/estokia-api/internal/domain"
	"github.com/tu-usuario/estokia-api/internal/domain/entity"
	"github.com/tu-usuario/estokia-api/internal/domain/repository"
	domstock "github.com/tu-usuario/estokia-api/internal/domain/stock"
)

const saleUserID = "00000000-0000-0000-0000-000000000001"

func saleProduct(id string, stockQty int) *entity.Product {
	return &entity.Product{
		ID:           id,
		SKU:          "SKU-" + id,
		Name:         "Producto " + id,
		CurrentStock: stockQty,
		Active:       true,
	}
}

type salesFixture struct {
	uc          *sales.SalesUseCase
	ledger      *stock.LedgerUseCase
	saleRepo    *memSaleRepo
	productRepo *memProductRepo
	movRepo     *memMovementRepo
}

// buildSales arma el caso de uso de ventas sobre el ledger real y fakes en
// memoria: el acople venta<->ledger se prueba de punta a punta.
func buildSales(products ...*entity.Product) *salesFixture {
	productRepo := newMemProductRepo(products...)
	movRepo := &memMovementRepo{}
	txRunner := newMemTxRunner(movRepo, productRepo)
	ledger := stock.NewLedgerUseCase(txRunner, productRepo)
	saleRepo := newMemSaleRepo()
	return &salesFixture{
		uc:          sales.NewSalesUseCase(saleRepo, productRepo, ledger, txRunner),
		ledger:      ledger,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		movRepo:     movRepo,
	}
}

// withLowStockAlerts cablea la derivación de alertas como hook post-commit
// del ledger, igual que el composition root.
func (f *salesFixture) withLowStockAlerts() (*stock.AlertUseCase, *memAlertRepo) {
	alertRepo := &memAlertRepo{}
	alerts := stock.NewAlertUseCase(alertRepo, f.productRepo)
	f.ledger.AddPostCommitHook(func(ctx context.Context, res stock.MovementResult) {
		_ = alerts.CheckProduct(ctx, res.Movement.ProductID)
	})
	return alerts, alertRepo
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createSale(t *testing.T, f *salesFixture, items ...dto.SaleItemRequest) *dto.SaleResponse {
	t.Helper()
	out, err := f.uc.CreateSale(context.Background(), saleUserID, dto.CreateSaleRequest{Items: items})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CreateSale
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_TotalesYEstadoInicial(t *testing.T) {
	f := buildSales(saleProduct("p1", 10), saleProduct("p2", 10))

	out := createSale(t, f,
		dto.SaleItemRequest{ProductID: "p1", Quantity: 3, UnitPrice: price("10.50")},
		dto.SaleItemRequest{ProductID: "p2", Quantity: 2, UnitPrice: price("5.25")},
	)

	assert.Equal(t, entity.SaleStatusPending, out.Status, "una venta nace PENDING")
	assert.True(t, strings.HasPrefix(out.SaleNumber, "SALE-"), "número de venta: %s", out.SaleNumber)
	require.Len(t, out.Items, 2)
	assert.True(t, out.Items[0].Subtotal.Equal(price("31.50")), "subtotal línea 1: %s", out.Items[0].Subtotal)
	assert.True(t, out.Items[1].Subtotal.Equal(price("10.50")), "subtotal línea 2: %s", out.Items[1].Subtotal)
	assert.True(t, out.TotalAmount.Equal(price("42.00")), "total: %s", out.TotalAmount)

	// Crear no toca stock ni ledger
	p1, _ := f.productRepo.GetByID("p1")
	assert.Equal(t, 10, p1.CurrentStock, "crear una venta no descuenta stock")
	assert.Equal(t, 0, f.movRepo.count(), "crear una venta no escribe en el ledger")
}

func TestCreateSale_RedondeoADosDecimales(t *testing.T) {
	f := buildSales(saleProduct("p1", 10))

	out := createSale(t, f,
		dto.SaleItemRequest{ProductID: "p1", Quantity: 3, UnitPrice: price("0.333")},
	)

	// 3 * 0.333 = 0.999 -> 1.00
	assert.True(t, out.Items[0].Subtotal.Equal(price("1.00")), "subtotal redondeado: %s", out.Items[0].Subtotal)
	assert.True(t, out.TotalAmount.Equal(price("1.00")))
}

func TestCreateSale_PermiteCrearSinStockSuficiente(t *testing.T) {
	f := buildSales(saleProduct("p1", 1))

	out := createSale(t, f,
		dto.SaleItemRequest{ProductID: "p1", Quantity: 99, UnitPrice: price("1.00")},
	)
	assert.Equal(t, entity.SaleStatusPending, out.Status,
		"el stock se valida al completar, no al crear")
}

func TestCreateSale_Validaciones(t *testing.T) {
	inactive := saleProduct("p2", 10)
	inactive.Active = false
	f := buildSales(saleProduct("p1", 10), inactive)

	cases := []struct {
		name  string
		items []dto.SaleItemRequest
		want  error
	}{
		{"sin items", nil, domain.ErrInvalidInput},
		{"cantidad cero", []dto.SaleItemRequest{{ProductID: "p1", Quantity: 0, UnitPrice: price("1.00")}}, domain.ErrInvalidInput},
		{"precio negativo", []dto.SaleItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: price("-1.00")}}, domain.ErrInvalidInput},
		{"producto inexistente", []dto.SaleItemRequest{{ProductID: "fantasma", Quantity: 1, UnitPrice: price("1.00")}}, domain.ErrNotFound},
		{"producto inactivo", []dto.SaleItemRequest{{ProductID: "p2", Quantity: 1, UnitPrice: price("1.00")}}, domain.ErrProductInactive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.CreateSale(context.Background(), saleUserID, dto.CreateSaleRequest{Items: tc.items})
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, 0, len(f.saleRepo.sales), "ninguna venta inválida debe persistirse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests UpdateStatus — ciclo de vida y acople con el ledger
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStatus_CompletarDescuentaStock(t *testing.T) {
	f := buildSales(saleProduct("p1", 10), saleProduct("p2", 10))
	sale := createSale(t, f,
		dto.SaleItemRequest{ProductID: "p1", Quantity: 3, UnitPrice: price("10.00")},
		dto.SaleItemRequest{ProductID: "p2", Quantity: 4, UnitPrice: price("2.00")},
	)

	out, err := f.uc.UpdateStatus(context.Background(), sale.ID, entity.SaleStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, out.Status)

	p1, _ := f.productRepo.GetByID("p1")
	p2, _ := f.productRepo.GetByID("p2")
	assert.Equal(t, 7, p1.CurrentStock)
	assert.Equal(t, 6, p2.CurrentStock)

	movs, _, _ := f.movRepo.List(repository.MovementFilter{ProductID: "p1"})
	require.Len(t, movs, 1)
	assert.Equal(t, domstock.TypeOUT, movs[0].Type)
	assert.Equal(t, 3, movs[0].Quantity)
	assert.Equal(t, "Sale completion", movs[0].Reason)
	assert.Contains(t, movs[0].Notes, sale.SaleNumber, "la fila del ledger referencia la venta")
	require.NotNil(t, movs[0].UnitPrice, "el movimiento de venta lleva precio unitario")
	assert.True(t, movs[0].UnitPrice.Equal(price("10.00")))
}

func TestUpdateStatus_CancelarDevuelveStock(t *testing.T) {
	f := buildSales(saleProduct("p1", 10))
	sale := createSale(t, f,
		dto.SaleItemRequest{ProductID: "p1", Quantity: 4, UnitPrice: price("1.00")},
	)

	_, err := f.uc.UpdateStatus(context.Background(), sale.ID, entity.SaleStatusCompleted)
	require.NoError(t, err)
	out, err := f.uc.UpdateStatus(context.Background(), sale.ID, entity.SaleStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, out.Status)

	p1, _ := f.productRepo.GetByID("p1")
	assert.Equal(t, 10, p1.CurrentStock, "cancelar devuelve el stock descontado")

	movs, _, _ := f.movRepo.List(repository.MovementFilter{ProductID: "p1"})
	require.Len(t, movs, 2, "la devolución es un movimiento IN, no se borra el OUT")
	assert.Equal(t, domstock.TypeIN, movs[1].Type)
	assert.Equal(t, "Sale cancellation", movs[1].Reason)
	assert.Contains(t, movs[1].Notes, "cancelled")
}

// Completar una venta que deja el stock en o bajo el mínimo debe derivar una
// alerta vía el hook post-commit del ledger, sin intervención del motor de
// ventas: stock 5, mínimo 3, venta de 3 unidades => stock 2 y alerta HIGH.
func TestUpdateStatus_CompletarDerivaAlertaDeStockBajo(t *testing.T) {
	p := saleProduct("p1", 5)
	p.MinimumStock = 3
	f := buildSales(p)
	_, alertRepo := f.withLowStockAlerts()

	sale := createSale(t, f, dto.SaleItemRequest{ProductID: "p1", Quantity: 3, UnitPrice: price("1.00")})
	_, err := f.uc.UpdateStatus(context.Background(), sale.ID, entity.SaleStatusCompleted)
	require.NoError(t, err)

	stored, _ := f.productRepo.GetByID("p1")
	require.Equal(t, 2, stored.CurrentStock)

	alert, err := alertRepo.FindUnread("p1", entity.AlertTypeLowStock)
	require.NoError(t, err)
	require.NotNil(t, alert, "cruzar el umbral al completar debe generar la alerta")
	assert.Equal(t, entity.AlertPriorityHigh, alert.Priority)
	assert.Equal(t, 1, alertRepo.count())
}

func TestUpdateStatus_CompletacionRechazadaNoDerivaAlerta(t *testing.T) {
	p := saleProduct("p1", 2)
	p.MinimumStock = 3 // ya bajo el mínimo, pero sin movimiento confirmado
	f := buildSales(p)
	_, alertRepo := f.withLowStockAlerts()

	sale := createSale(t, f, dto.SaleItemRequest{ProductID: "p1", Quantity: 5, UnitPrice: price("1.00")})
	_, err := f.uc.UpdateStatus(context.Background(), sale.ID, entity.SaleStatusCompleted)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 0, alertRepo.count(), "un movimiento rechazado no dispara hooks ni alertas")
}

func TestUpdateStatus_MismoEstadoSeRechaza(t *testing.T) {
	f := buildSales(saleProduct("p1", 10))
	sale := createSale(t, f,
		dto.SaleItemRequest{ProductID: "p1", Quantity: 1, UnitPrice: price("1.00")},
	)

	_, err := f.uc.UpdateStatus(context.Background(), sale.ID, entity.SaleStatusPending)
	assert.ErrorIs(t, err, domain.ErrSameStatus)
	assert.Equal(t, 0, f.movRepo.count())
}

func TestUpdateStatus_TransicionesInvalidas(t *testing.T) {
	f := buildSales(saleProduct("p1", 10))

	pending := createSale(t, f, dto.SaleItemRequest{ProductID: "p1", Quantity: 1, UnitPrice: price("1.00")})

	completed := createSale(t, f, dto.SaleItemRequest{ProductID: "p1", Quantity: 1, UnitPrice: price("1.00")})
	_, err := f.uc.UpdateStatus(context.Background(), completed.ID, entity.SaleStatusCompleted)
	require.NoError(t, err)

	cancelled := createSale(t, f, dto.SaleItemRequest{ProductID: "p1", Quantity: 1, UnitPrice: price("1.00")})
	_, err = f.uc.UpdateStatus(context.Background(), cancelled.ID, entity.SaleStatusCompleted)
	require.NoError(t, err)
	_, err = f.uc.UpdateStatus(context.Background(), cancelled.ID, entity.SaleStatusCancelled)
	require.NoError(t, err)

	cases := []struct {
		name   string
		saleID string
		to     string
	}{
		{"PENDING a CANCELLED", pending.ID, entity.SaleStatusCancelled},
		{"COMPLETED a PENDING", completed.ID, entity.SaleStatusPending},
		{"CANCELLED a PENDING", cancelled.ID, entity.SaleStatusPending},
		{"CANCELLED a COMPLETED", cancelled.ID, entity.SaleStatusCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.UpdateStatus(context.Background(), tc.saleID, tc.to)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		})
	}
}

func TestUpdateStatus_EstadoDesconocido(t *testing.T) {
	f := buildSales(saleProduct("p1", 10))
	sale := createSale(t, f, dto.SaleItemRequest{ProductID: "p1", Quantity: 1, UnitPrice: price("1.00")})

	_, err := f.uc.UpdateStatus(context.Background(), sale.ID, "SHIPPED")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateStatus_VentaInexistente(t *testing.T) {
	f := buildSales()
	_, err := f.uc.UpdateStatus(context.Background(), "fantasma", entity.SaleStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Modo por defecto: cada línea se descuenta en su propia transacción. Si la
// segunda falla por stock insuficiente, la primera queda descontada y la venta
// permanece PENDING (el descuento previo queda registrado en el ledger).
func TestUpdateStatus_FalloParcialEnModoPorDefecto(t *testing.T) {
	f := buildSales(saleProduct("p1", 10), saleProduct("p2", 1))
	sale := createSale(t, f,
		dto.SaleItemRequest{ProductID: "p1", Quantity: 3, UnitPrice: price("1.00")},
		dto.SaleItemRequest{ProductID: "p2", Quantity: 5, UnitPrice: price("1.00")},
	)

	_, err := f.uc.UpdateStatus(context.Background(), sale.ID, entity.SaleStatusCompleted)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "p2", insufficient.ProductID, "el error identifica al producto ofensor")

	stored, _ := f.saleRepo.GetByID(sale.ID)
	assert.Equal(t, entity.SaleStatusPending, stored.Status, "la venta no cambia de estado si una línea falla")

	p1, _ := f.productRepo.GetByID("p1")
	p2, _ := f.productRepo.GetByID("p2")
	assert.Equal(t, 7, p1.CurrentStock, "la línea previa al fallo queda descontada")
	assert.Equal(t, 1, p2.CurrentStock, "la línea que falló no toca stock")
	assert.Equal(t, 1, f.movRepo.count())
}

// Modo estricto: todas las líneas comparten una transacción y un fallo
// revierte todo.
func TestUpdateStatus_ModoAtomicoRevierteTodo(t *testing.T) {
	f := buildSales(saleProduct("p1", 10), saleProduct("p2", 1))
	f.uc.WithAtomicCompletion(true)

	sale := createSale(t, f,
		dto.SaleItemRequest{ProductID: "p1", Quantity: 3, UnitPrice: price("1.00")},
		dto.SaleItemRequest{ProductID: "p2", Quantity: 5, UnitPrice: price("1.00")},
	)

	_, err := f.uc.UpdateStatus(context.Background(), sale.ID, entity.SaleStatusCompleted)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	p1, _ := f.productRepo.GetByID("p1")
	p2, _ := f.productRepo.GetByID("p2")
	assert.Equal(t, 10, p1.CurrentStock, "modo estricto: rollback total")
	assert.Equal(t, 1, p2.CurrentStock)
	assert.Equal(t, 0, f.movRepo.count(), "ninguna fila debe quedar en el ledger")

	stored, _ := f.saleRepo.GetByID(sale.ID)
	assert.Equal(t, entity.SaleStatusPending, stored.Status)
}

func TestUpdateStatus_ModoAtomicoExitoso(t *testing.T) {
	f := buildSales(saleProduct("p1", 10), saleProduct("p2", 10))
	f.uc.WithAtomicCompletion(true)

	sale := createSale(t, f,
		dto.SaleItemRequest{ProductID: "p1", Quantity: 3, UnitPrice: price("1.00")},
		dto.SaleItemRequest{ProductID: "p2", Quantity: 4, UnitPrice: price("1.00")},
	)

	out, err := f.uc.UpdateStatus(context.Background(), sale.ID, entity.SaleStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, out.Status)

	p1, _ := f.productRepo.GetByID("p1")
	p2, _ := f.productRepo.GetByID("p2")
	assert.Equal(t, 7, p1.CurrentStock)
	assert.Equal(t, 6, p2.CurrentStock)
	assert.Equal(t, 2, f.movRepo.count())
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests hooks de cambio de estado
// ──────────────────────────────────────────────────────────────────────────────

func TestStatusHooks_SeDisparanConElEstadoAnterior(t *testing.T) {
	f := buildSales(saleProduct("p1", 10))
	sale := createSale(t, f, dto.SaleItemRequest{ProductID: "p1", Quantity: 1, UnitPrice: price("1.00")})

	var gotOld, gotNew string
	f.uc.AddStatusHook(func(ctx context.Context, s *entity.Sale, oldStatus string) {
		gotOld, gotNew = oldStatus, s.Status
	})

	_, err := f.uc.UpdateStatus(context.Background(), sale.ID, entity.SaleStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPending, gotOld)
	assert.Equal(t, entity.SaleStatusCompleted, gotNew)
}

func TestStatusHooks_PanicNoAfectaLaTransicion(t *testing.T) {
	f := buildSales(saleProduct("p1", 10))
	sale := createSale(t, f, dto.SaleItemRequest{ProductID: "p1", Quantity: 1, UnitPrice: price("1.00")})

	secondRan := false
	f.uc.AddStatusHook(func(ctx context.Context, s *entity.Sale, oldStatus string) {
		panic("hook roto")
	})
	f.uc.AddStatusHook(func(ctx context.Context, s *entity.Sale, oldStatus string) {
		secondRan = true
	})

	out, err := f.uc.UpdateStatus(context.Background(), sale.ID, entity.SaleStatusCompleted)
	require.NoError(t, err, "un hook con pánico no debe afectar la transición")
	assert.Equal(t, entity.SaleStatusCompleted, out.Status)
	assert.True(t, secondRan)
}

func TestStatusHooks_NoSeDisparanEnFallo(t *testing.T) {
	f := buildSales(saleProduct("p1", 0))
	sale := createSale(t, f, dto.SaleItemRequest{ProductID: "p1", Quantity: 5, UnitPrice: price("1.00")})

	ran := false
	f.uc.AddStatusHook(func(ctx context.Context, s *entity.Sale, oldStatus string) {
		ran = true
	})

	_, err := f.uc.UpdateStatus(context.Background(), sale.ID, entity.SaleStatusCompleted)
	require.Error(t, err)
	assert.False(t, ran, "una transición fallida no dispara hooks")
}
