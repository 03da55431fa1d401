package stock_test

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/estokia-api/internal/application/stock"
	"github.com/tu-usuario/estokia-api/internal/domain"
	"github.com/tu-usuario/estokia-api/internal/domain/entity"
	domstock "github.com/tu-usuario/estokia-api/internal/domain/stock"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testProductID = "00000000-0000-0000-0000-0000000000aa"
	testUserID    = "00000000-0000-0000-0000-000000000001"
)

func testProduct(stock int) *entity.Product {
	return &entity.Product{
		ID:           testProductID,
		SKU:          "SKU-001",
		Name:         "Tornillo M4",
		CurrentStock: stock,
		MinimumStock: 5,
		Active:       true,
	}
}

// buildLedger arma un LedgerUseCase sobre fakes en memoria.
func buildLedger(products ...*entity.Product) (*stock.LedgerUseCase, *fakeProductRepo, *fakeMovementRepo) {
	productRepo := newFakeProductRepo(products...)
	movRepo := &fakeMovementRepo{}
	uc := stock.NewLedgerUseCase(newFakeTxRunner(movRepo, productRepo), productRepo)
	return uc, productRepo, movRepo
}

func adjust(t *testing.T, uc *stock.LedgerUseCase, movType string, qty int) (*stock.MovementResult, error) {
	t.Helper()
	return uc.Adjust(context.Background(), stock.MovementInput{
		ProductID: testProductID,
		UserID:    testUserID,
		Type:      movType,
		Quantity:  qty,
		Reason:    "test",
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Adjust — semántica de signos y proyección
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_INAumentaStock(t *testing.T) {
	uc, productRepo, movRepo := buildLedger(testProduct(10))

	res, err := adjust(t, uc, domstock.TypeIN, 7)
	require.NoError(t, err)

	assert.Equal(t, 17, res.Product.CurrentStock, "IN debe sumar la cantidad")
	assert.Equal(t, 7, res.Movement.Quantity, "el ledger guarda la magnitud")

	p, _ := productRepo.GetByID(testProductID)
	assert.Equal(t, 17, p.CurrentStock, "la proyección persistida debe coincidir")
	assert.Equal(t, 1, movRepo.count(), "debe haber exactamente una fila en el ledger")
}

func TestAdjust_OUTDescuentaStock(t *testing.T) {
	uc, productRepo, _ := buildLedger(testProduct(10))

	res, err := adjust(t, uc, domstock.TypeOUT, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Product.CurrentStock, "OUT debe restar la cantidad")

	p, _ := productRepo.GetByID(testProductID)
	assert.Equal(t, 6, p.CurrentStock)
}

func TestAdjust_AdjustmentConSigno(t *testing.T) {
	uc, _, movRepo := buildLedger(testProduct(10))

	// Delta negativo: resta
	res, err := adjust(t, uc, domstock.TypeADJUSTMENT, -3)
	require.NoError(t, err)
	assert.Equal(t, 7, res.Product.CurrentStock)
	assert.Equal(t, 3, res.Movement.Quantity, "la magnitud se guarda sin signo")

	// Delta positivo: suma
	res, err = adjust(t, uc, domstock.TypeADJUSTMENT, 5)
	require.NoError(t, err)
	assert.Equal(t, 12, res.Product.CurrentStock)
	assert.Equal(t, 2, movRepo.count())
}

func TestAdjust_StockInsuficiente_NoDejaRastro(t *testing.T) {
	uc, productRepo, movRepo := buildLedger(testProduct(3))

	_, err := adjust(t, uc, domstock.TypeOUT, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "debe matchear el sentinel")

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Available, "el error debe informar lo disponible")
	assert.Equal(t, 5, insufficient.Requested, "el error debe informar lo solicitado")

	// Nada cambió: ni proyección ni ledger
	p, _ := productRepo.GetByID(testProductID)
	assert.Equal(t, 3, p.CurrentStock, "el stock no debe cambiar en un rechazo")
	assert.Equal(t, 0, movRepo.count(), "no debe quedar fila en el ledger")
}

func TestAdjust_AjusteNegativoMayorAlStock(t *testing.T) {
	uc, productRepo, _ := buildLedger(testProduct(2))

	_, err := adjust(t, uc, domstock.TypeADJUSTMENT, -10)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, _ := productRepo.GetByID(testProductID)
	assert.Equal(t, 2, p.CurrentStock)
}

func TestAdjust_ProductoInexistente(t *testing.T) {
	uc, _, _ := buildLedger() // sin productos

	_, err := adjust(t, uc, domstock.TypeIN, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjust_ProductoInactivo(t *testing.T) {
	p := testProduct(10)
	p.Active = false
	uc, _, _ := buildLedger(p)

	_, err := adjust(t, uc, domstock.TypeIN, 1)
	assert.ErrorIs(t, err, domain.ErrProductInactive)
}

func TestAdjust_EntradasInvalidas(t *testing.T) {
	uc, _, movRepo := buildLedger(testProduct(10))

	cases := []struct {
		name    string
		movType string
		qty     int
	}{
		{"cantidad cero", domstock.TypeIN, 0},
		{"IN negativo", domstock.TypeIN, -5},
		{"OUT negativo", domstock.TypeOUT, -5},
		{"tipo desconocido", "TRANSFER", 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := adjust(t, uc, tc.movType, tc.qty)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 0, movRepo.count(), "ningún input inválido debe tocar el ledger")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de concurrencia e invariantes del ledger
// ──────────────────────────────────────────────────────────────────────────────

// Dos descuentos concurrentes sobre el mismo producto con stock exacto: ambos
// deben aplicarse sin lost update y el stock final debe ser cero.
func TestApply_ConcurrenciaSinLostUpdate(t *testing.T) {
	const q1, q2 = 30, 70
	uc, productRepo, movRepo := buildLedger(testProduct(q1 + q2))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, qty := range []int{q1, q2} {
		wg.Add(1)
		go func(i, qty int) {
			defer wg.Done()
			_, errs[i] = uc.Apply(context.Background(), stock.MovementInput{
				ProductID: testProductID,
				UserID:    testUserID,
				Type:      domstock.TypeOUT,
				Quantity:  qty,
			})
		}(i, qty)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	p, _ := productRepo.GetByID(testProductID)
	assert.Equal(t, 0, p.CurrentStock, "ambos descuentos deben aplicarse exactamente una vez")
	assert.Equal(t, 2, movRepo.count())
}

// Secuencia aleatoria de movimientos: la proyección siempre debe ser igual a
// la suma de los deltas aceptados y nunca negativa.
func TestApply_SecuenciaAleatoriaMantieneInvariante(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	uc, productRepo, movRepo := buildLedger(testProduct(0))

	expected := 0
	accepted := 0
	for i := 0; i < 500; i++ {
		var movType string
		qty := rng.Intn(20) + 1
		switch rng.Intn(3) {
		case 0:
			movType = domstock.TypeIN
		case 1:
			movType = domstock.TypeOUT
		default:
			movType = domstock.TypeADJUSTMENT
			if rng.Intn(2) == 0 {
				qty = -qty
			}
		}

		delta := qty
		if movType == domstock.TypeOUT {
			delta = -qty
		}

		_, err := adjust(t, uc, movType, qty)
		if expected+delta < 0 {
			require.ErrorIs(t, err, domain.ErrInsufficientStock,
				"iteración %d: un delta que deja negativo debe rechazarse", i)
			continue
		}
		require.NoError(t, err, "iteración %d", i)
		expected += delta
		accepted++

		p, _ := productRepo.GetByID(testProductID)
		require.GreaterOrEqual(t, p.CurrentStock, 0, "el stock jamás puede ser negativo")
	}

	p, _ := productRepo.GetByID(testProductID)
	assert.Equal(t, expected, p.CurrentStock, "la proyección debe ser la suma de los deltas aceptados")
	assert.Equal(t, accepted, movRepo.count(), "una fila del ledger por movimiento aceptado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests hooks post-commit
// ──────────────────────────────────────────────────────────────────────────────

func TestHooks_SeEjecutanTrasConfirmar(t *testing.T) {
	uc, _, _ := buildLedger(testProduct(10))

	var got []stock.MovementResult
	uc.AddPostCommitHook(func(ctx context.Context, res stock.MovementResult) {
		got = append(got, res)
	})

	_, err := adjust(t, uc, domstock.TypeIN, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 15, got[0].Product.CurrentStock)
}

func TestHooks_PanicNoAfectaLaOperacion(t *testing.T) {
	uc, productRepo, _ := buildLedger(testProduct(10))

	secondRan := false
	uc.AddPostCommitHook(func(ctx context.Context, res stock.MovementResult) {
		panic("hook roto")
	})
	uc.AddPostCommitHook(func(ctx context.Context, res stock.MovementResult) {
		secondRan = true
	})

	res, err := adjust(t, uc, domstock.TypeOUT, 3)
	require.NoError(t, err, "un hook con pánico no debe afectar el movimiento")
	assert.Equal(t, 7, res.Product.CurrentStock)
	assert.True(t, secondRan, "los hooks siguientes deben ejecutarse igual")

	p, _ := productRepo.GetByID(testProductID)
	assert.Equal(t, 7, p.CurrentStock)
}

func TestHooks_NoSeDisparanEnRechazo(t *testing.T) {
	uc, _, _ := buildLedger(testProduct(1))

	ran := false
	uc.AddPostCommitHook(func(ctx context.Context, res stock.MovementResult) {
		ran = true
	})

	_, err := adjust(t, uc, domstock.TypeOUT, 5)
	require.Error(t, err)
	assert.False(t, ran, "un movimiento rechazado no debe disparar hooks")
}
