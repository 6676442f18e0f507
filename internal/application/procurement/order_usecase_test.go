package procurement_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/procurement"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/ledger"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store   *memory.Store
	ledger  *inventory.LedgerUseCase
	orders  *procurement.OrderUseCase
	counter *countingInvalidator
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) { c.n++ }

func newFixture(t *testing.T, runner inventory.TxRunner, store *memory.Store) *fixture {
	t.Helper()
	log := logger.Nop()
	counter := &countingInvalidator{}
	led := inventory.NewLedgerUseCase(runner, counter, log)
	return &fixture{
		store:   store,
		ledger:  led,
		orders:  procurement.NewOrderUseCase(runner, led, store.Orders(), store.Suppliers(), counter, log),
		counter: counter,
	}
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return newFixture(t, memory.NewTxRunner(store), store)
}

func (f *fixture) material(t *testing.T, name string, stock int64) *entity.Material {
	t.Helper()
	ctx := context.Background()
	m := &entity.Material{Name: name, UnitPrice: decimal.RequireFromString("1.50")}
	m.Normalize()
	require.NoError(t, f.store.Materials().Create(ctx, m))
	if stock > 0 {
		_, err := f.ledger.RegisterManualMovement(ctx, dto.RegisterMovementRequest{
			MaterialID: m.ID, Kind: string(entity.MovementEntrada), Quantity: stock, Reference: "Saldo inicial",
		})
		require.NoError(t, err)
	}
	return m
}

func (f *fixture) stock(t *testing.T, id int64) int64 {
	t.Helper()
	m, err := f.store.Materials().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m.Stock
}

func (f *fixture) movements(t *testing.T, id int64) []*entity.MovementRecord {
	t.Helper()
	movs, err := f.store.Movements().ListByMaterial(context.Background(), id)
	require.NoError(t, err)
	return movs
}

func line(materialID, qty int64, price string) dto.OrderLineRequest {
	return dto.OrderLineRequest{MaterialID: materialID, Quantity: qty, EstimatedUnitPrice: decimal.RequireFromString(price)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Pedido de 50 PARAFUSO con stock 10: stock 60, una ENTRADA "Pedido #<id>", estado RECEBIDO.
func TestReceiveOrder_Parafuso(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m := f.material(t, "parafuso", 10)

	order, err := f.orders.CreateOrder(ctx, dto.CreateOrderRequest{Lines: []dto.OrderLineRequest{line(m.ID, 50, "0.25")}})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPendente, order.Status)

	got, err := f.orders.ReceiveOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderRecebido, got.Status)
	assert.Equal(t, int64(60), f.stock(t, m.ID))

	movs := f.movements(t, m.ID)
	require.Len(t, movs, 2)
	last := movs[1]
	assert.Equal(t, entity.MovementEntrada, last.Kind)
	assert.Equal(t, int64(50), last.Quantity)
	assert.Equal(t, ledger.OrderReference(order.ID), last.Reference)

	stored, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderRecebido, stored.Status)
}

// Recibir dos veces: la segunda falla con InvalidTransition y no mueve stock.
func TestReceiveOrder_DosVeces(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m := f.material(t, "cabo", 0)
	order, err := f.orders.CreateOrder(ctx, dto.CreateOrderRequest{Lines: []dto.OrderLineRequest{line(m.ID, 7, "3")}})
	require.NoError(t, err)

	_, err = f.orders.ReceiveOrder(ctx, order.ID)
	require.NoError(t, err)
	_, err = f.orders.ReceiveOrder(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Equal(t, int64(7), f.stock(t, m.ID))
	assert.Len(t, f.movements(t, m.ID), 1)
}

func TestReceiveOrder_Cancelado(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m := f.material(t, "tubo", 2)
	order, err := f.orders.CreateOrder(ctx, dto.CreateOrderRequest{Lines: []dto.OrderLineRequest{line(m.ID, 4, "10")}})
	require.NoError(t, err)

	_, err = f.orders.CancelOrder(ctx, order.ID)
	require.NoError(t, err)

	_, err = f.orders.ReceiveOrder(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, int64(2), f.stock(t, m.ID))
}

func TestCancelOrder_SoloDesdePendente(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m := f.material(t, "luva", 0)
	order, err := f.orders.CreateOrder(ctx, dto.CreateOrderRequest{Lines: []dto.OrderLineRequest{line(m.ID, 1, "1")}})
	require.NoError(t, err)
	_, err = f.orders.ReceiveOrder(ctx, order.ID)
	require.NoError(t, err)

	_, err = f.orders.CancelOrder(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderRecebido, stored.Status)
}

func TestReceiveOrder_NoExiste(t *testing.T) {
	f := setup(t)
	_, err := f.orders.ReceiveOrder(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// failingMaterials falla al actualizar el stock de un material concreto.
type failingMaterials struct {
	repository.MaterialRepository
	failOn int64
}

var errBoom = errors.New("fallo de escritura")

func (f failingMaterials) UpdateStock(ctx context.Context, id int64, stock int64) error {
	if id == f.failOn {
		return errBoom
	}
	return f.MaterialRepository.UpdateStock(ctx, id, stock)
}

type failingRunner struct {
	inner  inventory.TxRunner
	failOn int64
}

func (r failingRunner) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	return r.inner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		repos.Materials = failingMaterials{MaterialRepository: repos.Materials, failOn: r.failOn}
		return fn(ctx, repos)
	})
}

// Si falla la segunda línea no queda ni la primera entrada ni el cambio de estado.
func TestReceiveOrder_RollbackSiFallaUnaLinea(t *testing.T) {
	store := memory.NewStore()
	base := newFixture(t, memory.NewTxRunner(store), store)
	a := base.material(t, "arruela", 1)
	b := base.material(t, "bucha", 1)
	order, err := base.orders.CreateOrder(context.Background(), dto.CreateOrderRequest{
		Lines: []dto.OrderLineRequest{line(a.ID, 5, "1"), line(b.ID, 5, "1")},
	})
	require.NoError(t, err)

	f := newFixture(t, failingRunner{inner: memory.NewTxRunner(store), failOn: b.ID}, store)
	_, err = f.orders.ReceiveOrder(context.Background(), order.ID)
	require.ErrorIs(t, err, errBoom)

	assert.Equal(t, int64(1), f.stock(t, a.ID))
	assert.Equal(t, int64(1), f.stock(t, b.ID))
	assert.Len(t, f.movements(t, a.ID), 1)
	stored, err := f.orders.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPendente, stored.Status)
}

func TestCalculateTotal(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.material(t, "fio", 0)
	b := f.material(t, "disjuntor", 0)
	order, err := f.orders.CreateOrder(ctx, dto.CreateOrderRequest{Lines: []dto.OrderLineRequest{line(a.ID, 100, "0.35")}})
	require.NoError(t, err)
	assert.Equal(t, "35.00", order.EstimatedTotal.StringFixed(2))

	_, err = f.orders.AddLine(ctx, order.ID, line(b.ID, 2, "42.90"))
	require.NoError(t, err)

	total, err := f.orders.CalculateTotal(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "120.80", total.StringFixed(2))

	stored, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.EstimatedTotal.Equal(total))
}

func TestAddLine_SoloPendente(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.material(t, "fita", 0)
	b := f.material(t, "cola", 0)
	order, err := f.orders.CreateOrder(ctx, dto.CreateOrderRequest{Lines: []dto.OrderLineRequest{line(a.ID, 1, "1")}})
	require.NoError(t, err)

	_, err = f.orders.AddLine(ctx, order.ID, line(a.ID, 3, "1"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.orders.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	_, err = f.orders.AddLine(ctx, order.ID, line(b.ID, 1, "1"))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.orders.RemoveLine(ctx, order.ID, a.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestRemoveLine_RecalculaTotal(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.material(t, "prego", 0)
	b := f.material(t, "martelo", 0)
	order, err := f.orders.CreateOrder(ctx, dto.CreateOrderRequest{
		Lines: []dto.OrderLineRequest{line(a.ID, 10, "0.10"), line(b.ID, 1, "25")},
	})
	require.NoError(t, err)
	assert.Equal(t, "26.00", order.EstimatedTotal.StringFixed(2))

	got, err := f.orders.RemoveLine(ctx, order.ID, b.ID)
	require.NoError(t, err)
	assert.Len(t, got.Lines, 1)
	assert.Equal(t, "1.00", got.EstimatedTotal.StringFixed(2))

	_, err = f.orders.RemoveLine(ctx, order.ID, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateOrder_Validaciones(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m := f.material(t, "serra", 0)

	_, err := f.orders.CreateOrder(ctx, dto.CreateOrderRequest{Lines: []dto.OrderLineRequest{line(m.ID, 0, "1")}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.orders.CreateOrder(ctx, dto.CreateOrderRequest{Lines: []dto.OrderLineRequest{line(m.ID, 1, "-1")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing := int64(77)
	_, err = f.orders.CreateOrder(ctx, dto.CreateOrderRequest{SupplierID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.orders.CreateOrder(ctx, dto.CreateOrderRequest{Lines: []dto.OrderLineRequest{line(999, 1, "1")}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListOrders_FiltroFornecedor(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	sup := &entity.Supplier{Name: "Casa do Parafuso"}
	require.NoError(t, f.store.Suppliers().Create(ctx, sup))

	_, err := f.orders.CreateOrder(ctx, dto.CreateOrderRequest{SupplierID: &sup.ID})
	require.NoError(t, err)
	_, err = f.orders.CreateOrder(ctx, dto.CreateOrderRequest{})
	require.NoError(t, err)

	list, err := f.orders.ListOrders(ctx, dto.OrderListQuery{SupplierID: sup.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, sup.ID, *list[0].SupplierID)

	all, err := f.orders.ListOrders(ctx, dto.OrderListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	months, err := f.orders.AvailableMonths(ctx)
	require.NoError(t, err)
	assert.Len(t, months, 1)

	_, err = f.orders.ListOrders(ctx, dto.OrderListQuery{Month: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReceiveOrder_InvalidaCache(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m := f.material(t, "broca", 0)
	order, err := f.orders.CreateOrder(ctx, dto.CreateOrderRequest{Lines: []dto.OrderLineRequest{line(m.ID, 1, "1")}})
	require.NoError(t, err)
	before := f.counter.n

	_, err = f.orders.ReceiveOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, before+1, f.counter.n)

	_, err = f.orders.ReceiveOrder(ctx, order.ID)
	require.Error(t, err)
	assert.Equal(t, before+1, f.counter.n, "un rechazo no invalida")
}
