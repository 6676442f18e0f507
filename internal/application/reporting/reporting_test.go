package reporting_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/consumption"
	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/procurement"
	"github.com/jhoicas/estoque-api/internal/application/reporting"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

type fixture struct {
	store     *memory.Store
	orders    *procurement.OrderUseCase
	services  *consumption.ServiceUseCase
	history   *reporting.MovementHistory
	dashboard *reporting.DashboardUseCase
	materials *usecase.MaterialUseCase
	cache     *fakeCache
}

// fakeCache caché en memoria para observar Get/Set/Invalidate.
type fakeCache struct {
	entry *dto.DashboardResponse
	sets  int
}

func (c *fakeCache) Get(context.Context) (*dto.DashboardResponse, bool) { return c.entry, c.entry != nil }
func (c *fakeCache) Set(_ context.Context, s *dto.DashboardResponse)   { c.entry = s; c.sets++ }
func (c *fakeCache) Invalidate(context.Context)                        { c.entry = nil }

func setup(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	log := logger.Nop()
	cache := &fakeCache{}
	led := inventory.NewLedgerUseCase(runner, cache, log)
	history := reporting.NewMovementHistory(store.Reports(), store.Orders(), store.Suppliers(), log)
	return &fixture{
		store:     store,
		orders:    procurement.NewOrderUseCase(runner, led, store.Orders(), store.Suppliers(), cache, log),
		services:  consumption.NewServiceUseCase(runner, led, store.Services(), store.Materials(), store.Consumption(), cache, log),
		history:   history,
		dashboard: reporting.NewDashboardUseCase(store.Reports(), history, cache, log),
		materials: usecase.NewMaterialUseCase(store.Materials(), store.Categories(), store.Units(), cache),
		cache:     cache,
	}
}

func (f *fixture) material(t *testing.T, name, price string) *entity.Material {
	t.Helper()
	m := &entity.Material{Name: name, UnitPrice: decimal.RequireFromString(price)}
	m.Normalize()
	require.NoError(t, f.store.Materials().Create(context.Background(), m))
	return m
}

func (f *fixture) receive(t *testing.T, supplierID *int64, materialID, qty int64) *entity.PurchaseOrder {
	t.Helper()
	ctx := context.Background()
	order, err := f.orders.CreateOrder(ctx, dto.CreateOrderRequest{
		SupplierID: supplierID,
		Lines:      []dto.OrderLineRequest{{MaterialID: materialID, Quantity: qty, EstimatedUnitPrice: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	_, err = f.orders.ReceiveOrder(ctx, order.ID)
	require.NoError(t, err)
	return order
}

func TestResolveReference_Fornecedor(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	sup := &entity.Supplier{Name: "Ferragens Silva"}
	require.NoError(t, f.store.Suppliers().Create(ctx, sup))
	m := f.material(t, "parafuso", "0.10")
	order := f.receive(t, &sup.ID, m.ID, 50)

	movs, err := f.store.Movements().ListByMaterial(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)

	assert.Equal(t, "Ferragens Silva", f.history.ResolveReference(ctx, movs[0]))
	name, ok := f.history.SupplierForMovement(ctx, movs[0])
	assert.True(t, ok)
	assert.Equal(t, "Ferragens Silva", name)

	anotado := &entity.MovementRecord{Kind: entity.MovementEntrada, Reference: "Pedido #" + itoa(order.ID) + " (parcial)"}
	assert.Equal(t, "Ferragens Silva", f.history.ResolveReference(ctx, anotado))
}

func TestResolveReference_Fallback(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m := f.material(t, "cabo", "1")
	sinFornecedor := f.receive(t, nil, m.ID, 1)

	cases := []*entity.MovementRecord{
		{Kind: entity.MovementEntrada, Reference: "Pedido #abc"},
		{Kind: entity.MovementEntrada, Reference: "Pedido #999"},
		{Kind: entity.MovementEntrada, Reference: "Pedido #" + itoa(sinFornecedor.ID)},
		{Kind: entity.MovementSaida, Reference: "Pedido #" + itoa(sinFornecedor.ID)},
		{Kind: entity.MovementSaida, Reference: "Obra Escola"},
		{Kind: entity.MovementEntrada, Reference: ""},
	}
	for _, m := range cases {
		assert.Equal(t, m.Reference, f.history.ResolveReference(ctx, m), m.Reference)
	}
}

// failingOrders simula un error de repositorio al buscar el pedido.
type failingOrders struct{ repository.PurchaseOrderRepository }

func (failingOrders) GetByID(context.Context, int64) (*entity.PurchaseOrder, error) {
	return nil, errors.New("conexión perdida")
}

func TestResolveReference_ErrorDeRepositorio(t *testing.T) {
	store := memory.NewStore()
	h := reporting.NewMovementHistory(store.Reports(), failingOrders{}, store.Suppliers(), logger.Nop())
	m := &entity.MovementRecord{Kind: entity.MovementEntrada, Reference: "Pedido #1"}
	assert.Equal(t, "Pedido #1", h.ResolveReference(context.Background(), m))
}

func TestMovementHistory_Filtros(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	sup := &entity.Supplier{Name: "Hidro Center"}
	require.NoError(t, f.store.Suppliers().Create(ctx, sup))
	cano := f.material(t, "cano pvc", "5")
	fio := f.material(t, "fio", "2")
	f.receive(t, &sup.ID, cano.ID, 10)
	f.receive(t, nil, fio.ID, 10)
	svc, err := f.services.CreateService(ctx, dto.CreateServiceRequest{
		Name:  "Obra Escola",
		Items: []dto.RequiredItemRequest{{MaterialID: cano.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	_, err = f.services.RegisterConsumption(ctx, svc.ID)
	require.NoError(t, err)

	all, err := f.history.List(ctx, dto.MovementListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "SAIDA", all[0].Kind, "más reciente primero")
	assert.Equal(t, "Obra Escola", all[0].ResolvedReference)

	entradas, err := f.history.List(ctx, dto.MovementListQuery{Kind: "ENTRADA", Search: "cano"})
	require.NoError(t, err)
	require.Len(t, entradas, 1)
	assert.Equal(t, "CANO PVC", entradas[0].MaterialName)
	assert.Equal(t, "Hidro Center", entradas[0].ResolvedReference)

	porReferencia, err := f.history.List(ctx, dto.MovementListQuery{Search: "escola"})
	require.NoError(t, err)
	assert.Len(t, porReferencia, 1)
}

func TestDashboard_ResumenYCache(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.material(t, "parafuso", "0.50")
	b := f.material(t, "disjuntor", "30.00")
	f.material(t, "fusivel", "3.00") // stock 0
	f.receive(t, nil, a.ID, 100)
	f.receive(t, nil, b.ID, 2)
	svc, err := f.services.CreateService(ctx, dto.CreateServiceRequest{Name: "Quadro"})
	require.NoError(t, err)
	_, err = f.services.RegisterConsumption(ctx, svc.ID)
	require.NoError(t, err)

	sum, err := f.dashboard.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "110.00", sum.StockValue.StringFixed(2))
	assert.Equal(t, 1, sum.ServicesInExecution)
	require.Len(t, sum.CriticalMaterials, 2)
	assert.Equal(t, "FUSIVEL", sum.CriticalMaterials[0].Name)
	assert.Equal(t, int64(2), sum.CriticalMaterials[1].Stock)
	assert.Len(t, sum.RecentMovements, 2)
	assert.Equal(t, 1, f.cache.sets)

	// Segunda lectura desde caché.
	_, err = f.dashboard.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.sets)

	// Un recibimiento invalida y el próximo resumen se recalcula.
	f.receive(t, nil, b.ID, 10)
	sum, err = f.dashboard.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.cache.sets)
	assert.Equal(t, "410.00", sum.StockValue.StringFixed(2))
}

// Cambiar precio o borrar un material altera el valor de stock y los críticos del resumen.
func TestDashboard_EscriturasDeMaterialInvalidan(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.material(t, "cabo", "4.00")
	f.receive(t, nil, a.ID, 10)

	sum, err := f.dashboard.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "40.00", sum.StockValue.StringFixed(2))
	assert.Equal(t, 1, f.cache.sets)

	price := decimal.RequireFromString("5.50")
	_, err = f.materials.Update(ctx, a.ID, dto.UpdateMaterialRequest{UnitPrice: &price})
	require.NoError(t, err)
	sum, err = f.dashboard.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.cache.sets)
	assert.Equal(t, "55.00", sum.StockValue.StringFixed(2))

	b, err := f.materials.Create(ctx, dto.CreateMaterialRequest{Name: "fita", UnitPrice: decimal.NewFromInt(2)})
	require.NoError(t, err)
	sum, err = f.dashboard.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, f.cache.sets)
	require.Len(t, sum.CriticalMaterials, 1)
	assert.Equal(t, "FITA", sum.CriticalMaterials[0].Name)

	require.NoError(t, f.materials.Delete(ctx, b.ID))
	sum, err = f.dashboard.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, f.cache.sets)
	assert.Empty(t, sum.CriticalMaterials)

	// Un borrado rechazado no invalida.
	assert.ErrorIs(t, f.materials.Delete(ctx, a.ID), domain.ErrMaterialInUse)
	_, err = f.dashboard.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, f.cache.sets)
}

func itoa(n int64) string {
	return decimal.NewFromInt(n).String()
}
