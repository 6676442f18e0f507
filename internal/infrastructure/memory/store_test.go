package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
)

func newMaterial(t *testing.T, store *memory.Store, name string, stock int64) *entity.Material {
	t.Helper()
	m := &entity.Material{Name: name, Stock: stock, UnitPrice: decimal.NewFromInt(1)}
	require.NoError(t, store.Materials().Create(context.Background(), m))
	return m
}

func TestTxRunner_RollbackDescartaCambios(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	m := newMaterial(t, store, "CABO", 10)

	boom := errors.New("boom")
	err := memory.NewTxRunner(store).Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		require.NoError(t, r.Materials.UpdateStock(ctx, m.ID, 3))
		require.NoError(t, r.Movements.Create(ctx, &entity.MovementRecord{
			TransactionID: "tx", MaterialID: m.ID, Kind: entity.MovementSaida, Quantity: 7,
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Materials().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Stock)
	movs, err := store.Movements().ListByMaterial(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestTxRunner_CommitVisible(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	m := newMaterial(t, store, "CABO", 10)

	err := memory.NewTxRunner(store).Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		return r.Materials.UpdateStock(ctx, m.ID, 4)
	})
	require.NoError(t, err)

	got, err := store.Materials().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Stock)
}

func TestTxRunner_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.NewTxRunner(memory.NewStore()).Run(ctx, func(context.Context, inventory.Repos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestMaterialDelete_ConHistorial(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	m := newMaterial(t, store, "TUBO", 0)
	require.NoError(t, store.Movements().Create(ctx, &entity.MovementRecord{
		TransactionID: "tx", MaterialID: m.ID, Kind: entity.MovementEntrada, Quantity: 1,
	}))

	assert.ErrorIs(t, store.Materials().Delete(ctx, m.ID), domain.ErrMaterialInUse)
	assert.ErrorIs(t, store.Materials().Delete(ctx, 999), domain.ErrNotFound)
}

func TestMaterialDelete_CascadeLineasEItems(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	a := newMaterial(t, store, "A", 0)
	b := newMaterial(t, store, "B", 0)

	order := &entity.PurchaseOrder{Status: entity.OrderPendente, Lines: []entity.OrderLine{
		{MaterialID: a.ID, Quantity: 1}, {MaterialID: b.ID, Quantity: 2},
	}}
	require.NoError(t, store.Orders().Create(ctx, order))
	svc := &entity.Service{Name: "Obra", Status: entity.ServicePlanejado, Items: []entity.RequiredItem{
		{MaterialID: a.ID, Quantity: 1},
	}}
	require.NoError(t, store.Services().Create(ctx, svc))

	require.NoError(t, store.Materials().Delete(ctx, a.ID))

	gotOrder, err := store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, gotOrder.Lines, 1)
	assert.Equal(t, b.ID, gotOrder.Lines[0].MaterialID)

	gotSvc, err := store.Services().GetByID(ctx, svc.ID)
	require.NoError(t, err)
	assert.Empty(t, gotSvc.Items)
}

func TestCatalogDelete_AnulaReferencias(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	cat := &entity.Category{Name: "Elétrica"}
	require.NoError(t, store.Categories().Create(ctx, cat))
	assert.ErrorIs(t, store.Categories().Create(ctx, &entity.Category{Name: "ELÉTRICA"}), domain.ErrDuplicate)

	m := &entity.Material{Name: "FIO", CategoryID: &cat.ID}
	require.NoError(t, store.Materials().Create(ctx, m))
	require.NoError(t, store.Categories().Delete(ctx, cat.ID))

	got, err := store.Materials().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)

	sup := &entity.Supplier{Name: "Loja"}
	require.NoError(t, store.Suppliers().Create(ctx, sup))
	order := &entity.PurchaseOrder{SupplierID: &sup.ID, Status: entity.OrderPendente}
	require.NoError(t, store.Orders().Create(ctx, order))
	require.NoError(t, store.Suppliers().Delete(ctx, sup.ID))

	gotOrder, err := store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, gotOrder.SupplierID)
}

func TestOrderCreate_LineasInvalidas(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	a := newMaterial(t, store, "A", 0)

	dup := &entity.PurchaseOrder{Status: entity.OrderPendente, Lines: []entity.OrderLine{
		{MaterialID: a.ID, Quantity: 1}, {MaterialID: a.ID, Quantity: 2},
	}}
	assert.ErrorIs(t, store.Orders().Create(ctx, dup), domain.ErrDuplicate)

	missing := &entity.PurchaseOrder{Status: entity.OrderPendente, Lines: []entity.OrderLine{{MaterialID: 42, Quantity: 1}}}
	assert.ErrorIs(t, store.Orders().Create(ctx, missing), domain.ErrNotFound)
}

func TestMaterialList_BusquedaYPaginacion(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	for _, n := range []string{"PARAFUSO 6MM", "PARAFUSO 8MM", "PREGO", "ARRUELA"} {
		newMaterial(t, store, n, 0)
	}

	got, err := store.Materials().List(ctx, repository.MaterialFilter{Search: "parafuso"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	page, err := store.Materials().List(ctx, repository.MaterialFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "PARAFUSO 6MM", page[0].Name)
	assert.Equal(t, "PARAFUSO 8MM", page[1].Name)
}
