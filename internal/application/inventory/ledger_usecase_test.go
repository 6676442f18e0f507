package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

func setup(t *testing.T) (*memory.Store, *inventory.LedgerUseCase) {
	t.Helper()
	store := memory.NewStore()
	uc := inventory.NewLedgerUseCase(memory.NewTxRunner(store), nil, logger.Nop())
	return store, uc
}

func newMaterial(t *testing.T, store *memory.Store) *entity.Material {
	t.Helper()
	m := &entity.Material{Name: "LUVA", UnitPrice: decimal.NewFromInt(4)}
	require.NoError(t, store.Materials().Create(context.Background(), m))
	return m
}

func TestRegisterManualMovement_EntradaYSalida(t *testing.T) {
	store, uc := setup(t)
	ctx := context.Background()
	m := newMaterial(t, store)

	mov, err := uc.RegisterManualMovement(ctx, dto.RegisterMovementRequest{MaterialID: m.ID, Kind: "ENTRADA", Quantity: 12})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementEntrada, mov.Kind)
	assert.NotEmpty(t, mov.TransactionID)

	_, err = uc.RegisterManualMovement(ctx, dto.RegisterMovementRequest{MaterialID: m.ID, Kind: "SAIDA_MANUAL", Quantity: 5, Reference: "Quebra"})
	require.NoError(t, err)

	got, err := store.Materials().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Stock)

	rec, err := uc.Reconcile(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, rec.Consistent)
	assert.Equal(t, int64(12), rec.Inbound)
	assert.Equal(t, int64(5), rec.Outbound)
	assert.Equal(t, 2, rec.Movements)
}

// Una salida mayor que el stock no escribe nada.
func TestRegisterManualMovement_NoNegativo(t *testing.T) {
	store, uc := setup(t)
	ctx := context.Background()
	m := newMaterial(t, store)

	_, err := uc.RegisterManualMovement(ctx, dto.RegisterMovementRequest{MaterialID: m.ID, Kind: "SAIDA_MANUAL", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	movs, err := store.Movements().ListByMaterial(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestRegisterManualMovement_Validaciones(t *testing.T) {
	store, uc := setup(t)
	ctx := context.Background()
	m := newMaterial(t, store)

	_, err := uc.RegisterManualMovement(ctx, dto.RegisterMovementRequest{MaterialID: m.ID, Kind: "SAIDA", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterManualMovement(ctx, dto.RegisterMovementRequest{MaterialID: m.ID, Kind: "ENTRADA", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.RegisterManualMovement(ctx, dto.RegisterMovementRequest{MaterialID: 404, Kind: "ENTRADA", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Un stock escrito por fuera del libro aparece como desvío.
func TestReconcile_Desvio(t *testing.T) {
	store, uc := setup(t)
	ctx := context.Background()
	m := newMaterial(t, store)
	require.NoError(t, store.Materials().UpdateStock(ctx, m.ID, 3))

	rec, err := uc.Reconcile(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, rec.Consistent)
	assert.Equal(t, int64(3), rec.Drift)

	_, err = uc.Reconcile(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// interleavedRunner ejecuta after justo después de que la transacción lee el material.
type interleavedRunner struct {
	inner inventory.TxRunner
	after func()
}

func (r interleavedRunner) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	return r.inner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		repos.Materials = afterGetMaterials{MaterialRepository: repos.Materials, after: r.after}
		return fn(ctx, repos)
	})
}

type afterGetMaterials struct {
	repository.MaterialRepository
	after func()
}

func (m afterGetMaterials) GetByID(ctx context.Context, id int64) (*entity.Material, error) {
	got, err := m.MaterialRepository.GetByID(ctx, id)
	m.after()
	return got, err
}

// Una entrada que llega entre la lectura del stock y la del libro no produce un desvío falso.
func TestReconcile_EntradaConcurrenteNoGeneraDesvio(t *testing.T) {
	store, plain := setup(t)
	ctx := context.Background()
	m := newMaterial(t, store)
	_, err := plain.RegisterManualMovement(ctx, dto.RegisterMovementRequest{MaterialID: m.ID, Kind: "ENTRADA", Quantity: 10})
	require.NoError(t, err)

	var (
		once   sync.Once
		wg     sync.WaitGroup
		entErr error
	)
	runner := interleavedRunner{
		inner: memory.NewTxRunner(store),
		after: func() {
			once.Do(func() {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, entErr = plain.RegisterManualMovement(ctx, dto.RegisterMovementRequest{MaterialID: m.ID, Kind: "ENTRADA", Quantity: 5})
				}()
			})
		},
	}
	uc := inventory.NewLedgerUseCase(runner, nil, logger.Nop())

	rec, err := uc.Reconcile(ctx, m.ID)
	require.NoError(t, err)
	wg.Wait()
	require.NoError(t, entErr)
	assert.True(t, rec.Consistent)
	assert.Equal(t, rec.Stock, rec.LedgerBalance)
	assert.Zero(t, rec.Drift)

	rec, err = plain.Reconcile(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, rec.Consistent)
	assert.Equal(t, int64(15), rec.Stock)
	assert.Equal(t, 2, rec.Movements)
}
