// Package storage arma el backend de persistencia elegido por configuración
// (PostgreSQL o memoria) detrás de los puertos de repositorio.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
	"github.com/jhoicas/estoque-api/internal/infrastructure/postgres"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// Backend repositorios fuera de transacción más el TxRunner de los flujos.
type Backend struct {
	Driver      string
	TxRunner    inventory.TxRunner
	Materials   repository.MaterialRepository
	Categories  repository.CategoryRepository
	Units       repository.UnitRepository
	Suppliers   repository.SupplierRepository
	Orders      repository.PurchaseOrderRepository
	Services    repository.ServiceRepository
	Consumption repository.ConsumptionRepository
	Reports     repository.ReportRepository
	Users       repository.UserRepository

	close func()
}

// Close libera el pool de conexiones (no-op en memoria).
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open conecta el backend de cfg.Storage.Driver. Con postgres aplica las migraciones
// pendientes si cfg.DB.AutoMigrate.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Backend, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return openMemory(), nil
	case config.StoragePostgres:
		return openPostgres(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Storage.Driver)
	}
}

func openMemory() *Backend {
	store := memory.NewStore()
	return &Backend{
		Driver:      config.StorageMemory,
		TxRunner:    memory.NewTxRunner(store),
		Materials:   store.Materials(),
		Categories:  store.Categories(),
		Units:       store.Units(),
		Suppliers:   store.Suppliers(),
		Orders:      store.Orders(),
		Services:    store.Services(),
		Consumption: store.Consumption(),
		Reports:     store.Reports(),
		Users:       store.Users(),
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Backend, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones: %w", err)
		}
	}
	opts := postgres.DefaultTxOptions()
	opts.StatementTimeout = cfg.DB.StatementTimeout
	opts.MaxRetries = cfg.DB.TxMaxRetries
	return &Backend{
		Driver:      config.StoragePostgres,
		TxRunner:    postgres.NewTxRunner(pool, opts, log.Named("postgres")),
		Materials:   postgres.NewMaterialRepository(pool),
		Categories:  postgres.NewCategoryRepository(pool),
		Units:       postgres.NewUnitRepository(pool),
		Suppliers:   postgres.NewSupplierRepository(pool),
		Orders:      postgres.NewPurchaseOrderRepository(pool),
		Services:    postgres.NewServiceRepository(pool),
		Consumption: postgres.NewConsumptionRepository(pool),
		Reports:     postgres.NewReportRepository(pool),
		Users:       postgres.NewUserRepository(pool),
		close:       pool.Close,
	}, nil
}
