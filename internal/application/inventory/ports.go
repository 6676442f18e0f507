package inventory

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Materials   repository.MaterialRepository
	Movements   repository.MovementRepository
	Orders      repository.PurchaseOrderRepository
	Services    repository.ServiceRepository
	Consumption repository.ConsumptionRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda ningún efecto persistido.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}

// Invalidator recibe aviso después de cada commit que altera stock o estados (ej. caché del dashboard).
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context) {}

// NoopInvalidator se usa cuando no hay caché que invalidar.
var NoopInvalidator Invalidator = noopInvalidator{}
