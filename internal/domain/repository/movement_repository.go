package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// MovementRepository puerto del libro de movimientos (solo inserción y lectura).
type MovementRepository interface {
	Create(ctx context.Context, m *entity.MovementRecord) error
	// ListByMaterial en orden cronológico.
	ListByMaterial(ctx context.Context, materialID int64) ([]*entity.MovementRecord, error)
}

// ConsumptionRepository puerto de los registros de consumo de servicios.
type ConsumptionRepository interface {
	Create(ctx context.Context, c *entity.ConsumptionRecord) error
	ListByService(ctx context.Context, serviceID int64) ([]*entity.ConsumptionRecord, error)
}
