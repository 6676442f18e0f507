package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// MovementFilter filtros del histórico de movimientos.
type MovementFilter struct {
	Search     string // nombre de material o referencia
	CategoryID *int64
	Kind       entity.MovementKind
	Limit      int
	Offset     int
}

// MovementView movimiento con los datos de material necesarios para listarlo.
type MovementView struct {
	ID            int64               `db:"id"`
	TransactionID string              `db:"transaction_id"`
	MaterialID    int64               `db:"material_id"`
	MaterialName  string              `db:"material_name"`
	UnitName      *string             `db:"unit_name"`
	Kind          entity.MovementKind `db:"kind"`
	Quantity      int64               `db:"quantity"`
	Reference     string              `db:"reference"`
	CreatedAt     time.Time           `db:"created_at"`
}

// Record devuelve el movimiento base.
func (v MovementView) Record() *entity.MovementRecord {
	return &entity.MovementRecord{
		ID:            v.ID,
		TransactionID: v.TransactionID,
		MaterialID:    v.MaterialID,
		Kind:          v.Kind,
		Quantity:      v.Quantity,
		Reference:     v.Reference,
		CreatedAt:     v.CreatedAt,
	}
}

// CriticalMaterial material con stock por debajo del umbral.
type CriticalMaterial struct {
	ID       int64   `db:"id"`
	Name     string  `db:"name"`
	Stock    int64   `db:"stock"`
	UnitName *string `db:"unit_name"`
}

// ReportRepository consultas de solo lectura para dashboard e histórico.
type ReportRepository interface {
	StockValue(ctx context.Context) (decimal.Decimal, error)
	CountServicesByStatus(ctx context.Context, status entity.ServiceStatus) (int, error)
	// CriticalMaterials stock < threshold, ascendente por stock.
	CriticalMaterials(ctx context.Context, threshold int64) ([]CriticalMaterial, error)
	// Movements más recientes primero.
	Movements(ctx context.Context, f MovementFilter) ([]MovementView, error)
}
