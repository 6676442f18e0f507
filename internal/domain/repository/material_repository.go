package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// MaterialFilter filtros para listar materiales.
type MaterialFilter struct {
	Search     string // coincidencia parcial sobre el nombre
	CategoryID *int64
	Limit      int
	Offset     int
}

// MaterialRepository define el puerto de persistencia para Material (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si no existe.
type MaterialRepository interface {
	Create(ctx context.Context, m *entity.Material) error
	GetByID(ctx context.Context, id int64) (*entity.Material, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Material, error)
	// Update persiste nombre, precio, categoría y unidad. No toca el stock.
	Update(ctx context.Context, m *entity.Material) error
	// UpdateStock es la única escritura del saldo; la usa el libro de movimientos.
	UpdateStock(ctx context.Context, id int64, stock int64) error
	List(ctx context.Context, f MaterialFilter) ([]*entity.Material, error)
	// Delete devuelve domain.ErrMaterialInUse si existen movimientos o consumos del material.
	Delete(ctx context.Context, id int64) error
}
