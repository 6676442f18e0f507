package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
	Delete(ctx context.Context, id int64) error
}

// UnitRepository define el puerto de persistencia para UnitOfMeasure.
type UnitRepository interface {
	Create(ctx context.Context, u *entity.UnitOfMeasure) error
	GetByID(ctx context.Context, id int64) (*entity.UnitOfMeasure, error)
	List(ctx context.Context) ([]*entity.UnitOfMeasure, error)
	Delete(ctx context.Context, id int64) error
}

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id int64) (*entity.Supplier, error)
	List(ctx context.Context) ([]*entity.Supplier, error)
	Delete(ctx context.Context, id int64) error
}
