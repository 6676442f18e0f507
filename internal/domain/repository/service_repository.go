package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// ServiceFilter filtros del listado de servicios.
type ServiceFilter struct {
	Search string
	Status entity.ServiceStatus
	Limit  int
	Offset int
}

// ServiceRepository define el puerto de persistencia para servicios y sus ítems requeridos.
type ServiceRepository interface {
	Create(ctx context.Context, s *entity.Service) error
	// GetByID carga el servicio con sus ítems; (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Service, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Service, error)
	UpdateStatus(ctx context.Context, id int64, status entity.ServiceStatus) error
	// AddItem devuelve domain.ErrDuplicate si el material ya está requerido.
	AddItem(ctx context.Context, item entity.RequiredItem) error
	RemoveItem(ctx context.Context, serviceID, materialID int64) error
	List(ctx context.Context, f ServiceFilter) ([]*entity.Service, error)
}
