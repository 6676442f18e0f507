package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// MaterialUseCase casos de uso CRUD para materiales. El stock no se edita aquí: solo cambia
// con movimientos del libro. Toda escritura invalida el dashboard (valor de stock y críticos).
type MaterialUseCase struct {
	repo         repository.MaterialRepository
	categoryRepo repository.CategoryRepository
	unitRepo     repository.UnitRepository
	invalidator  inventory.Invalidator
}

// NewMaterialUseCase construye el caso de uso. invalidator puede ser nil.
func NewMaterialUseCase(
	repo repository.MaterialRepository,
	categoryRepo repository.CategoryRepository,
	unitRepo repository.UnitRepository,
	invalidator inventory.Invalidator,
) *MaterialUseCase {
	if invalidator == nil {
		invalidator = inventory.NoopInvalidator
	}
	return &MaterialUseCase{repo: repo, categoryRepo: categoryRepo, unitRepo: unitRepo, invalidator: invalidator}
}

// Create crea un material con stock 0 y nombre en mayúsculas.
func (uc *MaterialUseCase) Create(ctx context.Context, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	if in.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}
	if err := uc.checkRefs(ctx, in.CategoryID, in.UnitID); err != nil {
		return nil, err
	}
	now := time.Now()
	m := &entity.Material{
		Name:       in.Name,
		UnitPrice:  in.UnitPrice,
		CategoryID: in.CategoryID,
		UnitID:     in.UnitID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.Normalize()
	if m.Name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(ctx)
	return dto.NewMaterialResponse(m), nil
}

// GetByID obtiene un material por ID.
func (uc *MaterialUseCase) GetByID(ctx context.Context, id int64) (*dto.MaterialResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewMaterialResponse(m), nil
}

// Update actualiza nombre, precio, categoría o unidad.
func (uc *MaterialUseCase) Update(ctx context.Context, id int64, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
		}
		m.UnitPrice = *in.UnitPrice
	}
	if in.CategoryID != nil {
		m.CategoryID = in.CategoryID
	}
	if in.UnitID != nil {
		m.UnitID = in.UnitID
	}
	if err := uc.checkRefs(ctx, in.CategoryID, in.UnitID); err != nil {
		return nil, err
	}
	m.Normalize()
	if m.Name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	m.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(ctx)
	return dto.NewMaterialResponse(m), nil
}

// List lista materiales con filtros y paginación.
func (uc *MaterialUseCase) List(ctx context.Context, q dto.MaterialListQuery) ([]*dto.MaterialResponse, error) {
	q.DefaultPage()
	f := repository.MaterialFilter{Search: q.Search, Limit: q.Limit, Offset: q.Offset}
	if q.CategoryID > 0 {
		cid := q.CategoryID
		f.CategoryID = &cid
	}
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.NewMaterialResponse(m))
	}
	return out, nil
}

// Delete elimina un material sin historial. Con movimientos o consumos devuelve ErrMaterialInUse.
func (uc *MaterialUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidator.Invalidate(ctx)
	return nil
}

func (uc *MaterialUseCase) checkRefs(ctx context.Context, categoryID, unitID *int64) error {
	if categoryID != nil {
		c, err := uc.categoryRepo.GetByID(ctx, *categoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("%w: categoría %d", domain.ErrNotFound, *categoryID)
		}
	}
	if unitID != nil {
		u, err := uc.unitRepo.GetByID(ctx, *unitID)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("%w: unidad %d", domain.ErrNotFound, *unitID)
		}
	}
	return nil
}
