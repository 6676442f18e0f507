package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// CatalogUseCase casos de uso para categorías y unidades de medida.
type CatalogUseCase struct {
	categoryRepo repository.CategoryRepository
	unitRepo     repository.UnitRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(categoryRepo repository.CategoryRepository, unitRepo repository.UnitRepository) *CatalogUseCase {
	return &CatalogUseCase{categoryRepo: categoryRepo, unitRepo: unitRepo}
}

// CreateCategory crea una categoría.
func (uc *CatalogUseCase) CreateCategory(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	c := &entity.Category{Name: strings.TrimSpace(in.Name), CreatedAt: time.Now()}
	if err := uc.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}, nil
}

// ListCategories lista las categorías por nombre.
func (uc *CatalogUseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt})
	}
	return out, nil
}

// CreateUnit crea una unidad de medida.
func (uc *CatalogUseCase) CreateUnit(ctx context.Context, in dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	u := &entity.UnitOfMeasure{Name: strings.TrimSpace(in.Name), CreatedAt: time.Now()}
	if err := uc.unitRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return &dto.UnitResponse{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt}, nil
}

// ListUnits lista las unidades de medida.
func (uc *CatalogUseCase) ListUnits(ctx context.Context) ([]dto.UnitResponse, error) {
	list, err := uc.unitRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.UnitResponse{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt})
	}
	return out, nil
}
