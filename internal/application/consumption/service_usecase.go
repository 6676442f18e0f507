// Package consumption implementa el flujo de servicios/obras: materiales requeridos,
// registro de consumo contra el stock y conclusión.
package consumption

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// MovementRecorder escribe en el libro de stock dentro de la transacción del caller.
type MovementRecorder interface {
	RecordInTx(
		ctx context.Context,
		r inventory.Repos,
		material *entity.Material,
		kind entity.MovementKind,
		qty int64,
		reference, transactionID string,
	) (*entity.MovementRecord, error)
}

// ServiceUseCase flujo PLANEJADO -> EXECUCAO -> CONCLUIDO.
type ServiceUseCase struct {
	txRunner        inventory.TxRunner
	recorder        MovementRecorder
	serviceRepo     repository.ServiceRepository
	materialRepo    repository.MaterialRepository
	consumptionRepo repository.ConsumptionRepository
	invalidator     inventory.Invalidator
	log             *logger.Logger
	now             func() time.Time
}

// NewServiceUseCase construye el caso de uso. invalidator puede ser nil.
func NewServiceUseCase(
	txRunner inventory.TxRunner,
	recorder MovementRecorder,
	serviceRepo repository.ServiceRepository,
	materialRepo repository.MaterialRepository,
	consumptionRepo repository.ConsumptionRepository,
	invalidator inventory.Invalidator,
	log *logger.Logger,
) *ServiceUseCase {
	if invalidator == nil {
		invalidator = inventory.NoopInvalidator
	}
	return &ServiceUseCase{
		txRunner:        txRunner,
		recorder:        recorder,
		serviceRepo:     serviceRepo,
		materialRepo:    materialRepo,
		consumptionRepo: consumptionRepo,
		invalidator:     invalidator,
		log:             log,
		now:             time.Now,
	}
}

// CreateService crea un servicio PLANEJADO con sus ítems requeridos.
func (uc *ServiceUseCase) CreateService(ctx context.Context, in dto.CreateServiceRequest) (*entity.Service, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	svc := &entity.Service{
		Name:        name,
		Status:      entity.ServicePlanejado,
		Description: in.Description,
		CreatedAt:   uc.now(),
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		svc.Items = append(svc.Items, entity.RequiredItem{MaterialID: it.MaterialID, Quantity: it.Quantity})
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		return r.Services.Create(ctx, svc)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(ctx)
	uc.log.Info().Int64("service_id", svc.ID).Str("name", svc.Name).Msg("servicio creado")
	return svc, nil
}

// GetService obtiene un servicio con sus ítems.
func (uc *ServiceUseCase) GetService(ctx context.Context, id int64) (*entity.Service, error) {
	svc, err := uc.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, domain.ErrNotFound
	}
	return svc, nil
}

// ListServices lista servicios filtrando por nombre y estado.
func (uc *ServiceUseCase) ListServices(ctx context.Context, q dto.ServiceListQuery) ([]*entity.Service, error) {
	q.DefaultPage()
	return uc.serviceRepo.List(ctx, repository.ServiceFilter{
		Search: q.Search,
		Status: entity.ServiceStatus(q.Status),
		Limit:  q.Limit,
		Offset: q.Offset,
	})
}

// AddRequiredItem agrega un material requerido a un servicio PLANEJADO.
func (uc *ServiceUseCase) AddRequiredItem(ctx context.Context, serviceID int64, in dto.RequiredItemRequest) (*entity.Service, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	return uc.editItems(ctx, serviceID, func(ctx context.Context, r inventory.Repos) error {
		m, err := r.Materials.GetByID(ctx, in.MaterialID)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("%w: material %d", domain.ErrNotFound, in.MaterialID)
		}
		return r.Services.AddItem(ctx, entity.RequiredItem{ServiceID: serviceID, MaterialID: in.MaterialID, Quantity: in.Quantity})
	})
}

// RemoveRequiredItem quita un material requerido de un servicio PLANEJADO.
func (uc *ServiceUseCase) RemoveRequiredItem(ctx context.Context, serviceID, materialID int64) (*entity.Service, error) {
	return uc.editItems(ctx, serviceID, func(ctx context.Context, r inventory.Repos) error {
		return r.Services.RemoveItem(ctx, serviceID, materialID)
	})
}

func (uc *ServiceUseCase) editItems(ctx context.Context, serviceID int64, edit func(ctx context.Context, r inventory.Repos) error) (*entity.Service, error) {
	var out *entity.Service
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		svc, err := lockService(ctx, r, serviceID)
		if err != nil {
			return err
		}
		if svc.Status != entity.ServicePlanejado {
			return fmt.Errorf("%w: servicio %d está %s", domain.ErrInvalidTransition, serviceID, svc.Status)
		}
		if err := edit(ctx, r); err != nil {
			return err
		}
		out, err = r.Services.GetByID(ctx, serviceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterConsumption descuenta del stock todos los ítems requeridos y pasa el servicio a EXECUCAO.
// Si el servicio ya está en EXECUCAO no hace nada. Si algún material no alcanza, falla con
// ErrInsufficientStock y no se aplica ningún ítem.
func (uc *ServiceUseCase) RegisterConsumption(ctx context.Context, serviceID int64) (*entity.Service, error) {
	txID := uuid.New().String()
	var (
		out     *entity.Service
		applied bool
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		applied = false
		svc, err := lockService(ctx, r, serviceID)
		if err != nil {
			return err
		}
		if svc.Status == entity.ServiceExecucao {
			out = svc
			return nil
		}
		if !svc.Status.CanTransitionTo(entity.ServiceExecucao) {
			return fmt.Errorf("%w: servicio %d está %s", domain.ErrInvalidTransition, serviceID, svc.Status)
		}

		items := append([]entity.RequiredItem(nil), svc.Items...)
		sort.Slice(items, func(i, j int) bool { return items[i].MaterialID < items[j].MaterialID })

		now := uc.now()
		for _, it := range items {
			material, err := r.Materials.GetForUpdate(ctx, it.MaterialID)
			if err != nil {
				return err
			}
			if material == nil {
				return fmt.Errorf("%w: material %d", domain.ErrNotFound, it.MaterialID)
			}
			if _, err := uc.recorder.RecordInTx(ctx, r, material, entity.MovementSaida, it.Quantity, svc.Name, txID); err != nil {
				return err
			}
			rec := &entity.ConsumptionRecord{
				ServiceID:  svc.ID,
				MaterialID: it.MaterialID,
				Quantity:   it.Quantity,
				CreatedAt:  now,
			}
			if err := r.Consumption.Create(ctx, rec); err != nil {
				return err
			}
		}
		if err := r.Services.UpdateStatus(ctx, serviceID, entity.ServiceExecucao); err != nil {
			return err
		}
		svc.Status = entity.ServiceExecucao
		out = svc
		applied = true
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Int64("service_id", serviceID).Msg("consumo de servicio rechazado")
		return nil, err
	}
	if applied {
		uc.invalidator.Invalidate(ctx)
		uc.log.Info().
			Int64("service_id", serviceID).
			Int("items", len(out.Items)).
			Str("tx_id", txID).
			Msg("consumo registrado")
	}
	return out, nil
}

// CompleteService EXECUCAO -> CONCLUIDO.
func (uc *ServiceUseCase) CompleteService(ctx context.Context, serviceID int64) (*entity.Service, error) {
	var out *entity.Service
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		svc, err := lockService(ctx, r, serviceID)
		if err != nil {
			return err
		}
		if !svc.Status.CanTransitionTo(entity.ServiceConcluido) {
			return fmt.Errorf("%w: servicio %d está %s", domain.ErrInvalidTransition, serviceID, svc.Status)
		}
		if err := r.Services.UpdateStatus(ctx, serviceID, entity.ServiceConcluido); err != nil {
			return err
		}
		svc.Status = entity.ServiceConcluido
		out = svc
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(ctx)
	uc.log.Info().Int64("service_id", serviceID).Msg("servicio concluido")
	return out, nil
}

// MissingItems materiales cuyo stock actual no cubre lo requerido. Vacío si el servicio está CONCLUIDO.
func (uc *ServiceUseCase) MissingItems(ctx context.Context, serviceID int64) ([]dto.ShortfallEntry, error) {
	svc, err := uc.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	out := []dto.ShortfallEntry{}
	if svc.Status == entity.ServiceConcluido {
		return out, nil
	}
	for _, it := range svc.Items {
		m, err := uc.materialRepo.GetByID(ctx, it.MaterialID)
		if err != nil {
			return nil, err
		}
		if m == nil || m.Stock >= it.Quantity {
			continue
		}
		out = append(out, dto.ShortfallEntry{
			MaterialID:   m.ID,
			MaterialName: m.Name,
			Required:     it.Quantity,
			Available:    m.Stock,
			Shortfall:    it.Quantity - m.Stock,
		})
	}
	return out, nil
}

// ListConsumption registros de consumo del servicio.
func (uc *ServiceUseCase) ListConsumption(ctx context.Context, serviceID int64) ([]dto.ConsumptionResponse, error) {
	if _, err := uc.GetService(ctx, serviceID); err != nil {
		return nil, err
	}
	recs, err := uc.consumptionRepo.ListByService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConsumptionResponse, 0, len(recs))
	for _, c := range recs {
		out = append(out, dto.ConsumptionResponse{
			ID:         c.ID,
			ServiceID:  c.ServiceID,
			MaterialID: c.MaterialID,
			Quantity:   c.Quantity,
			CreatedAt:  c.CreatedAt,
		})
	}
	return out, nil
}

func lockService(ctx context.Context, r inventory.Repos, id int64) (*entity.Service, error) {
	svc, err := r.Services.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, fmt.Errorf("%w: servicio %d", domain.ErrNotFound, id)
	}
	return svc, nil
}
