package procurement

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/ledger"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// OrderUseCase flujo de pedidos de compra: PENDENTE -> RECEBIDO | CANCELADO.
// La recepción es el único punto donde un pedido mueve stock.
type OrderUseCase struct {
	txRunner     inventory.TxRunner
	recorder     MovementRecorder
	orderRepo    repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	invalidator  inventory.Invalidator
	log          *logger.Logger
	now          func() time.Time
}

// NewOrderUseCase construye el caso de uso. invalidator puede ser nil.
func NewOrderUseCase(
	txRunner inventory.TxRunner,
	recorder MovementRecorder,
	orderRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	invalidator inventory.Invalidator,
	log *logger.Logger,
) *OrderUseCase {
	if invalidator == nil {
		invalidator = inventory.NoopInvalidator
	}
	return &OrderUseCase{
		txRunner:     txRunner,
		recorder:     recorder,
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		invalidator:  invalidator,
		log:          log,
		now:          time.Now,
	}
}

// CreateOrder crea un pedido PENDENTE con sus líneas y el total estimado ya calculado.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, in dto.CreateOrderRequest) (*entity.PurchaseOrder, error) {
	if in.SupplierID != nil {
		sup, err := uc.supplierRepo.GetByID(ctx, *in.SupplierID)
		if err != nil {
			return nil, err
		}
		if sup == nil {
			return nil, fmt.Errorf("%w: fornecedor %d", domain.ErrNotFound, *in.SupplierID)
		}
	}
	order := &entity.PurchaseOrder{
		SupplierID: in.SupplierID,
		Status:     entity.OrderPendente,
		CreatedAt:  uc.now(),
	}
	for _, l := range in.Lines {
		line, err := toOrderLine(0, l)
		if err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, line)
	}
	order.EstimatedTotal = order.CalculateTotal()

	err := uc.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		return r.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(ctx)
	uc.log.Info().Int64("order_id", order.ID).Int("lines", len(order.Lines)).Msg("pedido creado")
	return order, nil
}

func toOrderLine(orderID int64, in dto.OrderLineRequest) (entity.OrderLine, error) {
	if in.Quantity <= 0 {
		return entity.OrderLine{}, domain.ErrInvalidQuantity
	}
	if in.EstimatedUnitPrice.IsNegative() {
		return entity.OrderLine{}, fmt.Errorf("%w: precio estimado negativo", domain.ErrInvalidInput)
	}
	return entity.OrderLine{
		OrderID:            orderID,
		MaterialID:         in.MaterialID,
		Quantity:           in.Quantity,
		EstimatedUnitPrice: in.EstimatedUnitPrice.Round(2),
	}, nil
}

// GetOrder obtiene un pedido con sus líneas.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// ListOrders lista pedidos filtrando por fornecedor y mes/año de creación.
func (uc *OrderUseCase) ListOrders(ctx context.Context, q dto.OrderListQuery) ([]*entity.PurchaseOrder, error) {
	q.DefaultPage()
	if q.Month != 0 && q.Year == 0 {
		return nil, fmt.Errorf("%w: month requiere year", domain.ErrInvalidInput)
	}
	f := repository.OrderFilter{
		Year:   q.Year,
		Month:  q.Month,
		Status: entity.OrderStatus(q.Status),
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if q.SupplierID > 0 {
		sid := q.SupplierID
		f.SupplierID = &sid
	}
	return uc.orderRepo.List(ctx, f)
}

// AvailableMonths meses (año/mes) en los que hay pedidos, del más reciente al más antiguo.
func (uc *OrderUseCase) AvailableMonths(ctx context.Context) ([]repository.OrderMonth, error) {
	return uc.orderRepo.ListMonths(ctx)
}

// AddLine agrega una línea a un pedido PENDENTE y recalcula el total.
func (uc *OrderUseCase) AddLine(ctx context.Context, orderID int64, in dto.OrderLineRequest) (*entity.PurchaseOrder, error) {
	line, err := toOrderLine(orderID, in)
	if err != nil {
		return nil, err
	}
	return uc.editLines(ctx, orderID, func(ctx context.Context, r inventory.Repos) error {
		m, err := r.Materials.GetByID(ctx, line.MaterialID)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("%w: material %d", domain.ErrNotFound, line.MaterialID)
		}
		return r.Orders.AddLine(ctx, line)
	})
}

// RemoveLine quita la línea del material indicado de un pedido PENDENTE y recalcula el total.
func (uc *OrderUseCase) RemoveLine(ctx context.Context, orderID, materialID int64) (*entity.PurchaseOrder, error) {
	return uc.editLines(ctx, orderID, func(ctx context.Context, r inventory.Repos) error {
		return r.Orders.RemoveLine(ctx, orderID, materialID)
	})
}

func (uc *OrderUseCase) editLines(ctx context.Context, orderID int64, edit func(ctx context.Context, r inventory.Repos) error) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		order, err := lockOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		if order.Status != entity.OrderPendente {
			return fmt.Errorf("%w: pedido %d está %s", domain.ErrInvalidTransition, orderID, order.Status)
		}
		if err := edit(ctx, r); err != nil {
			return err
		}
		out, err = recalculate(ctx, r, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(ctx)
	return out, nil
}

// ReceiveOrder marca el pedido como RECEBIDO y da entrada en stock a cada línea, todo en una
// transacción. Un pedido que no está PENDENTE devuelve ErrInvalidTransition sin efectos.
func (uc *OrderUseCase) ReceiveOrder(ctx context.Context, orderID int64) (*entity.PurchaseOrder, error) {
	txID := uuid.New().String()
	var out *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		order, err := lockOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(entity.OrderRecebido) {
			return fmt.Errorf("%w: pedido %d está %s", domain.ErrInvalidTransition, orderID, order.Status)
		}

		// Bloqueo de materiales en orden ascendente de id para no cruzarse con otra transacción.
		lines := append([]entity.OrderLine(nil), order.Lines...)
		sort.Slice(lines, func(i, j int) bool { return lines[i].MaterialID < lines[j].MaterialID })

		reference := ledger.OrderReference(order.ID)
		for _, l := range lines {
			material, err := r.Materials.GetForUpdate(ctx, l.MaterialID)
			if err != nil {
				return err
			}
			if material == nil {
				return fmt.Errorf("%w: material %d", domain.ErrNotFound, l.MaterialID)
			}
			if _, err := uc.recorder.RecordInTx(ctx, r, material, entity.MovementEntrada, l.Quantity, reference, txID); err != nil {
				return err
			}
		}
		if err := r.Orders.UpdateStatus(ctx, orderID, entity.OrderRecebido); err != nil {
			return err
		}
		order.Status = entity.OrderRecebido
		out = order
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Int64("order_id", orderID).Msg("recepción de pedido rechazada")
		return nil, err
	}
	uc.invalidator.Invalidate(ctx)
	uc.log.Info().
		Int64("order_id", orderID).
		Int("lines", len(out.Lines)).
		Str("tx_id", txID).
		Msg("pedido recibido")
	return out, nil
}

// CancelOrder PENDENTE -> CANCELADO, sin efecto en stock.
func (uc *OrderUseCase) CancelOrder(ctx context.Context, orderID int64) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		order, err := lockOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(entity.OrderCancelado) {
			return fmt.Errorf("%w: pedido %d está %s", domain.ErrInvalidTransition, orderID, order.Status)
		}
		if err := r.Orders.UpdateStatus(ctx, orderID, entity.OrderCancelado); err != nil {
			return err
		}
		order.Status = entity.OrderCancelado
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(ctx)
	uc.log.Info().Int64("order_id", orderID).Msg("pedido cancelado")
	return out, nil
}

// CalculateTotal recalcula Σ cantidad × precio estimado de las líneas y lo persiste.
func (uc *OrderUseCase) CalculateTotal(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		if _, err := lockOrder(ctx, r, orderID); err != nil {
			return err
		}
		order, err := recalculate(ctx, r, orderID)
		if err != nil {
			return err
		}
		total = order.EstimatedTotal
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func lockOrder(ctx context.Context, r inventory.Repos, id int64) (*entity.PurchaseOrder, error) {
	order, err := r.Orders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: pedido %d", domain.ErrNotFound, id)
	}
	return order, nil
}

func recalculate(ctx context.Context, r inventory.Repos, id int64) (*entity.PurchaseOrder, error) {
	order, err := r.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	order.EstimatedTotal = order.CalculateTotal()
	if err := r.Orders.UpdateTotal(ctx, id, order.EstimatedTotal); err != nil {
		return nil, err
	}
	return order, nil
}
