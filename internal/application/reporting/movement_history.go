package reporting

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/ledger"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// MovementHistory lista el libro de movimientos y traduce referencias de pedido al nombre del fornecedor.
type MovementHistory struct {
	reportRepo   repository.ReportRepository
	orderRepo    repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	log          *logger.Logger
}

// NewMovementHistory construye el caso de uso.
func NewMovementHistory(
	reportRepo repository.ReportRepository,
	orderRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	log *logger.Logger,
) *MovementHistory {
	return &MovementHistory{reportRepo: reportRepo, orderRepo: orderRepo, supplierRepo: supplierRepo, log: log}
}

// List histórico filtrado, más reciente primero, con la referencia ya resuelta.
func (h *MovementHistory) List(ctx context.Context, q dto.MovementListQuery) ([]dto.MovementHistoryItem, error) {
	q.DefaultPage()
	f := repository.MovementFilter{
		Search: q.Search,
		Kind:   entity.MovementKind(q.Kind),
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if q.CategoryID > 0 {
		cid := q.CategoryID
		f.CategoryID = &cid
	}
	views, err := h.reportRepo.Movements(ctx, f)
	if err != nil {
		return nil, err
	}

	// Un mismo pedido suele aparecer en varias filas (una por línea).
	resolved := map[string]string{}
	out := make([]dto.MovementHistoryItem, 0, len(views))
	for _, v := range views {
		rec := v.Record()
		key := string(rec.Kind) + "|" + rec.Reference
		display, ok := resolved[key]
		if !ok {
			display = h.ResolveReference(ctx, rec)
			resolved[key] = display
		}
		out = append(out, dto.MovementHistoryItem{
			ID:                v.ID,
			MaterialID:        v.MaterialID,
			MaterialName:      v.MaterialName,
			UnitName:          deref(v.UnitName),
			Kind:              string(v.Kind),
			Quantity:          v.Quantity,
			Reference:         v.Reference,
			ResolvedReference: display,
			CreatedAt:         v.CreatedAt,
		})
	}
	return out, nil
}

// SupplierForMovement nombre del fornecedor del pedido citado por una ENTRADA.
// false si el movimiento no es ENTRADA, la referencia no cita un pedido, el pedido no existe,
// no tiene fornecedor o la consulta falla.
func (h *MovementHistory) SupplierForMovement(ctx context.Context, m *entity.MovementRecord) (string, bool) {
	if m == nil || m.Kind != entity.MovementEntrada {
		return "", false
	}
	orderID, ok := ledger.ParseOrderReference(m.Reference)
	if !ok {
		return "", false
	}
	order, err := h.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		h.log.Debug().Err(err).Int64("order_id", orderID).Msg("resolución de referencia: pedido")
		return "", false
	}
	if order == nil || order.SupplierID == nil {
		return "", false
	}
	sup, err := h.supplierRepo.GetByID(ctx, *order.SupplierID)
	if err != nil {
		h.log.Debug().Err(err).Int64("supplier_id", *order.SupplierID).Msg("resolución de referencia: fornecedor")
		return "", false
	}
	if sup == nil || sup.Name == "" {
		return "", false
	}
	return sup.Name, true
}

// ResolveReference texto para mostrar: el fornecedor si se puede resolver, la referencia original si no.
// Nunca falla.
func (h *MovementHistory) ResolveReference(ctx context.Context, m *entity.MovementRecord) string {
	if m == nil {
		return ""
	}
	if name, ok := h.SupplierForMovement(ctx, m); ok {
		return name
	}
	return m.Reference
}
