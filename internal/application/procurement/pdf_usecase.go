package procurement

import (
	"context"
	"fmt"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// PDFUseCase genera el documento de un pedido de compra para enviar al fornecedor.
type PDFUseCase struct {
	orderRepo    repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	materialRepo repository.MaterialRepository
	unitRepo     repository.UnitRepository
	generator    OrderPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	orderRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	materialRepo repository.MaterialRepository,
	unitRepo repository.UnitRepository,
	generator OrderPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		materialRepo: materialRepo,
		unitRepo:     unitRepo,
		generator:    generator,
	}
}

// DownloadOrderPDF carga pedido, fornecedor y materiales y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si el pedido no existe.
func (uc *PDFUseCase) DownloadOrderPDF(ctx context.Context, orderID int64) (pdfBytes []byte, filename string, err error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener pedido: %w", err)
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}

	var supplier *entity.Supplier
	if order.SupplierID != nil {
		supplier, err = uc.supplierRepo.GetByID(ctx, *order.SupplierID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener fornecedor: %w", err)
		}
	}

	units := map[int64]string{}
	lines := make([]OrderLineForPDF, 0, len(order.Lines))
	for _, l := range order.Lines {
		name := fmt.Sprintf("Material #%d", l.MaterialID)
		unit := ""
		m, err := uc.materialRepo.GetByID(ctx, l.MaterialID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener material %d: %w", l.MaterialID, err)
		}
		if m != nil {
			name = m.Name
			if m.UnitID != nil {
				unit, err = uc.unitName(ctx, units, *m.UnitID)
				if err != nil {
					return nil, "", err
				}
			}
		}
		lines = append(lines, OrderLineForPDF{
			MaterialName:       name,
			UnitName:           unit,
			Quantity:           l.Quantity,
			EstimatedUnitPrice: l.EstimatedUnitPrice,
			Subtotal:           l.Subtotal(),
		})
	}

	pdfBytes, err = uc.generator.GenerateOrderPDF(ctx, order, supplier, lines)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar: %w", err)
	}
	return pdfBytes, fmt.Sprintf("pedido-%d.pdf", order.ID), nil
}

func (uc *PDFUseCase) unitName(ctx context.Context, cache map[int64]string, id int64) (string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}
	u, err := uc.unitRepo.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("pdf: obtener unidad %d: %w", id, err)
	}
	name := ""
	if u != nil {
		name = u.Name
	}
	cache[id] = name
	return name, nil
}
