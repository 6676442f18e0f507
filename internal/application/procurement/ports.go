package procurement

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// MovementRecorder escribe en el libro de stock dentro de la transacción del caller.
// Lo implementa inventory.LedgerUseCase.
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

// OrderLineForPDF línea del pedido con el nombre del material ya resuelto.
type OrderLineForPDF struct {
	MaterialName       string
	UnitName           string
	Quantity           int64
	EstimatedUnitPrice decimal.Decimal
	Subtotal           decimal.Decimal
}

// OrderPDFGenerator genera el documento PDF de un pedido de compra.
// supplier puede ser nil si el pedido no tiene fornecedor.
type OrderPDFGenerator interface {
	GenerateOrderPDF(
		ctx context.Context,
		order *entity.PurchaseOrder,
		supplier *entity.Supplier,
		lines []OrderLineForPDF,
	) ([]byte, error)
}
