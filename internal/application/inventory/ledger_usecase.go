package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/ledger"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// LedgerUseCase mantiene el libro de movimientos y el stock de cada material consistentes:
// todo cambio de stock va acompañado de exactamente un MovementRecord en la misma transacción.
type LedgerUseCase struct {
	txRunner    TxRunner
	invalidator Invalidator
	log         *logger.Logger
	now         func() time.Time
}

// NewLedgerUseCase construye el caso de uso. invalidator puede ser nil.
func NewLedgerUseCase(
	txRunner TxRunner,
	invalidator Invalidator,
	log *logger.Logger,
) *LedgerUseCase {
	if invalidator == nil {
		invalidator = NoopInvalidator
	}
	return &LedgerUseCase{
		txRunner:    txRunner,
		invalidator: invalidator,
		log:         log,
		now:         time.Now,
	}
}

// RecordInTx aplica un movimiento sobre un material ya bloqueado por el caller (GetForUpdate)
// usando los repositorios de su transacción. Verifica el saldo antes de escribir nada.
// Actualiza material.Stock en memoria para que el caller vea el nuevo saldo.
func (uc *LedgerUseCase) RecordInTx(
	ctx context.Context,
	r Repos,
	material *entity.Material,
	kind entity.MovementKind,
	qty int64,
	reference, transactionID string,
) (*entity.MovementRecord, error) {
	newStock, err := ledger.Apply(material.Stock, kind, qty)
	if err != nil {
		return nil, fmt.Errorf("material %d (%s): %w", material.ID, material.Name, err)
	}
	if err := r.Materials.UpdateStock(ctx, material.ID, newStock); err != nil {
		return nil, err
	}
	material.Stock = newStock
	mov := &entity.MovementRecord{
		TransactionID: transactionID,
		MaterialID:    material.ID,
		Kind:          kind,
		Quantity:      qty,
		Reference:     reference,
		CreatedAt:     uc.now(),
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// RegisterManualMovement registra una ENTRADA o SAIDA_MANUAL sobre un material en su propia
// transacción, con bloqueo de fila.
func (uc *LedgerUseCase) RegisterManualMovement(ctx context.Context, in dto.RegisterMovementRequest) (*entity.MovementRecord, error) {
	kind := entity.MovementKind(in.Kind)
	if kind != entity.MovementEntrada && kind != entity.MovementSaidaManual {
		return nil, fmt.Errorf("%w: solo ENTRADA o SAIDA_MANUAL", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	reference := in.Reference
	if reference == "" {
		reference = "Ajuste manual"
	}
	txID := uuid.New().String()

	var mov *entity.MovementRecord
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		material, err := r.Materials.GetForUpdate(ctx, in.MaterialID)
		if err != nil {
			return err
		}
		if material == nil {
			return domain.ErrNotFound
		}
		mov, err = uc.RecordInTx(ctx, r, material, kind, in.Quantity, reference, txID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(ctx)
	uc.log.Info().
		Int64("material_id", in.MaterialID).
		Str("kind", string(kind)).
		Int64("quantity", in.Quantity).
		Str("tx_id", txID).
		Msg("movimiento manual registrado")
	return mov, nil
}

// Reconcile compara el stock persistido del material con la suma firmada de su libro.
// Ambas lecturas salen de la misma transacción para no ver un movimiento a medias.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, materialID int64) (*dto.ReconciliationResponse, error) {
	var (
		material *entity.Material
		movs     []*entity.MovementRecord
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		var err error
		material, err = r.Materials.GetByID(ctx, materialID)
		if err != nil {
			return err
		}
		if material == nil {
			return domain.ErrNotFound
		}
		movs, err = r.Movements.ListByMaterial(ctx, materialID)
		return err
	})
	if err != nil {
		return nil, err
	}
	rec := ledger.Reconcile(material.Stock, movs)
	if !rec.Consistent() {
		uc.log.Warn().
			Int64("material_id", materialID).
			Int64("stock", rec.Stock).
			Int64("ledger_balance", rec.LedgerBalance).
			Msg("stock y libro de movimientos no coinciden")
	}
	return &dto.ReconciliationResponse{
		MaterialID:    materialID,
		Stock:         rec.Stock,
		LedgerBalance: rec.LedgerBalance,
		Inbound:       rec.Inbound,
		Outbound:      rec.Outbound,
		Movements:     rec.Movements,
		Drift:         rec.Drift(),
		Consistent:    rec.Consistent(),
	}, nil
}
