package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos (solo inserción).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.MovementRecord) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_movements (transaction_id, material_id, kind, quantity, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		m.TransactionID, m.MaterialID, m.Kind, m.Quantity, m.Reference, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: material %d", domain.ErrNotFound, m.MaterialID)
		}
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByMaterial movimientos de un material en orden de registro.
func (r *MovementRepo) ListByMaterial(ctx context.Context, materialID int64) ([]*entity.MovementRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, transaction_id, material_id, kind, quantity, reference, created_at
		FROM stock_movements WHERE material_id = $1 ORDER BY id`, materialID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementRecord
	for rows.Next() {
		var m entity.MovementRecord
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.MaterialID, &m.Kind, &m.Quantity, &m.Reference, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
