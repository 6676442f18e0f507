package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas read-only para dashboard e histórico.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// StockValue Σ stock × precio unitario de todos los materiales.
func (r *ReportRepo) StockValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(stock * unit_price), 0) FROM materials`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stock value: %w", err)
	}
	return total, nil
}

func (r *ReportRepo) CountServicesByStatus(ctx context.Context, status entity.ServiceStatus) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM services WHERE status = $1`, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("count services: %w", err)
	}
	return n, nil
}

// CriticalMaterials materiales con stock < threshold, de menor a mayor.
func (r *ReportRepo) CriticalMaterials(ctx context.Context, threshold int64) ([]repository.CriticalMaterial, error) {
	var items []repository.CriticalMaterial
	err := pgxscan.Select(ctx, r.q, &items, `
		SELECT m.id, m.name, m.stock, u.name AS unit_name
		FROM materials m
		LEFT JOIN units u ON u.id = m.unit_id
		WHERE m.stock < $1
		ORDER BY m.stock, m.name`, threshold)
	if err != nil {
		return nil, fmt.Errorf("critical materials: %w", err)
	}
	return items, nil
}

// Movements histórico filtrado, más reciente primero.
func (r *ReportRepo) Movements(ctx context.Context, f repository.MovementFilter) ([]repository.MovementView, error) {
	q := psql.Select(
		"sm.id", "sm.transaction_id", "sm.material_id", "m.name AS material_name", "u.name AS unit_name",
		"sm.kind", "sm.quantity", "sm.reference", "sm.created_at",
	).
		From("stock_movements sm").
		Join("materials m ON m.id = sm.material_id").
		LeftJoin("units u ON u.id = m.unit_id").
		OrderBy("sm.created_at DESC", "sm.id DESC")

	if f.Search != "" {
		pattern := containsPattern(f.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"m.name": pattern},
			squirrel.ILike{"sm.reference": pattern},
		})
	}
	if f.CategoryID != nil {
		q = q.Where(squirrel.Eq{"m.category_id": *f.CategoryID})
	}
	if f.Kind != "" {
		q = q.Where(squirrel.Eq{"sm.kind": string(f.Kind)})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build movements query: %w", err)
	}
	var items []repository.MovementView
	if err := pgxscan.Select(ctx, r.q, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("movements report: %w", err)
	}
	return items, nil
}
