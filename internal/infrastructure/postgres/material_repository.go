package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementación del puerto MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

const materialColumns = `id, name, stock, unit_price, category_id, unit_id, created_at, updated_at`

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(&m.ID, &m.Name, &m.Stock, &m.UnitPrice, &m.CategoryID, &m.UnitID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste un material nuevo y asigna ID y fechas.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO materials (name, stock, unit_price, category_id, unit_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		m.Name, m.Stock, m.UnitPrice, m.CategoryID, m.UnitID,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría o unidad", domain.ErrNotFound)
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// GetByID obtiene un material por ID. nil si no existe.
func (r *MaterialRepo) GetByID(ctx context.Context, id int64) (*entity.Material, error) {
	return r.get(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, id)
}

// GetForUpdate como GetByID pero bloquea la fila hasta el fin de la transacción.
func (r *MaterialRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Material, error) {
	return r.get(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1 FOR UPDATE`, id)
}

func (r *MaterialRepo) get(ctx context.Context, query string, id int64) (*entity.Material, error) {
	m, err := scanMaterial(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

// Update actualiza los datos descriptivos. El stock solo cambia vía UpdateStock.
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE materials SET name = $2, unit_price = $3, category_id = $4, unit_id = $5, updated_at = now()
		WHERE id = $1`,
		m.ID, m.Name, m.UnitPrice, m.CategoryID, m.UnitID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría o unidad", domain.ErrNotFound)
		}
		return fmt.Errorf("update material: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock fija el stock (usado por el libro de movimientos dentro de la tx).
func (r *MaterialRepo) UpdateStock(ctx context.Context, id int64, stock int64) error {
	cmd, err := r.q.Exec(ctx, `UPDATE materials SET stock = $2, updated_at = now() WHERE id = $1`, id, stock)
	if err != nil {
		return fmt.Errorf("update material stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista materiales por nombre con búsqueda parcial y filtro de categoría.
func (r *MaterialRepo) List(ctx context.Context, f repository.MaterialFilter) ([]*entity.Material, error) {
	q := psql.Select(materialColumns).From("materials").OrderBy("name", "id")
	if f.Search != "" {
		q = q.Where(squirrel.ILike{"name": containsPattern(f.Search)})
	}
	if f.CategoryID != nil {
		q = q.Where(squirrel.Eq{"category_id": *f.CategoryID})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list materials: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	var list []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Delete elimina un material sin historial. Líneas de pedido e ítems de servicio caen en cascada.
func (r *MaterialRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrMaterialInUse
		}
		return fmt.Errorf("delete material: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
