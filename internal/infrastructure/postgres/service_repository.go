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

var (
	_ repository.ServiceRepository     = (*ServiceRepo)(nil)
	_ repository.ConsumptionRepository = (*ConsumptionRepo)(nil)
)

// ServiceRepo servicios (obras) y sus materiales requeridos.
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

func (r *ServiceRepo) Create(ctx context.Context, s *entity.Service) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO services (name, status, description, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		s.Name, s.Status, s.Description, s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	for i := range s.Items {
		s.Items[i].ServiceID = s.ID
		if err := r.AddItem(ctx, s.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

const serviceColumns = `id, name, status, description, created_at`

func scanService(row pgx.Row) (*entity.Service, error) {
	var s entity.Service
	if err := row.Scan(&s.ID, &s.Name, &s.Status, &s.Description, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepo) GetByID(ctx context.Context, id int64) (*entity.Service, error) {
	return r.get(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
}

// GetForUpdate bloquea el servicio hasta el fin de la tx.
func (r *ServiceRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Service, error) {
	return r.get(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1 FOR UPDATE`, id)
}

func (r *ServiceRepo) get(ctx context.Context, query string, id int64) (*entity.Service, error) {
	s, err := scanService(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	items, err := r.items(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	s.Items = items[id]
	return s, nil
}

func (r *ServiceRepo) items(ctx context.Context, serviceIDs []int64) (map[int64][]entity.RequiredItem, error) {
	out := make(map[int64][]entity.RequiredItem, len(serviceIDs))
	if len(serviceIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT service_id, material_id, quantity
		FROM service_items WHERE service_id = ANY($1)
		ORDER BY service_id, material_id`, serviceIDs)
	if err != nil {
		return nil, fmt.Errorf("list service items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.RequiredItem
		if err := rows.Scan(&it.ServiceID, &it.MaterialID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan service item: %w", err)
		}
		out[it.ServiceID] = append(out[it.ServiceID], it)
	}
	return out, rows.Err()
}

func (r *ServiceRepo) UpdateStatus(ctx context.Context, id int64, status entity.ServiceStatus) error {
	cmd, err := r.q.Exec(ctx, `UPDATE services SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update service status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ServiceRepo) AddItem(ctx context.Context, it entity.RequiredItem) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO service_items (service_id, material_id, quantity) VALUES ($1, $2, $3)`,
		it.ServiceID, it.MaterialID, it.Quantity,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: material %d ya está en el servicio", domain.ErrDuplicate, it.MaterialID)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: material %d", domain.ErrNotFound, it.MaterialID)
		}
		return fmt.Errorf("insert service item: %w", err)
	}
	return nil
}

func (r *ServiceRepo) RemoveItem(ctx context.Context, serviceID, materialID int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM service_items WHERE service_id = $1 AND material_id = $2`, serviceID, materialID)
	if err != nil {
		return fmt.Errorf("delete service item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List servicios más recientes primero, con sus ítems.
func (r *ServiceRepo) List(ctx context.Context, f repository.ServiceFilter) ([]*entity.Service, error) {
	q := psql.Select(serviceColumns).From("services").OrderBy("created_at DESC", "id DESC")
	if f.Search != "" {
		q = q.Where(squirrel.ILike{"name": containsPattern(f.Search)})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list services: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	var (
		list []*entity.Service
		ids  []int64
	)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan service: %w", err)
		}
		list = append(list, s)
		ids = append(ids, s.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		s.Items = items[s.ID]
	}
	return list, nil
}

// ConsumptionRepo registros de consumo por servicio.
type ConsumptionRepo struct {
	q Querier
}

// NewConsumptionRepository construye el adaptador.
func NewConsumptionRepository(q Querier) *ConsumptionRepo {
	return &ConsumptionRepo{q: q}
}

func (r *ConsumptionRepo) Create(ctx context.Context, c *entity.ConsumptionRecord) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO consumption_records (service_id, material_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		c.ServiceID, c.MaterialID, c.Quantity,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert consumption record: %w", err)
	}
	return nil
}

func (r *ConsumptionRepo) ListByService(ctx context.Context, serviceID int64) ([]*entity.ConsumptionRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, service_id, material_id, quantity, created_at
		FROM consumption_records WHERE service_id = $1 ORDER BY id`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list consumption records: %w", err)
	}
	defer rows.Close()
	var list []*entity.ConsumptionRecord
	for rows.Next() {
		var c entity.ConsumptionRecord
		if err := rows.Scan(&c.ID, &c.ServiceID, &c.MaterialID, &c.Quantity, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan consumption record: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
