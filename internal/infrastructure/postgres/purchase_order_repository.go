package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo pedidos de compra y sus líneas.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create inserta cabecera y líneas. Debe correr dentro de una tx para que sea atómico.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO purchase_orders (supplier_id, status, estimated_total, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		o.SupplierID, o.Status, o.EstimatedTotal, o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: fornecedor", domain.ErrNotFound)
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	for i := range o.Lines {
		o.Lines[i].OrderID = o.ID
		if err := r.AddLine(ctx, o.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

const orderColumns = `id, supplier_id, status, estimated_total, created_at`

func scanOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	if err := row.Scan(&o.ID, &o.SupplierID, &o.Status, &o.EstimatedTotal, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByID pedido con sus líneas. nil si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera del pedido hasta el fin de la tx.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseOrderRepo) get(ctx context.Context, query string, id int64) (*entity.PurchaseOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	lines, err := r.lines(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	o.Lines = lines[id]
	return o, nil
}

func (r *PurchaseOrderRepo) lines(ctx context.Context, orderIDs []int64) (map[int64][]entity.OrderLine, error) {
	out := make(map[int64][]entity.OrderLine, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT order_id, material_id, quantity, estimated_unit_price
		FROM order_lines WHERE order_id = ANY($1)
		ORDER BY order_id, material_id`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.OrderID, &l.MaterialID, &l.Quantity, &l.EstimatedUnitPrice); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		out[l.OrderID] = append(out[l.OrderID], l)
	}
	return out, rows.Err()
}

func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error {
	cmd, err := r.q.Exec(ctx, `UPDATE purchase_orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PurchaseOrderRepo) UpdateTotal(ctx context.Context, id int64, total decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE purchase_orders SET estimated_total = $2 WHERE id = $1`, id, total)
	if err != nil {
		return fmt.Errorf("update order total: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddLine una línea por material y pedido; repetir el material devuelve ErrDuplicate.
func (r *PurchaseOrderRepo) AddLine(ctx context.Context, l entity.OrderLine) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO order_lines (order_id, material_id, quantity, estimated_unit_price)
		VALUES ($1, $2, $3, $4)`,
		l.OrderID, l.MaterialID, l.Quantity, l.EstimatedUnitPrice,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: material %d ya está en el pedido", domain.ErrDuplicate, l.MaterialID)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: material %d", domain.ErrNotFound, l.MaterialID)
		}
		return fmt.Errorf("insert order line: %w", err)
	}
	return nil
}

func (r *PurchaseOrderRepo) RemoveLine(ctx context.Context, orderID, materialID int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1 AND material_id = $2`, orderID, materialID)
	if err != nil {
		return fmt.Errorf("delete order line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List pedidos más recientes primero, con sus líneas.
func (r *PurchaseOrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.PurchaseOrder, error) {
	q := psql.Select(orderColumns).From("purchase_orders").OrderBy("created_at DESC", "id DESC")
	if f.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *f.SupplierID})
	}
	if f.Year > 0 {
		q = q.Where(squirrel.Expr("EXTRACT(YEAR FROM created_at) = ?", f.Year))
	}
	if f.Month > 0 {
		q = q.Where(squirrel.Expr("EXTRACT(MONTH FROM created_at) = ?", f.Month))
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
		return nil, fmt.Errorf("build list orders: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var (
		list []*entity.PurchaseOrder
		ids  []int64
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
		ids = append(ids, o.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := r.lines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range list {
		o.Lines = lines[o.ID]
	}
	return list, nil
}

// ListMonths meses con pedidos, del más reciente al más antiguo.
func (r *PurchaseOrderRepo) ListMonths(ctx context.Context) ([]repository.OrderMonth, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT EXTRACT(YEAR FROM created_at)::int AS year, EXTRACT(MONTH FROM created_at)::int AS month
		FROM purchase_orders
		ORDER BY year DESC, month DESC`)
	if err != nil {
		return nil, fmt.Errorf("list order months: %w", err)
	}
	defer rows.Close()
	var out []repository.OrderMonth
	for rows.Next() {
		var m repository.OrderMonth
		if err := rows.Scan(&m.Year, &m.Month); err != nil {
			return nil, fmt.Errorf("scan order month: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
