package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos de compra en memoria.
type OrderRepo struct{ sc scope }

func (r *OrderRepo) Create(_ context.Context, o *entity.PurchaseOrder) error {
	return r.sc.write(func(s *state) error {
		if err := checkLines(s, o.Lines); err != nil {
			return err
		}
		o.ID = s.next("orders")
		if o.CreatedAt.IsZero() {
			o.CreatedAt = time.Now()
		}
		for i := range o.Lines {
			o.Lines[i].OrderID = o.ID
		}
		cp := *o
		cp.Lines = append([]entity.OrderLine(nil), o.Lines...)
		s.orders[o.ID] = cp
		return nil
	})
}

func checkLines(s *state, lines []entity.OrderLine) error {
	seen := map[int64]bool{}
	for _, l := range lines {
		if _, ok := s.materials[l.MaterialID]; !ok {
			return domain.ErrNotFound
		}
		if seen[l.MaterialID] {
			return domain.ErrDuplicate
		}
		seen[l.MaterialID] = true
	}
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id int64) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.sc.read(func(s *state) error {
		if o, ok := s.orders[id]; ok {
			o.Lines = append([]entity.OrderLine(nil), o.Lines...)
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) UpdateStatus(_ context.Context, id int64, status entity.OrderStatus) error {
	return r.sc.write(func(s *state) error {
		o, ok := s.orders[id]
		if !ok {
			return domain.ErrNotFound
		}
		o.Status = status
		s.orders[id] = o
		return nil
	})
}

func (r *OrderRepo) UpdateTotal(_ context.Context, id int64, total decimal.Decimal) error {
	return r.sc.write(func(s *state) error {
		o, ok := s.orders[id]
		if !ok {
			return domain.ErrNotFound
		}
		o.EstimatedTotal = total
		s.orders[id] = o
		return nil
	})
}

func (r *OrderRepo) AddLine(_ context.Context, line entity.OrderLine) error {
	return r.sc.write(func(s *state) error {
		o, ok := s.orders[line.OrderID]
		if !ok {
			return domain.ErrNotFound
		}
		if _, ok := s.materials[line.MaterialID]; !ok {
			return domain.ErrNotFound
		}
		if _, dup := o.Line(line.MaterialID); dup {
			return domain.ErrDuplicate
		}
		o.Lines = append(append([]entity.OrderLine(nil), o.Lines...), line)
		s.orders[o.ID] = o
		return nil
	})
}

func (r *OrderRepo) RemoveLine(_ context.Context, orderID, materialID int64) error {
	return r.sc.write(func(s *state) error {
		o, ok := s.orders[orderID]
		if !ok {
			return domain.ErrNotFound
		}
		if _, ok := o.Line(materialID); !ok {
			return domain.ErrNotFound
		}
		o.Lines = removeLines(o.Lines, materialID)
		s.orders[orderID] = o
		return nil
	})
}

func (r *OrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	err := r.sc.read(func(s *state) error {
		for _, o := range s.orders {
			if f.SupplierID != nil && (o.SupplierID == nil || *o.SupplierID != *f.SupplierID) {
				continue
			}
			if f.Year != 0 && o.CreatedAt.Year() != f.Year {
				continue
			}
			if f.Month != 0 && int(o.CreatedAt.Month()) != f.Month {
				continue
			}
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			o.Lines = nil
			out = append(out, &o)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, f.Limit, f.Offset), err
}

func (r *OrderRepo) ListMonths(_ context.Context) ([]repository.OrderMonth, error) {
	seen := map[repository.OrderMonth]bool{}
	var out []repository.OrderMonth
	err := r.sc.read(func(s *state) error {
		for _, o := range s.orders {
			m := repository.OrderMonth{Year: o.CreatedAt.Year(), Month: int(o.CreatedAt.Month())}
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year == out[j].Year {
			return out[i].Month > out[j].Month
		}
		return out[i].Year > out[j].Year
	})
	return out, err
}
