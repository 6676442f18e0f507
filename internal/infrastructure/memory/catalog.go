package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var (
	_ repository.MaterialRepository = (*MaterialRepo)(nil)
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.UnitRepository     = (*UnitRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// MaterialRepo materiales en memoria.
type MaterialRepo struct{ sc scope }

func (r *MaterialRepo) Create(_ context.Context, m *entity.Material) error {
	return r.sc.write(func(s *state) error {
		m.ID = s.next("materials")
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
		if m.UpdatedAt.IsZero() {
			m.UpdatedAt = m.CreatedAt
		}
		s.materials[m.ID] = *m
		return nil
	})
}

func (r *MaterialRepo) GetByID(_ context.Context, id int64) (*entity.Material, error) {
	var out *entity.Material
	err := r.sc.read(func(s *state) error {
		if m, ok := s.materials[id]; ok {
			out = &m
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a GetByID: el TxRunner ya tiene el lock exclusivo.
func (r *MaterialRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Material, error) {
	return r.GetByID(ctx, id)
}

func (r *MaterialRepo) Update(_ context.Context, m *entity.Material) error {
	return r.sc.write(func(s *state) error {
		cur, ok := s.materials[m.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Name = m.Name
		cur.UnitPrice = m.UnitPrice
		cur.CategoryID = m.CategoryID
		cur.UnitID = m.UnitID
		cur.UpdatedAt = m.UpdatedAt
		s.materials[m.ID] = cur
		return nil
	})
}

func (r *MaterialRepo) UpdateStock(_ context.Context, id int64, stock int64) error {
	return r.sc.write(func(s *state) error {
		cur, ok := s.materials[id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Stock = stock
		cur.UpdatedAt = time.Now()
		s.materials[id] = cur
		return nil
	})
}

func (r *MaterialRepo) List(_ context.Context, f repository.MaterialFilter) ([]*entity.Material, error) {
	var out []*entity.Material
	err := r.sc.read(func(s *state) error {
		search := strings.ToUpper(strings.TrimSpace(f.Search))
		for _, m := range s.materials {
			if search != "" && !strings.Contains(strings.ToUpper(m.Name), search) {
				continue
			}
			if f.CategoryID != nil && (m.CategoryID == nil || *m.CategoryID != *f.CategoryID) {
				continue
			}
			m := m
			out = append(out, &m)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return paginate(out, f.Limit, f.Offset), err
}

// Delete rechaza materiales con historial; las líneas e ítems que lo citan se eliminan con él.
func (r *MaterialRepo) Delete(_ context.Context, id int64) error {
	return r.sc.write(func(s *state) error {
		if _, ok := s.materials[id]; !ok {
			return domain.ErrNotFound
		}
		for _, m := range s.movements {
			if m.MaterialID == id {
				return domain.ErrMaterialInUse
			}
		}
		for _, c := range s.consumption {
			if c.MaterialID == id {
				return domain.ErrMaterialInUse
			}
		}
		for oid, o := range s.orders {
			o.Lines = removeLines(o.Lines, id)
			s.orders[oid] = o
		}
		for sid, svc := range s.services {
			svc.Items = removeItems(svc.Items, id)
			s.services[sid] = svc
		}
		delete(s.materials, id)
		return nil
	})
}

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ sc scope }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.sc.write(func(s *state) error {
		for _, cur := range s.categories {
			if strings.EqualFold(cur.Name, c.Name) {
				return domain.ErrDuplicate
			}
		}
		c.ID = s.next("categories")
		s.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	var out *entity.Category
	err := r.sc.read(func(s *state) error {
		if c, ok := s.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.sc.read(func(s *state) error {
		for _, c := range s.categories {
			c := c
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// Delete deja sin categoría a los materiales que la usaban.
func (r *CategoryRepo) Delete(_ context.Context, id int64) error {
	return r.sc.write(func(s *state) error {
		if _, ok := s.categories[id]; !ok {
			return domain.ErrNotFound
		}
		for mid, m := range s.materials {
			if m.CategoryID != nil && *m.CategoryID == id {
				m.CategoryID = nil
				s.materials[mid] = m
			}
		}
		delete(s.categories, id)
		return nil
	})
}

// UnitRepo unidades de medida en memoria.
type UnitRepo struct{ sc scope }

func (r *UnitRepo) Create(_ context.Context, u *entity.UnitOfMeasure) error {
	return r.sc.write(func(s *state) error {
		for _, cur := range s.units {
			if strings.EqualFold(cur.Name, u.Name) {
				return domain.ErrDuplicate
			}
		}
		u.ID = s.next("units")
		s.units[u.ID] = *u
		return nil
	})
}

func (r *UnitRepo) GetByID(_ context.Context, id int64) (*entity.UnitOfMeasure, error) {
	var out *entity.UnitOfMeasure
	err := r.sc.read(func(s *state) error {
		if u, ok := s.units[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UnitRepo) List(_ context.Context) ([]*entity.UnitOfMeasure, error) {
	var out []*entity.UnitOfMeasure
	err := r.sc.read(func(s *state) error {
		for _, u := range s.units {
			u := u
			out = append(out, &u)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// Delete deja sin unidad a los materiales que la usaban.
func (r *UnitRepo) Delete(_ context.Context, id int64) error {
	return r.sc.write(func(s *state) error {
		if _, ok := s.units[id]; !ok {
			return domain.ErrNotFound
		}
		for mid, m := range s.materials {
			if m.UnitID != nil && *m.UnitID == id {
				m.UnitID = nil
				s.materials[mid] = m
			}
		}
		delete(s.units, id)
		return nil
	})
}

// SupplierRepo fornecedores en memoria.
type SupplierRepo struct{ sc scope }

func (r *SupplierRepo) Create(_ context.Context, sup *entity.Supplier) error {
	return r.sc.write(func(s *state) error {
		sup.ID = s.next("suppliers")
		s.suppliers[sup.ID] = *sup
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id int64) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.sc.read(func(s *state) error {
		if sup, ok := s.suppliers[id]; ok {
			out = &sup
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepo) List(_ context.Context) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	err := r.sc.read(func(s *state) error {
		for _, sup := range s.suppliers {
			sup := sup
			out = append(out, &sup)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// Delete deja los pedidos del fornecedor sin fornecedor.
func (r *SupplierRepo) Delete(_ context.Context, id int64) error {
	return r.sc.write(func(s *state) error {
		if _, ok := s.suppliers[id]; !ok {
			return domain.ErrNotFound
		}
		for oid, o := range s.orders {
			if o.SupplierID != nil && *o.SupplierID == id {
				o.SupplierID = nil
				s.orders[oid] = o
			}
		}
		delete(s.suppliers, id)
		return nil
	})
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func removeLines(lines []entity.OrderLine, materialID int64) []entity.OrderLine {
	out := lines[:0:0]
	for _, l := range lines {
		if l.MaterialID != materialID {
			out = append(out, l)
		}
	}
	return out
}

func removeItems(items []entity.RequiredItem, materialID int64) []entity.RequiredItem {
	out := items[:0:0]
	for _, it := range items {
		if it.MaterialID != materialID {
			out = append(out, it)
		}
	}
	return out
}
