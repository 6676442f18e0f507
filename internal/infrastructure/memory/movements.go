package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var (
	_ repository.MovementRepository = (*MovementRepo)(nil)
	_ repository.ReportRepository   = (*ReportRepo)(nil)
)

// MovementRepo libro de movimientos en memoria (solo inserción).
type MovementRepo struct{ sc scope }

func (r *MovementRepo) Create(_ context.Context, m *entity.MovementRecord) error {
	return r.sc.write(func(s *state) error {
		if _, ok := s.materials[m.MaterialID]; !ok {
			return domain.ErrNotFound
		}
		m.ID = s.next("movements")
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
		s.movements = append(s.movements, *m)
		return nil
	})
}

func (r *MovementRepo) ListByMaterial(_ context.Context, materialID int64) ([]*entity.MovementRecord, error) {
	var out []*entity.MovementRecord
	err := r.sc.read(func(s *state) error {
		for _, m := range s.movements {
			if m.MaterialID == materialID {
				m := m
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

// ReportRepo consultas de dashboard e histórico sobre los datos en memoria.
type ReportRepo struct{ sc scope }

func (r *ReportRepo) StockValue(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.sc.read(func(s *state) error {
		for _, m := range s.materials {
			total = total.Add(m.StockValue())
		}
		return nil
	})
	return total, err
}

func (r *ReportRepo) CountServicesByStatus(_ context.Context, status entity.ServiceStatus) (int, error) {
	n := 0
	err := r.sc.read(func(s *state) error {
		for _, svc := range s.services {
			if svc.Status == status {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ReportRepo) CriticalMaterials(_ context.Context, threshold int64) ([]repository.CriticalMaterial, error) {
	var out []repository.CriticalMaterial
	err := r.sc.read(func(s *state) error {
		for _, m := range s.materials {
			if m.Stock >= threshold {
				continue
			}
			out = append(out, repository.CriticalMaterial{
				ID:       m.ID,
				Name:     m.Name,
				Stock:    m.Stock,
				UnitName: unitName(s, m.UnitID),
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stock == out[j].Stock {
			return out[i].Name < out[j].Name
		}
		return out[i].Stock < out[j].Stock
	})
	return out, err
}

func (r *ReportRepo) Movements(_ context.Context, f repository.MovementFilter) ([]repository.MovementView, error) {
	var out []repository.MovementView
	err := r.sc.read(func(s *state) error {
		search := strings.ToLower(strings.TrimSpace(f.Search))
		for _, m := range s.movements {
			mat := s.materials[m.MaterialID]
			if f.Kind != "" && m.Kind != f.Kind {
				continue
			}
			if f.CategoryID != nil && (mat.CategoryID == nil || *mat.CategoryID != *f.CategoryID) {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(mat.Name), search) &&
				!strings.Contains(strings.ToLower(m.Reference), search) {
				continue
			}
			out = append(out, repository.MovementView{
				ID:            m.ID,
				TransactionID: m.TransactionID,
				MaterialID:    m.MaterialID,
				MaterialName:  mat.Name,
				UnitName:      unitName(s, mat.UnitID),
				Kind:          m.Kind,
				Quantity:      m.Quantity,
				Reference:     m.Reference,
				CreatedAt:     m.CreatedAt,
			})
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

func unitName(s *state, id *int64) *string {
	if id == nil {
		return nil
	}
	u, ok := s.units[*id]
	if !ok {
		return nil
	}
	name := u.Name
	return &name
}
