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
	_ repository.ServiceRepository     = (*ServiceRepo)(nil)
	_ repository.ConsumptionRepository = (*ConsumptionRepo)(nil)
)

// ServiceRepo servicios en memoria.
type ServiceRepo struct{ sc scope }

func (r *ServiceRepo) Create(_ context.Context, svc *entity.Service) error {
	return r.sc.write(func(s *state) error {
		seen := map[int64]bool{}
		for _, it := range svc.Items {
			if _, ok := s.materials[it.MaterialID]; !ok {
				return domain.ErrNotFound
			}
			if seen[it.MaterialID] {
				return domain.ErrDuplicate
			}
			seen[it.MaterialID] = true
		}
		svc.ID = s.next("services")
		if svc.CreatedAt.IsZero() {
			svc.CreatedAt = time.Now()
		}
		for i := range svc.Items {
			svc.Items[i].ServiceID = svc.ID
		}
		cp := *svc
		cp.Items = append([]entity.RequiredItem(nil), svc.Items...)
		s.services[svc.ID] = cp
		return nil
	})
}

func (r *ServiceRepo) GetByID(_ context.Context, id int64) (*entity.Service, error) {
	var out *entity.Service
	err := r.sc.read(func(s *state) error {
		if svc, ok := s.services[id]; ok {
			svc.Items = append([]entity.RequiredItem(nil), svc.Items...)
			out = &svc
		}
		return nil
	})
	return out, err
}

func (r *ServiceRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Service, error) {
	return r.GetByID(ctx, id)
}

func (r *ServiceRepo) UpdateStatus(_ context.Context, id int64, status entity.ServiceStatus) error {
	return r.sc.write(func(s *state) error {
		svc, ok := s.services[id]
		if !ok {
			return domain.ErrNotFound
		}
		svc.Status = status
		s.services[id] = svc
		return nil
	})
}

func (r *ServiceRepo) AddItem(_ context.Context, item entity.RequiredItem) error {
	return r.sc.write(func(s *state) error {
		svc, ok := s.services[item.ServiceID]
		if !ok {
			return domain.ErrNotFound
		}
		if _, ok := s.materials[item.MaterialID]; !ok {
			return domain.ErrNotFound
		}
		if _, dup := svc.Item(item.MaterialID); dup {
			return domain.ErrDuplicate
		}
		svc.Items = append(append([]entity.RequiredItem(nil), svc.Items...), item)
		s.services[svc.ID] = svc
		return nil
	})
}

func (r *ServiceRepo) RemoveItem(_ context.Context, serviceID, materialID int64) error {
	return r.sc.write(func(s *state) error {
		svc, ok := s.services[serviceID]
		if !ok {
			return domain.ErrNotFound
		}
		if _, ok := svc.Item(materialID); !ok {
			return domain.ErrNotFound
		}
		svc.Items = removeItems(svc.Items, materialID)
		s.services[serviceID] = svc
		return nil
	})
}

func (r *ServiceRepo) List(_ context.Context, f repository.ServiceFilter) ([]*entity.Service, error) {
	var out []*entity.Service
	err := r.sc.read(func(s *state) error {
		search := strings.ToLower(strings.TrimSpace(f.Search))
		for _, svc := range s.services {
			if search != "" && !strings.Contains(strings.ToLower(svc.Name), search) {
				continue
			}
			if f.Status != "" && svc.Status != f.Status {
				continue
			}
			svc.Items = nil
			out = append(out, &svc)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, f.Limit, f.Offset), err
}

// ConsumptionRepo registros de consumo en memoria.
type ConsumptionRepo struct{ sc scope }

func (r *ConsumptionRepo) Create(_ context.Context, c *entity.ConsumptionRecord) error {
	return r.sc.write(func(s *state) error {
		c.ID = s.next("consumption")
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now()
		}
		s.consumption = append(s.consumption, *c)
		return nil
	})
}

func (r *ConsumptionRepo) ListByService(_ context.Context, serviceID int64) ([]*entity.ConsumptionRecord, error) {
	var out []*entity.ConsumptionRecord
	err := r.sc.read(func(s *state) error {
		for _, c := range s.consumption {
			if c.ServiceID == serviceID {
				c := c
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}
