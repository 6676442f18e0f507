package memory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct{ sc scope }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.sc.write(func(s *state) error {
		for _, cur := range s.users {
			if strings.EqualFold(cur.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		s.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.sc.read(func(s *state) error {
		if u, ok := s.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.sc.read(func(s *state) error {
		for _, u := range s.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) UpdateRole(_ context.Context, id, role string, at time.Time) error {
	return r.sc.write(func(s *state) error {
		u, ok := s.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		u.Role = role
		u.UpdatedAt = at
		s.users[id] = u
		return nil
	})
}
