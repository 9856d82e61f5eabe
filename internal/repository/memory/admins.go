package memory

import (
	"context"

	"github.com/spec-kit/signalement-service/internal/domain"
)

type adminRepository struct {
	s *Store
}

func (r *adminRepository) Available(context.Context) bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.adminsOn
}

func (r *adminRepository) Create(_ context.Context, admin *domain.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.adminsOn {
		return domain.ErrNotFound
	}
	for _, existing := range r.s.admins {
		if existing.Email == admin.Email {
			return domain.ErrEmailTaken
		}
	}
	r.s.adminSeq++
	admin.ID = r.s.adminSeq
	admin.CreatedAt = r.s.timestamp()
	r.s.admins[admin.ID] = *admin
	return nil
}

func (r *adminRepository) GetByID(_ context.Context, id int64) (*domain.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	admin, ok := r.s.admins[id]
	if !ok || !r.s.adminsOn {
		return nil, domain.ErrNotFound
	}
	return &admin, nil
}

func (r *adminRepository) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.adminsOn {
		return nil, domain.ErrNotFound
	}
	for _, admin := range r.s.admins {
		if admin.Email == email {
			a := admin
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}
