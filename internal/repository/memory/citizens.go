package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/signalement-service/internal/domain"
)

type citizenRepository struct {
	s *Store
}

func (r *citizenRepository) Create(_ context.Context, citizen *domain.Citizen) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(citizen.Email, 0) {
		return domain.ErrEmailTaken
	}
	r.s.citizenSeq++
	citizen.ID = r.s.citizenSeq
	citizen.CreatedAt = r.s.timestamp()
	r.s.citizens[citizen.ID] = cloneCitizen(*citizen)
	return nil
}

func (r *citizenRepository) Update(_ context.Context, citizen *domain.Citizen) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.citizens[citizen.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.emailTaken(citizen.Email, citizen.ID) {
		return domain.ErrEmailTaken
	}
	updated := cloneCitizen(*citizen)
	updated.CreatedAt = stored.CreatedAt
	r.s.citizens[citizen.ID] = updated
	return nil
}

// Delete removes the citizen and, like the foreign key, their reports.
func (r *citizenRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.citizens[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.citizens, id)
	for reportID, report := range r.s.reports {
		if report.CitizenID == id {
			delete(r.s.reports, reportID)
		}
	}
	return nil
}

func (r *citizenRepository) GetByID(_ context.Context, id int64) (*domain.Citizen, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	citizen, ok := r.s.citizens[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := cloneCitizen(citizen)
	return &c, nil
}

func (r *citizenRepository) GetByEmail(_ context.Context, email string) (*domain.Citizen, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, citizen := range r.s.citizens {
		if citizen.Email == email {
			c := cloneCitizen(citizen)
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *citizenRepository) List(_ context.Context, limit, offset int) ([]domain.Citizen, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	all := make([]domain.Citizen, 0, len(r.s.citizens))
	for _, citizen := range r.s.citizens {
		all = append(all, cloneCitizen(citizen))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return []domain.Citizen{}, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

// emailTaken must be called with the lock held.
func (r *citizenRepository) emailTaken(email string, exceptID int64) bool {
	for id, citizen := range r.s.citizens {
		if id != exceptID && citizen.Email == email {
			return true
		}
	}
	return false
}

func cloneCitizen(c domain.Citizen) domain.Citizen {
	if c.PhoneNumber != nil {
		phone := *c.PhoneNumber
		c.PhoneNumber = &phone
	}
	return c
}
