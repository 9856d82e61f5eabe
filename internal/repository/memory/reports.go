package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/signalement-service/internal/domain"
	"github.com/spec-kit/signalement-service/internal/search"
)

type reportRepository struct {
	s *Store
}

func (r *reportRepository) Create(_ context.Context, report *domain.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.citizens[report.CitizenID]; !ok {
		return domain.NewValidationError("citizen_id", "does not reference an existing citizen")
	}
	r.s.reportSeq++
	now := r.s.timestamp()
	report.ID = r.s.reportSeq
	report.CreatedAt = now
	report.UpdatedAt = now
	r.s.reports[report.ID] = cloneReport(*report)
	return nil
}

func (r *reportRepository) GetByID(_ context.Context, id int64) (*domain.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	report, ok := r.s.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := cloneReport(report)
	return &c, nil
}

func (r *reportRepository) Search(_ context.Context, criteria search.Criteria) ([]domain.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	match := search.All(criteria.Predicates()...)
	result := []domain.Report{}
	for _, report := range r.s.reports {
		if match.Match(&report) {
			result = append(result, cloneReport(report))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// Update runs mutate on a copy under the store lock and keeps it only on success.
func (r *reportRepository) Update(_ context.Context, id int64, mutate func(*domain.Report) error) (*domain.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	working := cloneReport(stored)
	if err := mutate(&working); err != nil {
		return nil, err
	}
	working.ID = stored.ID
	working.CitizenID = stored.CitizenID
	working.CreatedAt = stored.CreatedAt
	working.UpdatedAt = r.s.timestamp()
	r.s.reports[id] = cloneReport(working)
	return &working, nil
}

func (r *reportRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reports[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.reports, id)
	return nil
}

func cloneReport(r domain.Report) domain.Report {
	if r.Comment != nil {
		comment := *r.Comment
		r.Comment = &comment
	}
	return r
}
