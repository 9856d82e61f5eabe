// Package memory provides process-local repositories used when no database
// is configured and by service tests.
package memory

import (
	"sync"
	"time"

	"github.com/spec-kit/signalement-service/internal/domain"
	"github.com/spec-kit/signalement-service/internal/repository"
)

// Store owns every table. Repositories obtained from the same Store share it.
type Store struct {
	mu       sync.Mutex
	now      func() time.Time
	adminsOn bool

	citizens map[int64]domain.Citizen
	admins   map[int64]domain.Admin
	reports  map[int64]domain.Report

	citizenSeq int64
	adminSeq   int64
	reportSeq  int64
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithoutAdminTable simulates a deployment where the admin table is not provisioned.
func WithoutAdminTable() Option {
	return func(s *Store) { s.adminsOn = false }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:      time.Now,
		adminsOn: true,
		citizens: make(map[int64]domain.Citizen),
		admins:   make(map[int64]domain.Admin),
		reports:  make(map[int64]domain.Report),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Citizens returns the citizen repository view.
func (s *Store) Citizens() repository.CitizenRepository { return &citizenRepository{s} }

// Admins returns the admin repository view.
func (s *Store) Admins() repository.AdminRepository { return &adminRepository{s} }

// Reports returns the report repository view.
func (s *Store) Reports() repository.ReportRepository { return &reportRepository{s} }

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}
