package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/signalement-service/internal/auth"
	"github.com/spec-kit/signalement-service/internal/domain"
	"github.com/spec-kit/signalement-service/internal/repository"
)

const (
	defaultCitizenPageSize = 100
	maxCitizenPageSize     = 500
)

// CitizenService manages citizen accounts.
type CitizenService struct {
	citizens repository.CitizenRepository
	hasher   *auth.PasswordHasher
	logger   *zap.Logger
}

// CitizenRegistration describes a sign-up request.
type CitizenRegistration struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber *string
}

// CitizenChanges lists profile fields to update. Nil means unchanged.
type CitizenChanges struct {
	Email       *string
	Password    *string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
}

// NewCitizenService builds the service.
func NewCitizenService(citizens repository.CitizenRepository, hasher *auth.PasswordHasher, logger *zap.Logger) *CitizenService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CitizenService{citizens: citizens, hasher: hasher, logger: logger}
}

// Register creates a citizen with a hashed password.
func (s *CitizenService) Register(ctx context.Context, input CitizenRegistration) (*domain.Citizen, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, domain.NewValidationError("email", "must not be empty")
	}
	if input.Password == "" {
		return nil, domain.NewValidationError("password", "must not be empty")
	}

	if _, err := s.citizens.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	citizen := &domain.Citizen{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PhoneNumber:  trimmedOrNil(input.PhoneNumber),
	}
	if err := s.citizens.Create(ctx, citizen); err != nil {
		return nil, err
	}
	s.logger.Info("citizen registered", zap.Int64("citizen_id", citizen.ID))
	return citizen, nil
}

// Get returns a citizen profile visible to actor.
func (s *CitizenService) Get(ctx context.Context, actor *domain.Identity, id int64) (*domain.Citizen, error) {
	if err := authorizeCitizen(actor, id); err != nil {
		return nil, err
	}
	return s.citizens.GetByID(ctx, id)
}

// List pages through citizens ordered by id. Admin only.
func (s *CitizenService) List(ctx context.Context, actor *domain.Identity, limit, offset int) ([]domain.Citizen, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if limit <= 0 {
		limit = defaultCitizenPageSize
	}
	if limit > maxCitizenPageSize {
		limit = maxCitizenPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.citizens.List(ctx, limit, offset)
}

// Update applies changes to a citizen profile.
func (s *CitizenService) Update(ctx context.Context, actor *domain.Identity, id int64, changes CitizenChanges) (*domain.Citizen, error) {
	if err := authorizeCitizen(actor, id); err != nil {
		return nil, err
	}

	citizen, err := s.citizens.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if changes.Email != nil {
		email := strings.TrimSpace(*changes.Email)
		if email == "" {
			return nil, domain.NewValidationError("email", "must not be empty")
		}
		citizen.Email = email
	}
	if changes.Password != nil {
		if *changes.Password == "" {
			return nil, domain.NewValidationError("password", "must not be empty")
		}
		hash, err := s.hasher.Hash(*changes.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		citizen.PasswordHash = hash
	}
	if changes.FirstName != nil {
		citizen.FirstName = strings.TrimSpace(*changes.FirstName)
	}
	if changes.LastName != nil {
		citizen.LastName = strings.TrimSpace(*changes.LastName)
	}
	if changes.PhoneNumber != nil {
		citizen.PhoneNumber = trimmedOrNil(changes.PhoneNumber)
	}

	if err := s.citizens.Update(ctx, citizen); err != nil {
		return nil, err
	}
	return citizen, nil
}

// Delete removes a citizen together with their reports.
func (s *CitizenService) Delete(ctx context.Context, actor *domain.Identity, id int64) error {
	if err := authorizeCitizen(actor, id); err != nil {
		return err
	}
	if err := s.citizens.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("citizen deleted", zap.Int64("citizen_id", id), zap.String("by_role", string(actor.Role)))
	return nil
}

// authorizeCitizen allows admins and the citizen themself.
func authorizeCitizen(actor *domain.Identity, citizenID int64) error {
	if actor == nil {
		return domain.ErrForbidden
	}
	if actor.IsAdmin() {
		return nil
	}
	if actor.Role == domain.RoleCitizen && actor.ID() == citizenID {
		return nil
	}
	return domain.ErrForbidden
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
