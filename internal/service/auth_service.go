package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/signalement-service/internal/auth"
	"github.com/spec-kit/signalement-service/internal/domain"
	"github.com/spec-kit/signalement-service/internal/observability"
	"github.com/spec-kit/signalement-service/internal/repository"
)

// AuthService verifies credentials, issues tokens and resolves token
// subjects back to users.
type AuthService struct {
	citizens repository.CitizenRepository
	admins   repository.AdminRepository
	hasher   *auth.PasswordHasher
	tokenMgr *auth.TokenManager
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
// AdminRepo may be nil when the admin source is disabled.
type AuthDependencies struct {
	CitizenRepo  repository.CitizenRepository
	AdminRepo    repository.AdminRepository
	Hasher       *auth.PasswordHasher
	TokenManager *auth.TokenManager
	Metrics      *observability.Metrics
	Logger       *zap.Logger
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Identity    *domain.Identity
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		citizens: deps.CitizenRepo,
		admins:   deps.AdminRepo,
		hasher:   deps.Hasher,
		tokenMgr: deps.TokenManager,
		metrics:  deps.Metrics,
		logger:   logger,
	}
}

// Authenticate checks email and password against admins first, then
// citizens. It returns ErrInvalidCredentials when nothing matches.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.adminSourceAvailable(ctx) {
		admin, err := s.admins.GetByEmail(ctx, email)
		switch {
		case err == nil:
			if s.hasher.Verify(password, admin.PasswordHash) {
				return domain.AdminIdentity(admin), nil
			}
		case !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("lookup admin: %w", err)
		}
	}

	citizen, err := s.citizens.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup citizen: %w", err)
	}
	if !s.hasher.Verify(password, citizen.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return domain.CitizenIdentity(citizen), nil
}

// Login authenticates and issues an access token for the matched user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	identity, err := s.Authenticate(ctx, email, password)
	if err != nil {
		s.metrics.RecordLogin(false, "")
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.logger.Info("login rejected", zap.String("email", email))
		}
		return nil, err
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(identity.Email(), identity.ID(), identity.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.RecordLogin(true, string(identity.Role))
	s.logger.Info("login succeeded",
		zap.String("role", string(identity.Role)),
		zap.Int64("user_id", identity.ID()))

	return &LoginResult{
		Identity:    identity,
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// Resolve loads the user a token refers to. Role admin reads the admin
// table; every other role, including unknown ones, reads citizens.
func (s *AuthService) Resolve(ctx context.Context, id int64, role domain.Role) (*domain.Identity, error) {
	if role == domain.RoleAdmin {
		if !s.adminSourceAvailable(ctx) {
			return nil, domain.ErrNotFound
		}
		admin, err := s.admins.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return domain.AdminIdentity(admin), nil
	}

	if role != domain.RoleCitizen {
		s.logger.Warn("unknown role resolved as citizen", zap.String("role", string(role)))
	}
	citizen, err := s.citizens.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.CitizenIdentity(citizen), nil
}

// CurrentIdentity validates token and resolves its subject.
func (s *AuthService) CurrentIdentity(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, err
	}
	identity, err := s.Resolve(ctx, claims.SubjectID, claims.Role)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: token subject no longer exists", domain.ErrInvalidCredentials)
	}
	return identity, err
}

// ProvisionAdmin creates an admin account. Admins are never created over HTTP.
func (s *AuthService) ProvisionAdmin(ctx context.Context, email, password string) (*domain.Admin, error) {
	if !s.adminSourceAvailable(ctx) {
		return nil, errors.New("admin source is not available")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.NewValidationError("email", "must not be empty")
	}
	if password == "" {
		return nil, domain.NewValidationError("password", "must not be empty")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	admin := &domain.Admin{Email: email, PasswordHash: hash}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) adminSourceAvailable(ctx context.Context) bool {
	return s.admins != nil && s.admins.Available(ctx)
}
