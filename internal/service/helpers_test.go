package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/signalement-service/internal/auth"
	"github.com/spec-kit/signalement-service/internal/domain"
	"github.com/spec-kit/signalement-service/internal/repository/memory"
)

type fixture struct {
	store    *memory.Store
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenManager
	auth     *AuthService
	citizens *CitizenService
}

func newFixture(t *testing.T, opts ...memory.Option) *fixture {
	t.Helper()
	store := memory.NewStore(opts...)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost, false, nil)
	tokens := auth.NewTokenManager("test-secret", 0)

	return &fixture{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		auth: NewAuthService(AuthDependencies{
			CitizenRepo:  store.Citizens(),
			AdminRepo:    store.Admins(),
			Hasher:       hasher,
			TokenManager: tokens,
		}),
		citizens: NewCitizenService(store.Citizens(), hasher, nil),
	}
}

func (f *fixture) citizen(t *testing.T, email, password string) *domain.Citizen {
	t.Helper()
	c, err := f.citizens.Register(context.Background(), CitizenRegistration{Email: email, Password: password})
	require.NoError(t, err)
	return c
}

func (f *fixture) admin(t *testing.T, email, password string) *domain.Admin {
	t.Helper()
	a, err := f.auth.ProvisionAdmin(context.Background(), email, password)
	require.NoError(t, err)
	return a
}
