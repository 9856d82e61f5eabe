package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/signalement-service/internal/domain"
	"github.com/spec-kit/signalement-service/internal/repository/memory"
)

func TestAuthenticateCitizen(t *testing.T) {
	f := newFixture(t)
	c := f.citizen(t, "jean@example.com", "pw")

	identity, err := f.auth.Authenticate(context.Background(), "jean@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCitizen, identity.Role)
	assert.Equal(t, c.ID, identity.ID())

	_, err = f.auth.Authenticate(context.Background(), "jean@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.auth.Authenticate(context.Background(), "nobody@example.com", "pw")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticatePrefersAdmin(t *testing.T) {
	f := newFixture(t)
	f.citizen(t, "shared@example.com", "pw")
	a := f.admin(t, "shared@example.com", "pw")

	identity, err := f.auth.Authenticate(context.Background(), "shared@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, identity.IsAdmin())
	assert.Equal(t, a.ID, identity.ID())
}

func TestAuthenticateFallsThroughOnAdminPasswordMismatch(t *testing.T) {
	f := newFixture(t)
	f.citizen(t, "shared@example.com", "citizen-pw")
	f.admin(t, "shared@example.com", "admin-pw")

	identity, err := f.auth.Authenticate(context.Background(), "shared@example.com", "citizen-pw")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCitizen, identity.Role)
}

func TestAuthenticateWithoutAdminTable(t *testing.T) {
	f := newFixture(t, memory.WithoutAdminTable())
	f.citizen(t, "jean@example.com", "pw")

	identity, err := f.auth.Authenticate(context.Background(), "jean@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCitizen, identity.Role)

	_, err = f.auth.Resolve(context.Background(), 1, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	f := newFixture(t)
	c := f.citizen(t, "jean@example.com", "pw")

	result, err := f.auth.Login(context.Background(), "jean@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "bearer", result.TokenType)
	assert.NotEmpty(t, result.AccessToken)

	identity, err := f.auth.CurrentIdentity(context.Background(), result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, c.ID, identity.ID())
	assert.Equal(t, "jean@example.com", identity.Email())
}

func TestCurrentIdentityRejectsBadTokens(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.CurrentIdentity(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrMalformedToken)

	token, _, err := f.tokens.GenerateToken("gone@example.com", 42, domain.RoleCitizen)
	require.NoError(t, err)
	_, err = f.auth.CurrentIdentity(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestResolveUnknownRoleReadsCitizens(t *testing.T) {
	f := newFixture(t)
	c := f.citizen(t, "jean@example.com", "pw")

	identity, err := f.auth.Resolve(context.Background(), c.ID, domain.Role("moderator"))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCitizen, identity.Role)
	assert.Equal(t, c.ID, identity.ID())
}

func TestResolveAdmin(t *testing.T) {
	f := newFixture(t)
	a := f.admin(t, "root@example.com", "pw")

	identity, err := f.auth.Resolve(context.Background(), a.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, identity.IsAdmin())

	_, err = f.auth.Resolve(context.Background(), a.ID+1, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProvisionAdminRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	f.admin(t, "root@example.com", "pw")

	_, err := f.auth.ProvisionAdmin(context.Background(), "root@example.com", "pw2")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = f.auth.ProvisionAdmin(context.Background(), " ", "pw")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
