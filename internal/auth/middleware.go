package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/signalement-service/internal/domain"
	apperrors "github.com/spec-kit/signalement-service/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// IdentityResolver loads the user a validated token refers to.
type IdentityResolver interface {
	Resolve(ctx context.Context, id int64, role domain.Role) (*domain.Identity, error)
}

// AuthMiddleware validates bearer tokens and loads identities.
type AuthMiddleware struct {
	tokens   *TokenManager
	resolver IdentityResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, resolver IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, resolver: resolver}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return apperrors.MapError(err)
	}

	identity, err := m.resolver.Resolve(c.UserContext(), claims.SubjectID, claims.Role)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperrors.NewUnauthorized("could not validate credentials")
		}
		return apperrors.MapError(err)
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}
