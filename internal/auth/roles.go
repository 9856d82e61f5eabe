package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/signalement-service/pkg/util/errorutil"
)

// RequireAdmin ensures the caller was resolved from the admin table.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("not authenticated")
		}
		if !identity.IsAdmin() {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}

// RequireAnyRole ensures caller is authenticated (citizen or admin).
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return apperrors.NewUnauthorized("not authenticated")
		}
		return c.Next()
	}
}
