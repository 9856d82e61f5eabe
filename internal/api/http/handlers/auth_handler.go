package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/signalement-service/internal/api/dto"
	"github.com/spec-kit/signalement-service/internal/auth"
	"github.com/spec-kit/signalement-service/internal/service"
	apperrors "github.com/spec-kit/signalement-service/pkg/util/errorutil"
)

// AuthHandler exposes login and identity endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	email := strings.TrimSpace(req.Identifier())
	if email == "" {
		return apperrors.NewValidationError("email is required", nil)
	}

	result, err := h.auth.Login(c.UserContext(), email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		Role:        string(result.Identity.Role),
		UserID:      result.Identity.ID(),
		Email:       result.Identity.Email(),
		ExpiresAt:   result.ExpiresAt,
	}})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	return c.JSON(fiber.Map{"data": dto.IdentityResponse{
		ID:    identity.ID(),
		Email: identity.Email(),
		Role:  string(identity.Role),
	}})
}
