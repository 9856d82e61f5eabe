package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/signalement-service/internal/api/dto"
	"github.com/spec-kit/signalement-service/internal/auth"
	"github.com/spec-kit/signalement-service/internal/service"
	apperrors "github.com/spec-kit/signalement-service/pkg/util/errorutil"
)

// CitizensHandler manages citizen accounts.
type CitizensHandler struct {
	service *service.CitizenService
}

// NewCitizensHandler constructs handler.
func NewCitizensHandler(citizenService *service.CitizenService) *CitizensHandler {
	return &CitizensHandler{service: citizenService}
}

// Register POST /citizens.
func (h *CitizensHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterCitizenRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	citizen, err := h.service.Register(c.UserContext(), service.CitizenRegistration{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": citizenResponse(citizen)})
}

// List GET /citizens.
func (h *CitizensHandler) List(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 100)
	if err != nil {
		return err
	}

	citizens, err := h.service.List(c.UserContext(), identity, limit, skip)
	if err != nil {
		return err
	}
	items := make([]dto.CitizenResponse, 0, len(citizens))
	for i := range citizens {
		items = append(items, citizenResponse(&citizens[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /citizens/:id.
func (h *CitizensHandler) Get(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	citizen, err := h.service.Get(c.UserContext(), identity, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": citizenResponse(citizen)})
}

// Update PUT /citizens/:id.
func (h *CitizensHandler) Update(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCitizenRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	citizen, err := h.service.Update(c.UserContext(), identity, id, service.CitizenChanges{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": citizenResponse(citizen)})
}

// Delete DELETE /citizens/:id.
func (h *CitizensHandler) Delete(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), identity, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
