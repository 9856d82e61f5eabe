package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/signalement-service/internal/api/dto"
	"github.com/spec-kit/signalement-service/internal/auth"
	"github.com/spec-kit/signalement-service/internal/domain"
	"github.com/spec-kit/signalement-service/internal/service"
	apperrors "github.com/spec-kit/signalement-service/pkg/util/errorutil"
)

// ReportsHandler manages report endpoints.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// List GET {reports}.
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	reports, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportList(reports)})
}

// Search GET {reports}/search.
func (h *ReportsHandler) Search(c *fiber.Ctx) error {
	criteria, err := parseSearchCriteria(c)
	if err != nil {
		return err
	}
	reports, err := h.service.Search(c.UserContext(), criteria)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportList(reports)})
}

// Get GET {reports}/:id.
func (h *ReportsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	report, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponse(report)})
}

// Create POST {reports}.
func (h *ReportsHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	var req dto.CreateReportRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	report, err := h.service.Create(c.UserContext(), identity, service.ReportCreateInput{
		CitizenID:   req.CitizenID,
		Title:       req.Title,
		Location:    req.Location,
		City:        req.City,
		Description: req.Description,
		Comment:     req.Comment,
		Category:    domain.Category(req.Category),
		Severity:    domain.Severity(req.Severity),
		Status:      domain.ReportStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": reportResponse(report)})
}

// Update PUT {reports}/:id.
func (h *ReportsHandler) Update(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateReportRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	changes := domain.ReportChanges{
		Title:       req.Title,
		Location:    req.Location,
		City:        req.City,
		Description: req.Description,
		Comment:     req.Comment,
	}
	if req.Category != nil {
		v := domain.Category(*req.Category)
		changes.Category = &v
	}
	if req.Severity != nil {
		v := domain.Severity(*req.Severity)
		changes.Severity = &v
	}
	if req.Status != nil {
		v := domain.ReportStatus(*req.Status)
		changes.Status = &v
	}

	report, err := h.service.Update(c.UserContext(), identity, id, changes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponse(report)})
}

// Delete DELETE {reports}/:id.
func (h *ReportsHandler) Delete(c *fiber.Ctx) error {
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
