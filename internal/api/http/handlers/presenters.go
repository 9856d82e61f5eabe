package handlers

import (
	"github.com/spec-kit/signalement-service/internal/api/dto"
	"github.com/spec-kit/signalement-service/internal/domain"
)

func citizenResponse(c *domain.Citizen) dto.CitizenResponse {
	return dto.CitizenResponse{
		ID:          c.ID,
		Email:       c.Email,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		PhoneNumber: c.PhoneNumber,
		CreatedAt:   c.CreatedAt,
	}
}

func reportResponse(r *domain.Report) dto.ReportResponse {
	return dto.ReportResponse{
		ID:          r.ID,
		CitizenID:   r.CitizenID,
		Title:       r.Title,
		Location:    r.Location,
		City:        r.City,
		Description: r.Description,
		Comment:     r.Comment,
		Category:    string(r.Category),
		Severity:    string(r.Severity),
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func reportList(reports []domain.Report) []dto.ReportResponse {
	items := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, reportResponse(&reports[i]))
	}
	return items
}
