package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/signalement-service/internal/domain"
	"github.com/spec-kit/signalement-service/internal/search"
	apperrors "github.com/spec-kit/signalement-service/pkg/util/errorutil"
)

// pathID only checks the syntax; ids that match no row come back as 404
// from the store.
func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("id must be an integer", nil)
	}
	return id, nil
}

func queryInt(c *fiber.Ctx, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(key+" must be an integer", nil)
	}
	return v, nil
}

// queryValues collects a multi-valued parameter given either repeated
// (?category=a&category=b) or comma separated (?category=a,b).
func queryValues(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, part := range strings.Split(string(raw), ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseSearchCriteria(c *fiber.Ctx) (search.Criteria, error) {
	criteria := search.Criteria{
		Title:       c.Query("title"),
		City:        c.Query("city"),
		Description: c.Query("description"),
		Text:        c.Query("q"),
	}
	for _, v := range queryValues(c, "category") {
		criteria.Categories = append(criteria.Categories, domain.Category(v))
	}
	for _, v := range queryValues(c, "status") {
		criteria.Statuses = append(criteria.Statuses, domain.ReportStatus(v))
	}
	for _, v := range queryValues(c, "severity") {
		criteria.Severities = append(criteria.Severities, domain.Severity(v))
	}
	if raw := strings.TrimSpace(c.Query("citizen_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return search.Criteria{}, apperrors.NewValidationError("citizen_id must be an integer", nil)
		}
		criteria.CitizenID = id
	}
	return criteria, nil
}
