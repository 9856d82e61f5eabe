package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/signalement-service/internal/domain"
	"github.com/spec-kit/signalement-service/internal/search"
)

func TestBuildSearchQueryWithoutCriteria(t *testing.T) {
	query, args := buildSearchQuery(search.Criteria{CitizenID: 0, City: " "})

	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY created_at DESC, id DESC")
	assert.Empty(t, args)
}

func TestBuildSearchQueryWithCriteria(t *testing.T) {
	query, args := buildSearchQuery(search.Criteria{
		City:       "Par",
		Categories: []domain.Category{domain.CategoryPolice},
		Statuses:   []domain.ReportStatus{domain.ReportStatusResolved},
	})

	assert.Contains(t, query, `WHERE LOWER(city) LIKE $1 ESCAPE '\' AND category=$2 AND status=$3 ORDER BY`)
	assert.Equal(t, []any{"%par%", "police", "resolved"}, args)
}
