package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/signalement-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func sampleReport() *domain.Report {
	return &domain.Report{
		ID:          1,
		CitizenID:   7,
		Title:       "Lampadaire cassé",
		Location:    "Place de la République",
		City:        "Paris",
		Description: "Un lampadaire ne fonctionne plus.",
		Comment:     strPtr("Signalé par un riverain"),
		Category:    domain.CategoryAdmin,
		Severity:    domain.SeverityMinor,
		Status:      domain.ReportStatusNew,
	}
}

func TestCriteriaMatch(t *testing.T) {
	r := sampleReport()

	tests := []struct {
		name     string
		criteria Criteria
		want     bool
	}{
		{name: "empty matches everything", criteria: Criteria{}, want: true},
		{name: "city prefix case-insensitive", criteria: Criteria{City: "par"}, want: true},
		{name: "city substring", criteria: Criteria{City: "ARI"}, want: true},
		{name: "city mismatch", criteria: Criteria{City: "Lyon"}, want: false},
		{name: "title substring", criteria: Criteria{Title: "LAMPADAIRE"}, want: true},
		{name: "description substring", criteria: Criteria{Description: "fonctionne"}, want: true},
		{name: "blank title ignored", criteria: Criteria{Title: "   "}, want: true},
		{name: "citizen id zero ignored", criteria: Criteria{CitizenID: 0}, want: true},
		{name: "citizen id negative ignored", criteria: Criteria{CitizenID: -3}, want: true},
		{name: "citizen id match", criteria: Criteria{CitizenID: 7}, want: true},
		{name: "citizen id mismatch", criteria: Criteria{CitizenID: 8}, want: false},
		{name: "category single", criteria: Criteria{Categories: []domain.Category{domain.CategoryAdmin}}, want: true},
		{name: "category set", criteria: Criteria{Categories: []domain.Category{domain.CategoryPolice, domain.CategoryAdmin}}, want: true},
		{name: "category set miss", criteria: Criteria{Categories: []domain.Category{domain.CategoryPolice, domain.CategoryHospital}}, want: false},
		{name: "status and severity", criteria: Criteria{
			Statuses:   []domain.ReportStatus{domain.ReportStatusNew},
			Severities: []domain.Severity{domain.SeverityMinor},
		}, want: true},
		{name: "and semantics", criteria: Criteria{City: "Paris", Statuses: []domain.ReportStatus{domain.ReportStatusResolved}}, want: false},
		{name: "free text hits comment", criteria: Criteria{Text: "riverain"}, want: true},
		{name: "free text hits title", criteria: Criteria{Text: "cassé"}, want: true},
		{name: "free text miss", criteria: Criteria{Text: "inondation"}, want: false},
		{name: "wildcards are literal", criteria: Criteria{Title: "%"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.Match(r))
		})
	}
}

func TestFreeTextIgnoresNilComment(t *testing.T) {
	r := sampleReport()
	r.Comment = nil

	assert.False(t, Criteria{Text: "riverain"}.Match(r))
}

func TestNormalizeDropsBlankValues(t *testing.T) {
	c := Criteria{
		Title:      "  eau ",
		Categories: []domain.Category{" ", "police", ""},
		CitizenID:  -1,
	}.Normalize()

	assert.Equal(t, "eau", c.Title)
	assert.Equal(t, []domain.Category{domain.CategoryPolice}, c.Categories)
	assert.Zero(t, c.CitizenID)
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, Criteria{}.IsEmpty())
	assert.True(t, Criteria{City: " ", CitizenID: 0}.IsEmpty())
	assert.False(t, Criteria{City: "Paris"}.IsEmpty())
}

func TestValidateRejectsUnknownEnums(t *testing.T) {
	require.NoError(t, Criteria{Categories: []domain.Category{"police"}}.Validate())

	err := Criteria{Categories: []domain.Category{"fire"}}.Validate()
	require.ErrorIs(t, err, domain.ErrValidation)

	err = Criteria{Statuses: []domain.ReportStatus{"closed"}}.Validate()
	require.ErrorIs(t, err, domain.ErrValidation)

	err = Criteria{Severities: []domain.Severity{"critical"}}.Validate()
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestWhereRendersClausesInOrder(t *testing.T) {
	criteria := Criteria{
		Title:      "Lamp",
		Text:       "50%",
		Categories: []domain.Category{domain.CategoryPolice, domain.CategoryHospital},
		Statuses:   []domain.ReportStatus{domain.ReportStatusResolved},
		CitizenID:  4,
	}

	args := &Args{}
	clause := Where(args, criteria.Predicates()...)

	assert.Equal(t,
		`LOWER(title) LIKE $1 ESCAPE '\' AND `+
			`(LOWER(title) LIKE $2 ESCAPE '\' OR LOWER(description) LIKE $2 ESCAPE '\' OR LOWER(COALESCE(comment, '')) LIKE $2 ESCAPE '\') AND `+
			`category IN ($3,$4) AND status=$5 AND citizen_id=$6`,
		clause)
	assert.Equal(t, []any{"%lamp%", `%50\%%`, "police", "hospital", "resolved", int64(4)}, args.Values())
}

func TestWhereEmpty(t *testing.T) {
	args := &Args{}
	assert.Equal(t, "", Where(args))
	assert.Empty(t, args.Values())
}
