// Package search builds the predicate set behind report filtering. The same
// predicates render PostgreSQL clauses and evaluate in memory so every store
// applies identical semantics.
package search

import (
	"strings"

	"github.com/spec-kit/signalement-service/internal/domain"
)

// Criteria is the request-scoped set of optional report filters. Blank
// strings, empty sets and a non-positive CitizenID mean "not supplied".
type Criteria struct {
	Title       string
	City        string
	Description string
	// Text matches title, description or comment.
	Text       string
	Categories []domain.Category
	Statuses   []domain.ReportStatus
	Severities []domain.Severity
	CitizenID  int64
}

// Normalize trims every value and drops the ones that do not count as supplied.
func (c Criteria) Normalize() Criteria {
	return Criteria{
		Title:       strings.TrimSpace(c.Title),
		City:        strings.TrimSpace(c.City),
		Description: strings.TrimSpace(c.Description),
		Text:        strings.TrimSpace(c.Text),
		Categories:  compact(c.Categories),
		Statuses:    compact(c.Statuses),
		Severities:  compact(c.Severities),
		CitizenID:   max(c.CitizenID, 0),
	}
}

// IsEmpty reports whether no criterion is supplied.
func (c Criteria) IsEmpty() bool {
	return len(c.Predicates()) == 0
}

// Validate rejects enum values that no report can carry.
func (c Criteria) Validate() error {
	for _, v := range c.Normalize().Categories {
		if !v.Valid() {
			return domain.NewValidationError("category", "unknown category "+string(v))
		}
	}
	for _, v := range c.Normalize().Statuses {
		if !v.Valid() {
			return domain.NewValidationError("status", "unknown status "+string(v))
		}
	}
	for _, v := range c.Normalize().Severities {
		if !v.Valid() {
			return domain.NewValidationError("severity", "unknown severity "+string(v))
		}
	}
	return nil
}

// Predicates compiles the supplied criteria, in a stable order.
func (c Criteria) Predicates() []Predicate {
	n := c.Normalize()
	var preds []Predicate

	if n.Title != "" {
		preds = append(preds, Contains(n.Title, FieldTitle))
	}
	if n.City != "" {
		preds = append(preds, Contains(n.City, FieldCity))
	}
	if n.Description != "" {
		preds = append(preds, Contains(n.Description, FieldDescription))
	}
	if n.Text != "" {
		preds = append(preds, Contains(n.Text, FieldTitle, FieldDescription, FieldComment))
	}
	if len(n.Categories) > 0 {
		preds = append(preds, OneOf(FieldCategory, toStrings(n.Categories)...))
	}
	if len(n.Statuses) > 0 {
		preds = append(preds, OneOf(FieldStatus, toStrings(n.Statuses)...))
	}
	if len(n.Severities) > 0 {
		preds = append(preds, OneOf(FieldSeverity, toStrings(n.Severities)...))
	}
	if n.CitizenID > 0 {
		preds = append(preds, CitizenIs(n.CitizenID))
	}
	return preds
}

// Match reports whether r satisfies every supplied criterion.
func (c Criteria) Match(r *domain.Report) bool {
	return All(c.Predicates()...).Match(r)
}

func compact[T ~string](values []T) []T {
	var out []T
	for _, v := range values {
		v = T(strings.TrimSpace(string(v)))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
