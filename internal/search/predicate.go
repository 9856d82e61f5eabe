package search

import (
	"fmt"
	"strings"

	"github.com/spec-kit/signalement-service/internal/domain"
)

// Field names a filterable report attribute.
type Field string

const (
	FieldTitle       Field = "title"
	FieldCity        Field = "city"
	FieldDescription Field = "description"
	FieldComment     Field = "comment"
	FieldCategory    Field = "category"
	FieldStatus      Field = "status"
	FieldSeverity    Field = "severity"
)

// column returns the SQL expression for f. comment is nullable.
func (f Field) column() string {
	if f == FieldComment {
		return "COALESCE(comment, '')"
	}
	return string(f)
}

func (f Field) value(r *domain.Report) string {
	switch f {
	case FieldTitle:
		return r.Title
	case FieldCity:
		return r.City
	case FieldDescription:
		return r.Description
	case FieldComment:
		if r.Comment == nil {
			return ""
		}
		return *r.Comment
	case FieldCategory:
		return string(r.Category)
	case FieldStatus:
		return string(r.Status)
	case FieldSeverity:
		return string(r.Severity)
	}
	return ""
}

// Predicate is one composable report condition.
type Predicate interface {
	// Match evaluates the condition against a report.
	Match(r *domain.Report) bool
	// SQL renders the condition, binding its values through args.
	SQL(args *Args) string
}

// Args collects positional query arguments ($1, $2, ...).
type Args struct {
	values []any
}

// Add binds v and returns its placeholder.
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return fmt.Sprintf("$%d", len(a.values))
}

// Values returns the bound arguments in placeholder order.
func (a *Args) Values() []any {
	return a.values
}

// Where joins preds with AND. It returns "" when preds is empty.
func Where(args *Args, preds ...Predicate) string {
	if len(preds) == 0 {
		return ""
	}
	return All(preds...).SQL(args)
}

type containsPredicate struct {
	term   string
	fields []Field
}

// Contains matches when term is a case-insensitive substring of any field.
func Contains(term string, fields ...Field) Predicate {
	return containsPredicate{term: term, fields: fields}
}

func (p containsPredicate) Match(r *domain.Report) bool {
	needle := strings.ToLower(p.term)
	for _, f := range p.fields {
		if strings.Contains(strings.ToLower(f.value(r)), needle) {
			return true
		}
	}
	return false
}

func (p containsPredicate) SQL(args *Args) string {
	placeholder := args.Add("%" + escapeLike(strings.ToLower(p.term)) + "%")
	parts := make([]string, len(p.fields))
	for i, f := range p.fields {
		parts[i] = fmt.Sprintf(`LOWER(%s) LIKE %s ESCAPE '\'`, f.column(), placeholder)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

type oneOfPredicate struct {
	field  Field
	values []string
}

// OneOf matches when the field equals any of values.
func OneOf(field Field, values ...string) Predicate {
	return oneOfPredicate{field: field, values: values}
}

func (p oneOfPredicate) Match(r *domain.Report) bool {
	got := p.field.value(r)
	for _, v := range p.values {
		if got == v {
			return true
		}
	}
	return false
}

func (p oneOfPredicate) SQL(args *Args) string {
	if len(p.values) == 1 {
		return fmt.Sprintf("%s=%s", p.field.column(), args.Add(p.values[0]))
	}
	placeholders := make([]string, len(p.values))
	for i, v := range p.values {
		placeholders[i] = args.Add(v)
	}
	return fmt.Sprintf("%s IN (%s)", p.field.column(), strings.Join(placeholders, ","))
}

type citizenPredicate struct {
	id int64
}

// CitizenIs matches reports owned by the given citizen.
func CitizenIs(id int64) Predicate {
	return citizenPredicate{id: id}
}

func (p citizenPredicate) Match(r *domain.Report) bool {
	return r.CitizenID == p.id
}

func (p citizenPredicate) SQL(args *Args) string {
	return "citizen_id=" + args.Add(p.id)
}

type allPredicate []Predicate

// All matches when every predicate matches. An empty All matches everything.
func All(preds ...Predicate) Predicate {
	return allPredicate(preds)
}

func (p allPredicate) Match(r *domain.Report) bool {
	for _, pred := range p {
		if !pred.Match(r) {
			return false
		}
	}
	return true
}

func (p allPredicate) SQL(args *Args) string {
	if len(p) == 0 {
		return "TRUE"
	}
	parts := make([]string, len(p))
	for i, pred := range p {
		parts[i] = pred.SQL(args)
	}
	return strings.Join(parts, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
