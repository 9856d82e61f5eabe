package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/signalement-service/internal/domain"
	"github.com/spec-kit/signalement-service/internal/events"
	"github.com/spec-kit/signalement-service/internal/repository"
	"github.com/spec-kit/signalement-service/internal/search"
)

// ReportService coordinates report workflows.
type ReportService struct {
	reports    repository.ReportRepository
	citizens   repository.CitizenRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ReportDependencies bundles repositories for the report service.
type ReportDependencies struct {
	ReportRepo  repository.ReportRepository
	CitizenRepo repository.CitizenRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// ReportCreateInput describes report creation payload. Empty severity and
// status take their defaults.
type ReportCreateInput struct {
	CitizenID   int64
	Title       string
	Location    string
	City        string
	Description string
	Comment     *string
	Category    domain.Category
	Severity    domain.Severity
	Status      domain.ReportStatus
}

// NewReportService builds the service.
func NewReportService(deps ReportDependencies) *ReportService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		reports:    deps.ReportRepo,
		citizens:   deps.CitizenRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create files a report on behalf of a citizen. Citizens may only file for
// themselves; admins may file for anyone.
func (s *ReportService) Create(ctx context.Context, actor *domain.Identity, input ReportCreateInput) (*domain.Report, error) {
	if input.CitizenID <= 0 {
		return nil, domain.NewValidationError("citizen_id", "must be a positive integer")
	}

	report := &domain.Report{
		CitizenID:   input.CitizenID,
		Title:       strings.TrimSpace(input.Title),
		Location:    strings.TrimSpace(input.Location),
		City:        strings.TrimSpace(input.City),
		Description: strings.TrimSpace(input.Description),
		Comment:     trimmedOrNil(input.Comment),
		Category:    input.Category,
		Severity:    input.Severity,
		Status:      input.Status,
	}
	if report.Severity == "" {
		report.Severity = domain.SeverityMinor
	}
	if report.Status == "" {
		report.Status = domain.ReportStatusNew
	}
	if err := validateReport(report); err != nil {
		return nil, err
	}

	if _, err := s.citizens.GetByID(ctx, input.CitizenID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("citizen_id", "citizen does not exist")
		}
		return nil, err
	}
	if !canActFor(actor, input.CitizenID) {
		return nil, domain.ErrForbidden
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewEvent(events.EventReportCreated, report.ID, events.ActorFrom(actor), events.ReportCreatedPayload{
		CitizenID: report.CitizenID,
		Title:     report.Title,
		City:      report.City,
		Category:  report.Category,
		Severity:  report.Severity,
	}))
	return report, nil
}

// Get returns one report.
func (s *ReportService) Get(ctx context.Context, id int64) (*domain.Report, error) {
	return s.reports.GetByID(ctx, id)
}

// List returns every report, newest first.
func (s *ReportService) List(ctx context.Context) ([]domain.Report, error) {
	return s.reports.Search(ctx, search.Criteria{})
}

// Search returns the reports matching all supplied criteria, newest first.
func (s *ReportService) Search(ctx context.Context, criteria search.Criteria) ([]domain.Report, error) {
	criteria = criteria.Normalize()
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	return s.reports.Search(ctx, criteria)
}

// Update applies a partial update. Only supplied fields change.
func (s *ReportService) Update(ctx context.Context, actor *domain.Identity, id int64, changes domain.ReportChanges) (*domain.Report, error) {
	if err := validateChanges(changes); err != nil {
		return nil, err
	}

	var payload events.ReportUpdatedPayload
	updated, err := s.reports.Update(ctx, id, func(r *domain.Report) error {
		if !canActFor(actor, r.CitizenID) {
			return domain.ErrForbidden
		}
		payload.OldStatus, payload.OldSeverity, payload.OldCategory = r.Status, r.Severity, r.Category
		applyChanges(r, changes)
		payload.NewStatus, payload.NewSeverity, payload.NewCategory = r.Status, r.Severity, r.Category
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewEvent(events.EventReportUpdated, updated.ID, events.ActorFrom(actor), payload))
	return updated, nil
}

// Delete removes a report permanently.
func (s *ReportService) Delete(ctx context.Context, actor *domain.Identity, id int64) error {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canActFor(actor, report.CitizenID) {
		return domain.ErrForbidden
	}
	if err := s.reports.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.NewEvent(events.EventReportDeleted, id, events.ActorFrom(actor), nil))
	return nil
}

// publish dispatches an event. Subscriber failures never fail the request.
func (s *ReportService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.Int64("report_id", event.ReportID),
			zap.Error(err))
	}
}

func canActFor(actor *domain.Identity, citizenID int64) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || (actor.Role == domain.RoleCitizen && actor.ID() == citizenID)
}

func validateReport(r *domain.Report) error {
	required := []struct {
		field, value string
	}{
		{"title", r.Title},
		{"location", r.Location},
		{"city", r.City},
		{"description", r.Description},
	}
	for _, f := range required {
		if f.value == "" {
			return domain.NewValidationError(f.field, "must not be empty")
		}
	}
	if !r.Category.Valid() {
		return domain.NewValidationError("category", "must be one of police, hospital, admin")
	}
	if !r.Severity.Valid() {
		return domain.NewValidationError("severity", "must be one of minor, major, urgent")
	}
	if !r.Status.Valid() {
		return domain.NewValidationError("status", "must be one of new, in_progress, resolved")
	}
	return nil
}

func validateChanges(c domain.ReportChanges) error {
	optional := []struct {
		field string
		value *string
	}{
		{"title", c.Title},
		{"location", c.Location},
		{"city", c.City},
		{"description", c.Description},
	}
	for _, f := range optional {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return domain.NewValidationError(f.field, "must not be empty")
		}
	}
	if c.Category != nil && !c.Category.Valid() {
		return domain.NewValidationError("category", "must be one of police, hospital, admin")
	}
	if c.Severity != nil && !c.Severity.Valid() {
		return domain.NewValidationError("severity", "must be one of minor, major, urgent")
	}
	if c.Status != nil && !c.Status.Valid() {
		return domain.NewValidationError("status", "must be one of new, in_progress, resolved")
	}
	return nil
}

func applyChanges(r *domain.Report, c domain.ReportChanges) {
	if c.Title != nil {
		r.Title = strings.TrimSpace(*c.Title)
	}
	if c.Location != nil {
		r.Location = strings.TrimSpace(*c.Location)
	}
	if c.City != nil {
		r.City = strings.TrimSpace(*c.City)
	}
	if c.Description != nil {
		r.Description = strings.TrimSpace(*c.Description)
	}
	if c.Comment != nil {
		r.Comment = trimmedOrNil(c.Comment)
	}
	if c.Category != nil {
		r.Category = *c.Category
	}
	if c.Severity != nil {
		r.Severity = *c.Severity
	}
	if c.Status != nil {
		r.Status = *c.Status
	}
}
