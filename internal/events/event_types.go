package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/signalement-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportCreated EventType = "report_created"
	EventReportUpdated EventType = "report_updated"
	EventReportDeleted EventType = "report_deleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role domain.Role `json:"role"`
	ID   int64       `json:"id"`
}

// ActorFrom describes the identity that triggered an event.
func ActorFrom(identity *domain.Identity) Actor {
	if identity == nil {
		return Actor{}
	}
	return Actor{Role: identity.Role, ID: identity.ID()}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	ReportID  int64     `json:"report_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, reportID int64, actor Actor, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ReportID:  reportID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// ReportCreatedPayload payload.
type ReportCreatedPayload struct {
	CitizenID int64           `json:"citizen_id"`
	Title     string          `json:"title"`
	City      string          `json:"city"`
	Category  domain.Category `json:"category"`
	Severity  domain.Severity `json:"severity"`
}

// ReportUpdatedPayload payload. Only the triage fields are tracked.
type ReportUpdatedPayload struct {
	OldStatus   domain.ReportStatus `json:"old_status"`
	NewStatus   domain.ReportStatus `json:"new_status"`
	OldSeverity domain.Severity     `json:"old_severity"`
	NewSeverity domain.Severity     `json:"new_severity"`
	OldCategory domain.Category     `json:"old_category"`
	NewCategory domain.Category     `json:"new_category"`
}

// StatusChanged reports whether the update moved the report to a new status.
func (p ReportUpdatedPayload) StatusChanged() bool {
	return p.OldStatus != p.NewStatus
}
