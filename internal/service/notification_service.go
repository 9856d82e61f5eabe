package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/signalement-service/internal/events"
	"github.com/spec-kit/signalement-service/internal/observability"
)

// EventPublisher forwards serialized events to an external channel.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	publisher EventPublisher
	channel   string
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewNotificationService creates the service. publisher may be nil, in which
// case events are only logged.
func NewNotificationService(publisher EventPublisher, channel string, metrics *observability.Metrics, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		publisher: publisher,
		channel:   channel,
		metrics:   metrics,
		logger:    logger,
	}
}

// Handle routes an event to its handler. The notification worker calls it
// for every queued report event.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventReportCreated:
		return n.handleReportCreated(ctx, event)
	case events.EventReportUpdated:
		return n.handleReportUpdated(ctx, event)
	case events.EventReportDeleted:
		return n.handleReportDeleted(ctx, event)
	default:
		n.logger.Debug("ignoring event", zap.String("event_type", string(event.Type)))
		return nil
	}
}

func (n *NotificationService) handleReportCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("ReportCreated", zap.Int64("report_id", event.ReportID), zap.Any("payload", event.Payload))
	return n.forward(ctx, event)
}

func (n *NotificationService) handleReportUpdated(ctx context.Context, event events.Event) error {
	if payload, ok := event.Payload.(events.ReportUpdatedPayload); ok && payload.StatusChanged() {
		n.logger.Info("ReportStatusChanged",
			zap.Int64("report_id", event.ReportID),
			zap.String("from", string(payload.OldStatus)),
			zap.String("to", string(payload.NewStatus)))
	} else {
		n.logger.Info("ReportUpdated", zap.Int64("report_id", event.ReportID))
	}
	return n.forward(ctx, event)
}

func (n *NotificationService) handleReportDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("ReportDeleted", zap.Int64("report_id", event.ReportID), zap.Int64("actor_id", event.Actor.ID))
	return n.forward(ctx, event)
}

func (n *NotificationService) forward(ctx context.Context, event events.Event) error {
	n.metrics.RecordReportEvent(string(event.Type))
	if n.publisher == nil || n.channel == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	if err := n.publisher.Publish(ctx, n.channel, body); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}
	return nil
}
