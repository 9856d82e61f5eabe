package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/signalement-service/internal/events"
	"github.com/spec-kit/signalement-service/internal/service"
)

const defaultQueueSize = 256

// NotificationWorker moves event delivery off the request path. Dispatcher
// handlers only enqueue; a single goroutine forwards to the notification
// service.
type NotificationWorker struct {
	notifications *service.NotificationService
	queue         chan events.Event
	logger        *zap.Logger

	// mu orders enqueue sends against Stop so nothing lands after drain.
	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewNotificationWorker creates a worker with a bounded queue.
func NewNotificationWorker(notifications *service.NotificationService, queueSize int, logger *zap.Logger) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		notifications: notifications,
		queue:         make(chan events.Event, queueSize),
		logger:        logger,
		done:          make(chan struct{}),
	}
}

// Subscribe registers the enqueueing handler for every report event.
func (w *NotificationWorker) Subscribe(dispatcher events.Dispatcher) {
	for _, eventType := range []events.EventType{
		events.EventReportCreated,
		events.EventReportUpdated,
		events.EventReportDeleted,
	} {
		dispatcher.Subscribe(eventType, w.enqueue)
	}
}

// Start runs the delivery loop until Stop is called.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case event := <-w.queue:
				w.deliver(ctx, event)
			case <-w.done:
				w.drain(ctx)
				return
			}
		}
	}()
}

// Stop delivers what is already queued and waits for the loop to exit.
func (w *NotificationWorker) Stop() {
	if w == nil {
		return
	}
	w.once.Do(func() {
		w.mu.Lock()
		w.stopped = true
		close(w.done)
		w.mu.Unlock()
	})
	w.wg.Wait()
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		w.logger.Warn("notification worker stopped; dropping event", zap.String("event_id", event.ID))
		return nil
	}
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full; dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
	return nil
}

func (w *NotificationWorker) drain(ctx context.Context) {
	for {
		select {
		case event := <-w.queue:
			w.deliver(ctx, event)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, event events.Event) {
	if err := w.notifications.Handle(ctx, event); err != nil {
		w.logger.Warn("notification delivery failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}

// StartNotificationWorker registers the worker on dispatcher and starts it.
func StartNotificationWorker(ctx context.Context, dispatcher events.Dispatcher, notifications *service.NotificationService, logger *zap.Logger) *NotificationWorker {
	if notifications == nil || dispatcher == nil {
		return nil
	}
	w := NewNotificationWorker(notifications, defaultQueueSize, logger)
	w.Subscribe(dispatcher)
	w.Start(ctx)
	return w
}
