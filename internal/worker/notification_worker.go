package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ghostname-service/internal/events"
)

// Notifier reacts to published events.
type Notifier interface {
	EventTypes() []events.EventType
	Handle(ctx context.Context, event events.Event) error
}

// NotificationWorker moves notification work off the request path: events are
// queued on publish and handled by Run.
type NotificationWorker struct {
	notifier Notifier
	logger   *zap.Logger
	queue    chan events.Event
}

// NewNotificationWorker subscribes the worker to every event the notifier handles.
// A full queue drops the event with a warning rather than blocking the publisher.
func NewNotificationWorker(dispatcher events.Dispatcher, notifier Notifier, logger *zap.Logger, buffer int) *NotificationWorker {
	if buffer <= 0 {
		buffer = 64
	}
	w := &NotificationWorker{
		notifier: notifier,
		logger:   logger,
		queue:    make(chan events.Event, buffer),
	}
	for _, t := range notifier.EventTypes() {
		dispatcher.Subscribe(t, w.enqueue)
	}
	return w
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full; dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
	return nil
}

// Run handles queued events until ctx is done, then drains what is left.
func (w *NotificationWorker) Run(ctx context.Context) {
	for {
		select {
		case event := <-w.queue:
			w.handle(ctx, event)
		case <-ctx.Done():
			for {
				select {
				case event := <-w.queue:
					w.handle(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

func (w *NotificationWorker) handle(ctx context.Context, event events.Event) {
	if err := w.notifier.Handle(ctx, event); err != nil {
		w.logger.Warn("notification failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
