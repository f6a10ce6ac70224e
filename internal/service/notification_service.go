package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ghostname-service/internal/config"
	"github.com/spec-kit/ghostname-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		logger: orNop(logger),
		cfg:    cfg,
	}
}

// EventTypes lists the events the service reacts to.
func (n *NotificationService) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventNamesHeld,
		events.EventNameCommitted,
		events.EventNameReleased,
		events.EventProfileUpdated,
	}
}

// Handle routes one event to its notification stubs.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventNamesHeld:
		return n.handleNamesHeld(ctx, event)
	case events.EventNameCommitted:
		return n.handleNameCommitted(ctx, event)
	case events.EventNameReleased:
		return n.handleNameReleased(ctx, event)
	case events.EventProfileUpdated:
		return n.handleProfileUpdated(ctx, event)
	default:
		return nil
	}
}

func (n *NotificationService) handleNamesHeld(ctx context.Context, event events.Event) error {
	n.logger.Debug("NamesHeld", zap.String("identity", event.Identity), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleNameCommitted(ctx context.Context, event events.Event) error {
	n.logger.Info("NameCommitted", zap.String("identity", event.Identity), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleNameReleased(ctx context.Context, event events.Event) error {
	n.logger.Info("NameReleased", zap.String("identity", event.Identity), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleProfileUpdated(ctx context.Context, event events.Event) error {
	n.logger.Info("ProfileUpdated", zap.String("identity", event.Identity), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", event.Identity),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}
