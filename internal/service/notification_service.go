package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/workout-platform/internal/events"
)

// NotificationService logs workout domain events as they are published. It is
// the single subscriber of the in-process dispatcher.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSessionCreated, n.handleEvent)
	n.dispatcher.Subscribe(events.EventSessionDeleted, n.handleEvent)
	n.dispatcher.Subscribe(events.EventExerciseAdded, n.handleEvent)
	n.dispatcher.Subscribe(events.EventBiometricRecorded, n.handleEvent)
}

func (n *NotificationService) handleEvent(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("owner_id", event.OwnerID),
		zap.String("owner_username", event.OwnerUsername),
		zap.Any("payload", event.Payload),
	)
	return nil
}
