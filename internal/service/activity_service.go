package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/task-tracker/internal/events"
)

// ActivityService records task lifecycle events in the structured log.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger) *ActivityService {
	return &ActivityService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTaskCreated, a.handle)
	a.dispatcher.Subscribe(events.EventTaskUpdated, a.handle)
	a.dispatcher.Subscribe(events.EventTaskDeleted, a.handle)
}

func (a *ActivityService) handle(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("task_id", event.TaskID),
		zap.String("owner_id", event.OwnerID),
	}
	if event.Payload != nil {
		fields = append(fields, zap.Any("payload", event.Payload))
	}
	a.logger.Info(string(event.Type), fields...)
	return nil
}
