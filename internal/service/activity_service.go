package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/band-vault/internal/events"
)

// ActivityService writes domain events to the audit log.
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
	a.dispatcher.Subscribe(events.EventUserLoggedIn, a.record)
	a.dispatcher.Subscribe(events.EventSongCreated, a.record)
	a.dispatcher.Subscribe(events.EventMessagePosted, a.record)
}

func (a *ActivityService) record(_ context.Context, event events.Event) error {
	a.logger.Info("activity",
		zap.String("type", string(event.Type)),
		zap.String("band_id", event.BandID),
		zap.String("actor_id", event.ActorID),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload))
	return nil
}

func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("publish event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
