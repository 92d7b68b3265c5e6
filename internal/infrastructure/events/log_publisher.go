package events

import (
	"context"

	"go.uber.org/zap"

	"agrirent/internal/domain/service"
)

// LogPublisher records events in the application log when no broker is configured.
type LogPublisher struct {
	log *zap.Logger
}

var _ service.EventPublisher = (*LogPublisher)(nil)

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(ctx context.Context, event service.Event) error {
	p.log.Info("domain event",
		zap.String("type", event.Type),
		zap.String("key", event.Key),
		zap.Time("occurredAt", event.OccurredAt),
		zap.Any("payload", event.Payload),
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
