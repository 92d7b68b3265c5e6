package usecase

import (
	"context"
	"time"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	"agrirent/internal/domain/service"
	"agrirent/pkg/errors"
	"agrirent/pkg/logger"
)

// Clock is injected into use cases so tests can pin the current time.
type Clock func() time.Time

func offsetFor(page, limit int) int {
	offset := (page - 1) * limit
	if offset < 0 {
		return 0
	}
	return offset
}

// publish forwards an event when a publisher is configured. Failures are logged and never
// fail the calling operation.
func publish(ctx context.Context, pub service.EventPublisher, eventType, key string, payload interface{}, at time.Time) {
	if pub == nil {
		return
	}
	err := pub.Publish(ctx, service.Event{Type: eventType, Key: key, Payload: payload, OccurredAt: at})
	if err != nil {
		logger.Warn("failed to publish %s for %s: %v", eventType, key, err)
	}
}

func notify(n service.Notifier, userID, eventType string, data interface{}) {
	if n == nil || userID == "" {
		return
	}
	n.Notify(userID, eventType, data)
}

// loadActiveUser fetches a user and treats deactivated accounts as missing.
func loadActiveUser(ctx context.Context, repo repository.UserRepository, id, resource string) (*entity.User, error) {
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound(resource, err)
		}
		return nil, errors.Internal("Failed to load "+resource, err)
	}
	if !user.IsActive {
		return nil, errors.NotFound(resource, nil)
	}
	return user, nil
}
