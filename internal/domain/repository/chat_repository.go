package repository

import (
	"context"

	"agrirent/internal/domain/entity"
)

// ChatRepository persists chat threads with their embedded messages.
type ChatRepository interface {
	// FindOrCreate inserts chat unless a thread with the same id exists, in which case the
	// stored thread is returned. created reports which happened.
	FindOrCreate(ctx context.Context, chat *entity.Chat) (stored *entity.Chat, created bool, err error)
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	Update(ctx context.Context, chat *entity.Chat) error
	// ListByParticipant returns active chats of userID ordered by last activity, newest first.
	// A limit of 0 returns every chat.
	ListByParticipant(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error)
}
