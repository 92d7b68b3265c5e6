package repository

import (
	"context"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
)

type memoryChatRepository struct {
	store *memoryStore[entity.Chat]
}

func NewMemoryChatRepository() repository.ChatRepository {
	return &memoryChatRepository{store: newMemoryStore[entity.Chat]()}
}

func (r *memoryChatRepository) FindOrCreate(ctx context.Context, chat *entity.Chat) (*entity.Chat, bool, error) {
	if r.store.insert(chat.ID, chat) {
		stored, err := r.store.get(chat.ID)
		return stored, true, err
	}
	stored, err := r.store.get(chat.ID)
	return stored, false, err
}

func (r *memoryChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	return r.store.get(id)
}

func (r *memoryChatRepository) Update(ctx context.Context, chat *entity.Chat) error {
	return r.store.replace(chat.ID, chat)
}

func (r *memoryChatRepository) ListByParticipant(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	chats := r.store.filter(func(c *entity.Chat) bool {
		return c.IsActive && c.IsParticipant(userID)
	})
	sortChatsByActivity(chats)
	return page(chats, limit, offset), int64(len(chats)), nil
}
