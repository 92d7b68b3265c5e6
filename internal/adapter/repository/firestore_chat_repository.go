package repository

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	apperrors "agrirent/pkg/errors"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(chatsCollection).Doc(id)
}

// FindOrCreate relies on Create failing with AlreadyExists for a taken thread key.
func (r *firestoreChatRepository) FindOrCreate(ctx context.Context, chat *entity.Chat) (*entity.Chat, bool, error) {
	_, err := r.doc(chat.ID).Create(ctx, chat)
	if err == nil {
		return chat, true, nil
	}
	if werr := mapFirestoreWriteErr(err, "Chat"); !errors.Is(werr, apperrors.ErrConflict) {
		return nil, false, werr
	}
	existing, err := r.GetByID(ctx, chat.ID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	return getDoc[entity.Chat](ctx, r.doc(id), "Chat")
}

func (r *firestoreChatRepository) Update(ctx context.Context, chat *entity.Chat) error {
	return setExisting(ctx, r.client, r.doc(chat.ID), chat, "Chat")
}

func (r *firestoreChatRepository) ListByParticipant(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	query := r.client.Collection(chatsCollection).
		Where("participants", "array-contains", userID).
		Where("isActive", "==", true)

	chats, err := collectDocs[entity.Chat](query.Documents(ctx))
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list chats", err)
	}
	sortChatsByActivity(chats)
	return page(chats, limit, offset), int64(len(chats)), nil
}
