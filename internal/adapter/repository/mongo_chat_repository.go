package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	apperrors "agrirent/pkg/errors"
)

type mongoChatRepository struct {
	coll *mongo.Collection
}

func NewMongoChatRepository(db *mongo.Database) repository.ChatRepository {
	return &mongoChatRepository{coll: db.Collection(chatsCollection)}
}

// FindOrCreate upserts on the thread key so concurrent first contact yields one document.
func (r *mongoChatRepository) FindOrCreate(ctx context.Context, chat *entity.Chat) (*entity.Chat, bool, error) {
	raw, err := bson.Marshal(chat)
	if err != nil {
		return nil, false, apperrors.Internal("Failed to encode chat", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, false, apperrors.Internal("Failed to encode chat", err)
	}
	delete(doc, "_id")

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": chat.ID},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			stored, getErr := r.GetByID(ctx, chat.ID)
			return stored, false, getErr
		}
		return nil, false, apperrors.Internal("Failed to create chat", err)
	}

	stored, err := r.GetByID(ctx, chat.ID)
	if err != nil {
		return nil, false, err
	}
	return stored, res.UpsertedCount == 1, nil
}

func (r *mongoChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	return mongoFindByID[entity.Chat](ctx, r.coll, id, "Chat")
}

func (r *mongoChatRepository) Update(ctx context.Context, chat *entity.Chat) error {
	return mongoReplace(ctx, r.coll, chat.ID, chat, "Chat")
}

func (r *mongoChatRepository) ListByParticipant(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	query := bson.M{"participants": userID, "isActive": true}
	sort := bson.D{{Key: "lastMessage.timestamp", Value: -1}, {Key: "updatedAt", Value: -1}}
	chats, total, err := mongoFindPage[entity.Chat](ctx, r.coll, query, sort, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list chats", err)
	}
	return chats, total, nil
}
