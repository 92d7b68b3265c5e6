package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	"agrirent/internal/domain/service"
	"agrirent/pkg/errors"
)

const maxMessageLength = 1000

type ChatUseCase struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	notifier service.Notifier
	now      Clock
}

func NewChatUseCase(chatRepo repository.ChatRepository, userRepo repository.UserRepository, notifier service.Notifier) *ChatUseCase {
	return &ChatUseCase{
		chatRepo: chatRepo,
		userRepo: userRepo,
		notifier: notifier,
		now:      time.Now,
	}
}

type StartChatInput struct {
	ParticipantID  string
	LandID         string
	RentalID       string
	Title          string
	InitialMessage string
}

type SendMessageInput struct {
	Content     string
	MessageType string
	Attachments []entity.Attachment
}

// ChatView is a chat without its message history, as shown in listings.
type ChatView struct {
	ID           string                `json:"id"`
	Participants []*entity.UserSummary `json:"participants"`
	LandID       string                `json:"land,omitempty"`
	RentalID     string                `json:"rental,omitempty"`
	ChatType     string                `json:"chatType"`
	Title        string                `json:"title,omitempty"`
	LastMessage  *entity.LastMessage   `json:"lastMessage,omitempty"`
	UnreadCount  int                   `json:"unreadCount"`
	IsActive     bool                  `json:"isActive"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

type ChatDetail struct {
	Chat          *ChatView        `json:"chat"`
	Messages      []entity.Message `json:"messages"`
	TotalMessages int              `json:"totalMessages"`
}

// Start finds or creates the thread between the caller and a participant, scoped to
// an optional land and rental, and posts the optional first message.
func (uc *ChatUseCase) Start(ctx context.Context, callerID string, input StartChatInput) (*ChatView, bool, error) {
	if input.ParticipantID == callerID {
		return nil, false, errors.BadRequest("You cannot start a chat with yourself", nil)
	}
	if _, err := loadActiveUser(ctx, uc.userRepo, input.ParticipantID, "Participant"); err != nil {
		return nil, false, err
	}

	now := uc.now()
	chatType := entity.ChatTypeInquiry
	if input.RentalID != "" {
		chatType = entity.ChatTypeRental
	}

	candidate := &entity.Chat{
		ID:           entity.ChatKey(callerID, input.ParticipantID, input.LandID, input.RentalID),
		Participants: entity.SortedPair(callerID, input.ParticipantID),
		LandID:       input.LandID,
		RentalID:     input.RentalID,
		ChatType:     chatType,
		Title:        input.Title,
		Messages:     []entity.Message{},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	chat, created, err := uc.chatRepo.FindOrCreate(ctx, candidate)
	if err != nil {
		return nil, false, errors.Internal("Failed to open chat", err)
	}

	dirty := false
	var posted *entity.Message
	if !chat.IsActive {
		chat.IsActive = true
		chat.UpdatedAt = now
		dirty = true
	}

	if content := strings.TrimSpace(input.InitialMessage); content != "" {
		msg, err := newMessage(callerID, SendMessageInput{Content: content}, now)
		if err != nil {
			return nil, false, err
		}
		chat.AddMessage(msg)
		posted = &msg
		dirty = true
	}

	if dirty {
		if err := uc.chatRepo.Update(ctx, chat); err != nil {
			return nil, false, errors.Internal("Failed to save chat", err)
		}
	}
	if posted != nil {
		uc.pushMessage(chat, callerID, *posted)
	}

	view, err := uc.view(ctx, chat, callerID)
	if err != nil {
		return nil, false, err
	}
	return view, created, nil
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, callerID, chatID string, input SendMessageInput) (*entity.Message, error) {
	chat, err := uc.participantChat(ctx, callerID, chatID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	msg, err := newMessage(callerID, input, now)
	if err != nil {
		return nil, err
	}

	chat.AddMessage(msg)
	chat.IsActive = true
	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		return nil, errors.Internal("Failed to send message", err)
	}

	uc.pushMessage(chat, callerID, msg)
	return &msg, nil
}

func (uc *ChatUseCase) MarkRead(ctx context.Context, callerID, chatID string) (int, error) {
	chat, err := uc.participantChat(ctx, callerID, chatID)
	if err != nil {
		return 0, err
	}

	changed := chat.MarkReadBy(callerID, uc.now())
	if changed == 0 {
		return 0, nil
	}
	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		return 0, errors.Internal("Failed to mark messages as read", err)
	}

	for _, other := range chat.OtherParticipants(callerID) {
		notify(uc.notifier, other, service.NotifyMessagesRead, map[string]interface{}{
			"chatId": chat.ID, "readBy": callerID, "count": changed,
		})
	}
	return changed, nil
}

func (uc *ChatUseCase) List(ctx context.Context, callerID string, page, limit int) ([]*ChatView, int64, error) {
	chats, total, err := uc.chatRepo.ListByParticipant(ctx, callerID, limit, offsetFor(page, limit))
	if err != nil {
		return nil, 0, errors.Internal("Failed to list chats", err)
	}

	views := make([]*ChatView, 0, len(chats))
	for _, chat := range chats {
		view, err := uc.view(ctx, chat, callerID)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}
	return views, total, nil
}

// Messages marks the thread read for the caller and returns one page of history counted
// from the most recent message.
func (uc *ChatUseCase) Messages(ctx context.Context, callerID, chatID string, page, limit int) (*ChatDetail, error) {
	chat, err := uc.participantChat(ctx, callerID, chatID)
	if err != nil {
		return nil, err
	}

	if chat.MarkReadBy(callerID, uc.now()) > 0 {
		if err := uc.chatRepo.Update(ctx, chat); err != nil {
			return nil, errors.Internal("Failed to mark messages as read", err)
		}
	}

	view, err := uc.view(ctx, chat, callerID)
	if err != nil {
		return nil, err
	}
	return &ChatDetail{
		Chat:          view,
		Messages:      chat.MessagePage(page, limit),
		TotalMessages: len(chat.Messages),
	}, nil
}

func (uc *ChatUseCase) Archive(ctx context.Context, callerID, chatID string) error {
	chat, err := uc.participantChat(ctx, callerID, chatID)
	if err != nil {
		return err
	}

	chat.IsActive = false
	chat.UpdatedAt = uc.now()
	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		return errors.Internal("Failed to archive chat", err)
	}
	return nil
}

func (uc *ChatUseCase) UnreadCount(ctx context.Context, callerID string) (int, error) {
	chats, _, err := uc.chatRepo.ListByParticipant(ctx, callerID, 0, 0)
	if err != nil {
		return 0, errors.Internal("Failed to count unread messages", err)
	}
	total := 0
	for _, chat := range chats {
		total += chat.UnreadFor(callerID)
	}
	return total, nil
}

func (uc *ChatUseCase) participantChat(ctx context.Context, callerID, chatID string) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to load chat", err)
	}
	if !chat.IsParticipant(callerID) {
		return nil, errors.Forbidden("You are not a participant in this chat", nil)
	}
	return chat, nil
}

func (uc *ChatUseCase) view(ctx context.Context, chat *entity.Chat, callerID string) (*ChatView, error) {
	participants := make([]*entity.UserSummary, 0, len(chat.Participants))
	for _, id := range chat.Participants {
		user, err := uc.userRepo.GetByID(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				participants = append(participants, &entity.UserSummary{ID: id})
				continue
			}
			return nil, errors.Internal("Failed to load participant", err)
		}
		participants = append(participants, user.Summary())
	}

	return &ChatView{
		ID:           chat.ID,
		Participants: participants,
		LandID:       chat.LandID,
		RentalID:     chat.RentalID,
		ChatType:     chat.ChatType,
		Title:        chat.Title,
		LastMessage:  chat.LastMessage,
		UnreadCount:  chat.UnreadFor(callerID),
		IsActive:     chat.IsActive,
		CreatedAt:    chat.CreatedAt,
		UpdatedAt:    chat.UpdatedAt,
	}, nil
}

func (uc *ChatUseCase) pushMessage(chat *entity.Chat, senderID string, msg entity.Message) {
	for _, other := range chat.OtherParticipants(senderID) {
		notify(uc.notifier, other, service.NotifyNewMessage, map[string]interface{}{
			"chatId": chat.ID, "message": msg,
		})
	}
}

func newMessage(senderID string, input SendMessageInput, now time.Time) (entity.Message, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" || len([]rune(content)) > maxMessageLength {
		return entity.Message{}, errors.Validation("Validation failed", errors.FieldError{
			Field: "content", Message: "content must be between 1 and 1000 characters",
		})
	}

	messageType := input.MessageType
	switch messageType {
	case "":
		messageType = entity.MessageTypeText
	case entity.MessageTypeText, entity.MessageTypeImage, entity.MessageTypeDocument, entity.MessageTypeLocation:
	default:
		return entity.Message{}, errors.Validation("Validation failed", errors.FieldError{
			Field: "messageType", Message: "messageType must be one of: text image document location",
		})
	}

	return entity.Message{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		Content:     content,
		MessageType: messageType,
		Attachments: input.Attachments,
		Timestamp:   now,
	}, nil
}
