package usecase

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/service"
)

func TestStartChatIsIdempotentPerScope(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	uc := w.chatUseCase()
	seedUser(t, w.users, "ravi", entity.RoleFarmer)
	seedUser(t, w.users, "meera", entity.RoleLandowner)

	_, _, err := uc.Start(ctx, "ravi", StartChatInput{ParticipantID: "ravi"})
	assertStatus(t, err, http.StatusBadRequest)

	_, _, err = uc.Start(ctx, "ravi", StartChatInput{ParticipantID: "ghost"})
	assertStatus(t, err, http.StatusNotFound)

	first, created, err := uc.Start(ctx, "ravi", StartChatInput{ParticipantID: "meera", LandID: "plot"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, entity.ChatTypeInquiry, first.ChatType)
	assert.Len(t, first.Participants, 2)

	second, created, err := uc.Start(ctx, "meera", StartChatInput{ParticipantID: "ravi", LandID: "plot"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	rental, created, err := uc.Start(ctx, "ravi", StartChatInput{ParticipantID: "meera", LandID: "plot", RentalID: "r1"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, rental.ID)
	assert.Equal(t, entity.ChatTypeRental, rental.ChatType)
}

func TestSendMessageAndReadReceipts(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	uc := w.chatUseCase()
	seedUser(t, w.users, "ravi", entity.RoleFarmer)
	seedUser(t, w.users, "meera", entity.RoleLandowner)
	seedUser(t, w.users, "sunil", entity.RoleFarmer)

	chat, _, err := uc.Start(ctx, "ravi", StartChatInput{ParticipantID: "meera", InitialMessage: "Hello"})
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "ravi", chat.ID, SendMessageInput{Content: "   "})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = uc.SendMessage(ctx, "ravi", chat.ID, SendMessageInput{Content: strings.Repeat("a", 1001)})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = uc.SendMessage(ctx, "ravi", chat.ID, SendMessageInput{Content: "hi", MessageType: "video"})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = uc.SendMessage(ctx, "sunil", chat.ID, SendMessageInput{Content: "let me in"})
	assertStatus(t, err, http.StatusForbidden)

	msg, err := uc.SendMessage(ctx, "ravi", chat.ID, SendMessageInput{Content: "Is it irrigated?"})
	require.NoError(t, err)
	assert.Equal(t, entity.MessageTypeText, msg.MessageType)
	assert.Equal(t, fixedNow, msg.Timestamp)
	assert.Equal(t, []string{service.NotifyNewMessage, service.NotifyNewMessage}, w.notifier.to("meera"))

	unread, err := uc.UnreadCount(ctx, "meera")
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	unread, err = uc.UnreadCount(ctx, "ravi")
	require.NoError(t, err)
	assert.Equal(t, 0, unread)

	changed, err := uc.MarkRead(ctx, "meera", chat.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)
	assert.Contains(t, w.notifier.to("ravi"), service.NotifyMessagesRead)

	changed, err = uc.MarkRead(ctx, "meera", chat.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, changed)
}

func TestMessagesPagesFromNewest(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	uc := w.chatUseCase()
	seedUser(t, w.users, "ravi", entity.RoleFarmer)
	seedUser(t, w.users, "meera", entity.RoleLandowner)

	chat, _, err := uc.Start(ctx, "ravi", StartChatInput{ParticipantID: "meera"})
	require.NoError(t, err)
	for _, text := range []string{"one", "two", "three", "four", "five"} {
		_, err := uc.SendMessage(ctx, "ravi", chat.ID, SendMessageInput{Content: text})
		require.NoError(t, err)
	}

	detail, err := uc.Messages(ctx, "meera", chat.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, detail.TotalMessages)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, "four", detail.Messages[0].Content)
	assert.Equal(t, "five", detail.Messages[1].Content)
	assert.Equal(t, 0, detail.Chat.UnreadCount)

	detail, err = uc.Messages(ctx, "meera", chat.ID, 3, 2)
	require.NoError(t, err)
	require.Len(t, detail.Messages, 1)
	assert.Equal(t, "one", detail.Messages[0].Content)
}

func TestArchiveHidesUntilNextMessage(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	uc := w.chatUseCase()
	seedUser(t, w.users, "ravi", entity.RoleFarmer)
	seedUser(t, w.users, "meera", entity.RoleLandowner)

	chat, _, err := uc.Start(ctx, "ravi", StartChatInput{ParticipantID: "meera"})
	require.NoError(t, err)

	require.NoError(t, uc.Archive(ctx, "meera", chat.ID))
	views, total, err := uc.List(ctx, "meera", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, views)

	_, err = uc.SendMessage(ctx, "ravi", chat.ID, SendMessageInput{Content: "still there?"})
	require.NoError(t, err)

	views, total, err = uc.List(ctx, "meera", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, views, 1)
	assert.Equal(t, 1, views[0].UnreadCount)
	assert.Equal(t, "still there?", views[0].LastMessage.Content)
}
