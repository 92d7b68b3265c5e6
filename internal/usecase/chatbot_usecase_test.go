package usecase

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrirent/internal/domain/service"
)

func TestClassifyIntent(t *testing.T) {
	cases := map[string]string{
		"How should I prepare my SOIL?":    IntentFarmingAdvice,
		"I want to lease a plot":           IntentLandRental,
		"how do I register":                IntentPlatformHelp,
		"what is the fee":                  IntentPaymentHelp,
		"which proof do you need":          IntentVerification,
		"anything near Nashik":             IntentLocation,
		"can I sign the contract online":   IntentAgreement,
		"I need support":                   IntentSupport,
		"good morning":                     IntentGeneral,
		"what crop should I rent land for": IntentFarmingAdvice,
		"payment for my land":              IntentLandRental,
		"":                                 IntentGeneral,
	}
	for text, want := range cases {
		assert.Equal(t, want, ClassifyIntent(text), text)
	}
}

func TestFallbackIsTotal(t *testing.T) {
	for _, rule := range intentTable {
		assert.NotEmpty(t, FallbackResponse(rule.intent), rule.intent)
		assert.NotEmpty(t, quickResponses[rule.intent], rule.intent)
	}
	assert.Equal(t, fallbackResponses[IntentGeneral], FallbackResponse("unknown"))
}

func TestRespondWithoutClient(t *testing.T) {
	uc := NewChatbotUseCase(nil, nil, 0)
	uc.now = fixedClock

	reply := uc.Respond(context.Background(), "Which crop suits black soil?", "ravi", nil)
	assert.Equal(t, IntentFarmingAdvice, reply.Intent)
	assert.Equal(t, "fallback", reply.Source)
	assert.Equal(t, FallbackResponse(IntentFarmingAdvice), reply.Response)
	assert.Equal(t, "2026-03-01T09:00:00Z", reply.Timestamp)
}

func TestRespondUsesCompletion(t *testing.T) {
	client := &fakeCompletion{answer: "Plant soybean after the first rains."}
	uc := NewChatbotUseCase(client, nil, 0)
	uc.now = fixedClock

	history := []service.ChatTurn{
		{Role: "user", Content: "1"}, {Role: "assistant", Content: "2"}, {Role: "user", Content: "3"},
		{Role: "assistant", Content: "4"}, {Role: "user", Content: "5"}, {Role: "assistant", Content: "6"},
	}
	reply := uc.Respond(context.Background(), "When should I sow?", "ravi", history)
	assert.Equal(t, "ai", reply.Source)
	assert.Equal(t, "Plant soybean after the first rains.", reply.Response)

	require.Len(t, client.turns, 6)
	assert.Equal(t, "2", client.turns[0].Content)
	assert.Equal(t, "When should I sow?", client.turns[5].Content)
	assert.Contains(t, client.prompt, `"userId":"ravi"`)
	assert.Contains(t, client.prompt, `"intent":"general"`)
}

func TestRespondFallsBackOnFailure(t *testing.T) {
	for name, client := range map[string]*fakeCompletion{
		"error": {err: fmt.Errorf("429 too many requests")},
		"blank": {answer: "   "},
	} {
		t.Run(name, func(t *testing.T) {
			uc := NewChatbotUseCase(client, nil, 0)
			reply := uc.Respond(context.Background(), "How do I pay the fee?", "", nil)
			assert.Equal(t, "fallback", reply.Source)
			assert.Equal(t, IntentPaymentHelp, reply.Intent)
			assert.Equal(t, FallbackResponse(IntentPaymentHelp), reply.Response)
		})
	}
}

func TestQuickResponseAndContent(t *testing.T) {
	uc := NewChatbotUseCase(nil, nil, 0)

	reply := uc.QuickResponse("looking for land near Pune")
	assert.Equal(t, IntentLandRental, reply.Intent)
	assert.Equal(t, quickResponses[IntentLandRental], reply.Response)

	assert.Len(t, uc.FAQ(), 8)
	assert.Len(t, uc.FarmingTips(), 10)
	assert.Len(t, uc.PlatformTips(), 10)

	tips := uc.FarmingTips()
	tips[0] = "mutated"
	assert.NotEqual(t, "mutated", uc.FarmingTips()[0])
}

func TestFeedback(t *testing.T) {
	events := &recordingPublisher{}
	uc := NewChatbotUseCase(nil, events, 0)

	err := uc.Feedback(context.Background(), FeedbackInput{UserID: "ravi", Rating: 6})
	assertStatus(t, err, http.StatusBadRequest)

	require.NoError(t, uc.Feedback(context.Background(), FeedbackInput{
		UserID: "ravi", Message: "soil?", Response: "test it", Rating: 4, Feedback: "useful",
	}))
	assert.Equal(t, []string{service.EventChatbotFeedback}, events.types())
}
