package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"agrirent/internal/domain/service"
	"agrirent/internal/infrastructure/metrics"
	"agrirent/pkg/errors"
	"agrirent/pkg/logger"
)

const (
	historyWindow = 5
	systemPrompt  = `You are a helpful farming assistant for a village land rental platform.
You help farmers and landowners with questions about farming, land rental and agricultural practices.

About the platform:
- Landowners list their land for rent
- Farmers search and rent land for farming
- Listings can be searched by location
- Land documents are verified
- Payments are tracked and rental agreements are generated

Keep answers practical, friendly and concise. If you do not know something, suggest contacting support.`
)

type ChatbotUseCase struct {
	client  service.CompletionClient
	events  service.EventPublisher
	timeout time.Duration
	now     Clock
}

// NewChatbotUseCase builds the assistant. A nil client always answers from the fallback table.
func NewChatbotUseCase(client service.CompletionClient, events service.EventPublisher, timeout time.Duration) *ChatbotUseCase {
	return &ChatbotUseCase{
		client:  client,
		events:  events,
		timeout: timeout,
		now:     time.Now,
	}
}

type ChatbotReply struct {
	Response  string `json:"response"`
	Intent    string `json:"intent"`
	Source    string `json:"source,omitempty"`
	Timestamp string `json:"timestamp"`
}

type FeedbackInput struct {
	UserID   string
	Message  string
	Response string
	Rating   int
	Feedback string
}

// ClassifyIntent returns the first intent whose keywords occur in text, or general.
func ClassifyIntent(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range intentTable {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.intent
			}
		}
	}
	return IntentGeneral
}

// FallbackResponse is never empty.
func FallbackResponse(intent string) string {
	if r, ok := fallbackResponses[intent]; ok {
		return r
	}
	return fallbackResponses[IntentGeneral]
}

// Respond asks the completion backend and substitutes the canned reply on any failure.
func (uc *ChatbotUseCase) Respond(ctx context.Context, text, userID string, history []service.ChatTurn) *ChatbotReply {
	intent := ClassifyIntent(text)
	now := uc.now()
	reply := &ChatbotReply{Intent: intent, Timestamp: now.UTC().Format(time.RFC3339)}

	if uc.client == nil {
		reply.Response, reply.Source = FallbackResponse(intent), "fallback"
		metrics.ChatbotResponses.WithLabelValues(reply.Source).Inc()
		return reply
	}

	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	turns := append(append([]service.ChatTurn{}, history...), service.ChatTurn{Role: "user", Content: text})

	callCtx := ctx
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	answer, err := uc.client.Complete(callCtx, uc.prompt(userID, intent, history, now), turns)
	if err != nil || strings.TrimSpace(answer) == "" {
		if err != nil {
			logger.Warn("chatbot completion failed, using fallback: %v", err)
		}
		reply.Response, reply.Source = FallbackResponse(intent), "fallback"
	} else {
		reply.Response, reply.Source = answer, "ai"
	}
	metrics.ChatbotResponses.WithLabelValues(reply.Source).Inc()
	return reply
}

func (uc *ChatbotUseCase) QuickResponse(text string) *ChatbotReply {
	intent := ClassifyIntent(text)
	response, ok := quickResponses[intent]
	if !ok {
		response = quickResponses[IntentGeneral]
	}
	return &ChatbotReply{Response: response, Intent: intent, Timestamp: uc.now().UTC().Format(time.RFC3339)}
}

func (uc *ChatbotUseCase) FAQ() []FAQ {
	return append([]FAQ(nil), faqs...)
}

func (uc *ChatbotUseCase) FarmingTips() []string {
	return append([]string(nil), farmingTips...)
}

func (uc *ChatbotUseCase) PlatformTips() []string {
	return append([]string(nil), platformTips...)
}

func (uc *ChatbotUseCase) Feedback(ctx context.Context, input FeedbackInput) error {
	if input.Rating < 1 || input.Rating > 5 {
		return errors.Validation("Validation failed", errors.FieldError{
			Field: "rating", Message: "rating must be between 1 and 5",
		})
	}

	logger.With(
		"userId", input.UserID,
		"rating", input.Rating,
		"message", input.Message,
		"response", input.Response,
		"feedback", input.Feedback,
	).Info("chatbot feedback")

	publish(ctx, uc.events, service.EventChatbotFeedback, input.UserID, map[string]interface{}{
		"userId": input.UserID, "message": input.Message, "response": input.Response,
		"rating": input.Rating, "feedback": input.Feedback,
	}, uc.now())
	return nil
}

func (uc *ChatbotUseCase) prompt(userID, intent string, history []service.ChatTurn, now time.Time) string {
	info := map[string]interface{}{
		"intent":              intent,
		"conversationHistory": history,
		"timestamp":           now.UTC().Format(time.RFC3339),
	}
	if userID != "" {
		info["userId"] = userID
	}
	encoded, err := json.Marshal(info)
	if err != nil {
		return systemPrompt
	}
	return systemPrompt + "\n\nCurrent context: " + string(encoded)
}
