package handler

import (
	"github.com/labstack/echo/v4"

	"agrirent/internal/adapter/api/middleware"
	"agrirent/internal/domain/service"
	"agrirent/internal/usecase"
	"agrirent/pkg/response"
)

type ChatbotHandler struct {
	chatbotUseCase *usecase.ChatbotUseCase
}

func NewChatbotHandler(chatbotUseCase *usecase.ChatbotUseCase) *ChatbotHandler {
	return &ChatbotHandler{
		chatbotUseCase: chatbotUseCase,
	}
}

type chatbotMessageRequest struct {
	Message             string             `json:"message" validate:"required,min=1,max=1000"`
	ConversationHistory []service.ChatTurn `json:"conversationHistory"`
}

type quickResponseRequest struct {
	Message string `json:"message" validate:"required,min=1,max=1000"`
}

type feedbackRequest struct {
	Message  string `json:"message" validate:"required"`
	Response string `json:"response" validate:"required"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Feedback string `json:"feedback" validate:"omitempty,max=1000"`
}

// Message answers with the AI model, falling back to canned answers. Anonymous callers are allowed.
func (h *ChatbotHandler) Message(c echo.Context) error {
	var req chatbotMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	reply := h.chatbotUseCase.Respond(c.Request().Context(), req.Message, middleware.CurrentUserID(c), req.ConversationHistory)
	return response.Success(c, reply)
}

func (h *ChatbotHandler) QuickResponse(c echo.Context) error {
	var req quickResponseRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, h.chatbotUseCase.QuickResponse(req.Message))
}

func (h *ChatbotHandler) FAQ(c echo.Context) error {
	return response.Success(c, map[string]interface{}{"faqs": h.chatbotUseCase.FAQ()})
}

func (h *ChatbotHandler) FarmingTips(c echo.Context) error {
	return response.Success(c, map[string]interface{}{"tips": h.chatbotUseCase.FarmingTips()})
}

func (h *ChatbotHandler) PlatformTips(c echo.Context) error {
	return response.Success(c, map[string]interface{}{"tips": h.chatbotUseCase.PlatformTips()})
}

func (h *ChatbotHandler) Feedback(c echo.Context) error {
	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	err := h.chatbotUseCase.Feedback(c.Request().Context(), usecase.FeedbackInput{
		UserID:   middleware.CurrentUserID(c),
		Message:  req.Message,
		Response: req.Response,
		Rating:   req.Rating,
		Feedback: req.Feedback,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Thank you for your feedback", nil)
}
