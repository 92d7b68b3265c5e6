package handler

import (
	"github.com/labstack/echo/v4"

	"agrirent/internal/adapter/api/middleware"
	"agrirent/internal/domain/entity"
	"agrirent/internal/usecase"
	"agrirent/pkg/response"
	"agrirent/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createChatRequest struct {
	ParticipantID  string `json:"participantId" validate:"required"`
	LandID         string `json:"landId"`
	RentalID       string `json:"rentalId"`
	Title          string `json:"title" validate:"omitempty,max=100"`
	InitialMessage string `json:"initialMessage" validate:"omitempty,min=1,max=500"`
}

type sendMessageRequest struct {
	Content     string              `json:"content" validate:"required,min=1,max=1000"`
	MessageType string              `json:"messageType" validate:"omitempty,oneof=text image document location"`
	Attachments []entity.Attachment `json:"attachments"`
}

func (h *ChatHandler) List(c echo.Context) error {
	pagination := utils.GetPaginationParamsWithDefaults(c, 20, utils.MaxPageSize)

	chats, total, err := h.chatUseCase.List(c.Request().Context(), middleware.CurrentUserID(c), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, "chats", chats, total, pagination.Page, pagination.PageSize)
}

func (h *ChatHandler) Create(c echo.Context) error {
	var req createChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	chat, created, err := h.chatUseCase.Start(c.Request().Context(), middleware.CurrentUserID(c), usecase.StartChatInput{
		ParticipantID:  req.ParticipantID,
		LandID:         req.LandID,
		RentalID:       req.RentalID,
		Title:          req.Title,
		InitialMessage: req.InitialMessage,
	})
	if err != nil {
		return response.Error(c, err)
	}

	data := map[string]interface{}{"chat": chat}
	if created {
		return response.Created(c, "Chat created successfully", data)
	}
	return response.Message(c, "Chat already exists", data)
}

func (h *ChatHandler) UnreadCount(c echo.Context) error {
	count, err := h.chatUseCase.UnreadCount(c.Request().Context(), middleware.CurrentUserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{"unreadCount": count})
}

// Messages returns one page of the conversation and marks it read for the caller.
func (h *ChatHandler) Messages(c echo.Context) error {
	pagination := utils.GetPaginationParamsWithDefaults(c, 50, 100)

	detail, err := h.chatUseCase.Messages(c.Request().Context(), middleware.CurrentUserID(c), c.Param("chatId"), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{
		"chat":       detail.Chat,
		"messages":   detail.Messages,
		"pagination": response.NewPagination(int64(detail.TotalMessages), pagination.Page, pagination.PageSize),
	})
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	msg, err := h.chatUseCase.SendMessage(c.Request().Context(), middleware.CurrentUserID(c), c.Param("chatId"), usecase.SendMessageInput{
		Content:     req.Content,
		MessageType: req.MessageType,
		Attachments: req.Attachments,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, "Message sent successfully", map[string]interface{}{"message": msg})
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	marked, err := h.chatUseCase.MarkRead(c.Request().Context(), middleware.CurrentUserID(c), c.Param("chatId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Messages marked as read", map[string]interface{}{"markedCount": marked})
}

func (h *ChatHandler) Archive(c echo.Context) error {
	if err := h.chatUseCase.Archive(c.Request().Context(), middleware.CurrentUserID(c), c.Param("chatId")); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Chat archived successfully", nil)
}
