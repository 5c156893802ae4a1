package handler

import (
	"agrilink/internal/domain/entity"
	"agrilink/internal/usecase"
	"agrilink/pkg/response"

	"github.com/labstack/echo/v4"
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
	OtherUserID   string `json:"other_user_id" validate:"required"`
	CreatorRole   string `json:"creator_role" validate:"omitempty,oneof=buyer seller"`
	OtherUserRole string `json:"other_user_role" validate:"omitempty,oneof=buyer seller"`
	RelatedType   string `json:"related_type" validate:"omitempty,oneof=product auction transaction"`
	RelatedID     string `json:"related_id"`
}

type sendMessageRequest struct {
	Content     string              `json:"content" validate:"required"`
	MessageType string              `json:"message_type" validate:"omitempty,oneof=text image document price-quote order-update"`
	Attachments []entity.Attachment `json:"attachments"`
}

type proposeOfferRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
	Message  string  `json:"message"`
}

type respondOfferRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
}

func (h *ChatHandler) CreateChat(c echo.Context) error {
	var req createChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	creatorID := c.Get("uid").(string)

	chat, err := h.chatUseCase.CreateChat(c.Request().Context(), creatorID, usecase.CreateChatInput{
		OtherUserID:   req.OtherUserID,
		CreatorRole:   req.CreatorRole,
		OtherUserRole: req.OtherUserRole,
		RelatedTo: entity.ChatRelation{
			Type:        req.RelatedType,
			ReferenceID: req.RelatedID,
		},
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, chat)
}

func (h *ChatHandler) ListChats(c echo.Context) error {
	userID := c.Get("uid").(string)

	summaries, err := h.chatUseCase.ListUserChats(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, summaries)
}

func (h *ChatHandler) GetChat(c echo.Context) error {
	userID := c.Get("uid").(string)

	chat, err := h.chatUseCase.GetChat(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

func (h *ChatHandler) UnreadCount(c echo.Context) error {
	userID := c.Get("uid").(string)

	total, err := h.chatUseCase.TotalUnreadCount(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{"unread_count": total})
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	senderID := c.Get("uid").(string)

	chat, err := h.chatUseCase.SendMessage(c.Request().Context(), senderID, c.Param("id"), usecase.SendMessageInput{
		Content:     req.Content,
		MessageType: req.MessageType,
		Attachments: req.Attachments,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

func (h *ChatHandler) ProposeOffer(c echo.Context) error {
	var req proposeOfferRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	proposerID := c.Get("uid").(string)

	chat, err := h.chatUseCase.ProposeOffer(c.Request().Context(), proposerID, c.Param("id"), usecase.ProposeOfferInput{
		Amount:   req.Amount,
		Quantity: req.Quantity,
		Message:  req.Message,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

func (h *ChatHandler) RespondToOffer(c echo.Context) error {
	var req respondOfferRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	responderID := c.Get("uid").(string)

	chat, err := h.chatUseCase.RespondToOffer(c.Request().Context(), responderID, c.Param("id"), req.Action)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}
