package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"agrilink/internal/domain/entity"
	"agrilink/internal/domain/repository"
	"agrilink/pkg/errors"
	"agrilink/pkg/metrics"
)

// Notifier pushes real-time events to connected users. Delivery is best
// effort; a nil Notifier disables notifications entirely.
type Notifier interface {
	SendToUser(userID string, message []byte)
}

type ChatUseCase struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	notifier Notifier
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo: chatRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

type CreateChatInput struct {
	OtherUserID   string
	CreatorRole   string
	OtherUserRole string
	RelatedTo     entity.ChatRelation
}

type SendMessageInput struct {
	Content     string
	MessageType string
	Attachments []entity.Attachment
}

type ProposeOfferInput struct {
	Amount   float64
	Quantity float64
	Message  string
}

// ChatSummary is a chat plus the viewer's unread count, used by listings.
type ChatSummary struct {
	Chat        *entity.Chat `json:"chat"`
	UnreadCount int          `json:"unread_count"`
}

type notificationEvent struct {
	Event  string      `json:"event"`
	ChatID string      `json:"chat_id"`
	Data   interface{} `json:"data,omitempty"`
}

// CreateChat opens a two-party conversation. If an active chat between the
// pair already exists it is returned instead of creating a duplicate.
func (uc *ChatUseCase) CreateChat(ctx context.Context, creatorID string, input CreateChatInput) (*entity.Chat, error) {
	if input.OtherUserID == "" || input.OtherUserID == creatorID {
		return nil, errors.Validation("A chat needs exactly two distinct participants", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, input.OtherUserID); err != nil {
		log.Printf("CreateChat Error: Participant %s not found: %v", input.OtherUserID, err)
		return nil, err
	}

	existing, err := uc.chatRepo.FindActiveByParticipants(ctx, creatorID, input.OtherUserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	now := time.Now()
	chat := &entity.Chat{
		Participants: []entity.Participant{
			{UserID: creatorID, Role: input.CreatorRole, JoinedAt: now},
			{UserID: input.OtherUserID, Role: input.OtherUserRole, JoinedAt: now},
		},
		RelatedTo: input.RelatedTo,
		Messages:  []entity.Message{},
		IsActive:  true,
	}

	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		log.Printf("CreateChat Error: Failed to create chat: %v", err)
		return nil, err
	}

	return chat, nil
}

// GetChat returns a chat to one of its participants. Opening a chat marks
// every message from the other side as read.
func (uc *ChatUseCase) GetChat(ctx context.Context, viewerID, chatID string) (*entity.Chat, error) {
	var chat *entity.Chat
	var err error

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		chat, err = uc.chatRepo.GetByID(ctx, chatID)
		if err != nil {
			return nil, err
		}

		if !chat.HasParticipant(viewerID) {
			return nil, errors.Forbidden("You are not a participant of this chat", nil)
		}

		if chat.MarkReadBy(viewerID, time.Now()) == 0 {
			return chat, nil
		}

		err = uc.chatRepo.Update(ctx, chat)
		if err == nil {
			return chat, nil
		}
		if !errors.Is(err, "CONFLICT") {
			return nil, err
		}
	}

	return nil, err
}

// ListUserChats lists the viewer's active chats newest-activity first, each
// with its unread count.
func (uc *ChatUseCase) ListUserChats(ctx context.Context, userID string) ([]ChatSummary, error) {
	chats, err := uc.chatRepo.ListActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ChatSummary, 0, len(chats))
	for _, chat := range chats {
		summaries = append(summaries, ChatSummary{
			Chat:        chat,
			UnreadCount: chat.UnreadCountFor(userID),
		})
	}

	return summaries, nil
}

// TotalUnreadCount sums unread messages across all of the viewer's chats.
func (uc *ChatUseCase) TotalUnreadCount(ctx context.Context, userID string) (int, error) {
	chats, err := uc.chatRepo.ListActiveByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, chat := range chats {
		total += chat.UnreadCountFor(userID)
	}

	return total, nil
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID, chatID string, input SendMessageInput) (*entity.Chat, error) {
	if input.MessageType == "" {
		input.MessageType = entity.MessageTypeText
	}

	msg := entity.Message{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		Content:     input.Content,
		MessageType: input.MessageType,
		Attachments: input.Attachments,
		CreatedAt:   time.Now(),
	}

	chat, err := uc.appendAndSave(ctx, senderID, chatID, func(chat *entity.Chat) error {
		chat.AppendMessage(msg)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MessagesSentTotal.Inc()
	uc.notifyOthers(chat, senderID, notificationEvent{
		Event:  "new_message",
		ChatID: chat.ID,
		Data:   msg,
	})

	return chat, nil
}

// ProposeOffer places a new price quote as the live offer. A superseded live
// offer is archived with status "counter" regardless of what its status was.
func (uc *ChatUseCase) ProposeOffer(ctx context.Context, proposerID, chatID string, input ProposeOfferInput) (*entity.Chat, error) {
	if input.Amount <= 0 || input.Quantity <= 0 {
		return nil, errors.Validation("Offer amount and quantity must be positive", nil)
	}

	content := input.Message
	if content == "" {
		content = fmt.Sprintf("Price quote: ₹%.2f for %.2f units", input.Amount, input.Quantity)
	}

	now := time.Now()
	chat, err := uc.appendAndSave(ctx, proposerID, chatID, func(chat *entity.Chat) error {
		if chat.Negotiation.CurrentOffer.ProposedBy != "" {
			archived := chat.Negotiation.CurrentOffer
			archived.Status = entity.OfferStatusCounter
			chat.Negotiation.History = append(chat.Negotiation.History, archived)
		}

		chat.Negotiation.IsNegotiating = true
		chat.Negotiation.CurrentOffer = entity.Offer{
			Amount:     input.Amount,
			Quantity:   input.Quantity,
			ProposedBy: proposerID,
			Status:     entity.OfferStatusPending,
			Timestamp:  now,
		}

		chat.AppendMessage(entity.Message{
			ID:          uuid.New().String(),
			SenderID:    proposerID,
			Content:     content,
			MessageType: entity.MessageTypePriceQuote,
			CreatedAt:   now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OffersProposedTotal.Inc()
	uc.notifyOthers(chat, proposerID, notificationEvent{
		Event:  "offer_update",
		ChatID: chat.ID,
		Data:   chat.Negotiation.CurrentOffer,
	})

	return chat, nil
}

// RespondToOffer accepts or rejects the live offer. Accepting ends the
// negotiation; rejecting leaves it open so the other side can counter.
func (uc *ChatUseCase) RespondToOffer(ctx context.Context, responderID, chatID, action string) (*entity.Chat, error) {
	if action != "accept" && action != "reject" {
		return nil, errors.Validation("Action must be accept or reject", nil)
	}

	now := time.Now()
	chat, err := uc.appendAndSave(ctx, responderID, chatID, func(chat *entity.Chat) error {
		if !chat.Negotiation.IsNegotiating || chat.Negotiation.CurrentOffer.ProposedBy == "" {
			return errors.Validation("No active negotiation to respond to", nil)
		}
		if chat.Negotiation.CurrentOffer.ProposedBy == responderID {
			return errors.Validation("You cannot respond to your own offer", nil)
		}

		if action == "accept" {
			chat.Negotiation.CurrentOffer.Status = entity.OfferStatusAccepted
			chat.Negotiation.IsNegotiating = false
		} else {
			chat.Negotiation.CurrentOffer.Status = entity.OfferStatusRejected
		}

		chat.AppendMessage(entity.Message{
			ID:          uuid.New().String(),
			SenderID:    responderID,
			Content:     fmt.Sprintf("Offer %sed", action),
			MessageType: entity.MessageTypePriceQuote,
			CreatedAt:   now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OffersRespondedTotal.WithLabelValues(action).Inc()
	uc.notifyOthers(chat, responderID, notificationEvent{
		Event:  "offer_update",
		ChatID: chat.ID,
		Data:   chat.Negotiation.CurrentOffer,
	})

	return chat, nil
}

// appendAndSave loads the chat, checks membership, applies mutate and saves
// with a bounded retry on revision conflicts.
func (uc *ChatUseCase) appendAndSave(ctx context.Context, actorID, chatID string, mutate func(*entity.Chat) error) (*entity.Chat, error) {
	var chat *entity.Chat
	var err error

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		chat, err = uc.chatRepo.GetByID(ctx, chatID)
		if err != nil {
			return nil, err
		}

		if !chat.HasParticipant(actorID) {
			return nil, errors.Forbidden("You are not a participant of this chat", nil)
		}

		if err = mutate(chat); err != nil {
			return nil, err
		}

		err = uc.chatRepo.Update(ctx, chat)
		if err == nil {
			return chat, nil
		}
		if !errors.Is(err, "CONFLICT") {
			return nil, err
		}

		log.Printf("ChatUseCase: Conflict on chat %s, retrying (%d/%d)", chatID, attempt+1, maxSaveAttempts)
	}

	return nil, err
}

func (uc *ChatUseCase) notifyOthers(chat *entity.Chat, actorID string, event notificationEvent) {
	if uc.notifier == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("ChatUseCase: Failed to marshal notification: %v", err)
		return
	}

	for _, p := range chat.Participants {
		if p.UserID != actorID {
			uc.notifier.SendToUser(p.UserID, payload)
		}
	}
}
