package entity

import (
	"time"
)

// Message types carried in Chat.Messages.
const (
	MessageTypeText        = "text"
	MessageTypeImage       = "image"
	MessageTypeDocument    = "document"
	MessageTypePriceQuote  = "price-quote"
	MessageTypeOrderUpdate = "order-update"
)

// Offer statuses for the negotiation state machine.
const (
	OfferStatusPending  = "pending"
	OfferStatusAccepted = "accepted"
	OfferStatusRejected = "rejected"
	OfferStatusCounter  = "counter"
)

type Participant struct {
	UserID   string    `json:"user_id" bson:"userId"`
	Role     string    `json:"role,omitempty" bson:"role,omitempty"` // buyer, seller
	JoinedAt time.Time `json:"joined_at" bson:"joinedAt"`
}

type ChatRelation struct {
	Type        string `json:"type,omitempty" bson:"type,omitempty"` // product, auction, transaction
	ReferenceID string `json:"reference_id,omitempty" bson:"referenceId,omitempty"`
}

type Attachment struct {
	Type string `json:"type,omitempty" bson:"type,omitempty"`
	URL  string `json:"url,omitempty" bson:"url,omitempty"`
	Name string `json:"name,omitempty" bson:"name,omitempty"`
}

type Message struct {
	ID          string       `json:"id" bson:"id"`
	SenderID    string       `json:"sender_id" bson:"senderId"`
	Content     string       `json:"content" bson:"content"`
	MessageType string       `json:"message_type" bson:"messageType"`
	Attachments []Attachment `json:"attachments,omitempty" bson:"attachments,omitempty"`
	IsRead      bool         `json:"is_read" bson:"isRead"`
	ReadAt      *time.Time   `json:"read_at,omitempty" bson:"readAt,omitempty"`
	CreatedAt   time.Time    `json:"created_at" bson:"createdAt"`
}

type LastMessage struct {
	Content   string    `json:"content,omitempty" bson:"content,omitempty"`
	SenderID  string    `json:"sender_id,omitempty" bson:"senderId,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
}

// Offer is a single price/quantity proposal. An unset ProposedBy means no
// offer is live.
type Offer struct {
	Amount     float64   `json:"amount" bson:"amount"`
	Quantity   float64   `json:"quantity" bson:"quantity"`
	ProposedBy string    `json:"proposed_by,omitempty" bson:"proposedBy,omitempty"`
	Status     string    `json:"status,omitempty" bson:"status,omitempty"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

// Negotiation holds at most one live offer plus the archive of superseded
// ones. Superseded offers are always archived with status "counter",
// whatever their actual prior status was.
type Negotiation struct {
	IsNegotiating bool    `json:"is_negotiating" bson:"isNegotiating"`
	CurrentOffer  Offer   `json:"current_offer" bson:"currentOffer"`
	History       []Offer `json:"history" bson:"history"`
}

type Chat struct {
	ID           string        `json:"id" bson:"_id"`
	Participants []Participant `json:"participants" bson:"participants"`
	RelatedTo    ChatRelation  `json:"related_to,omitempty" bson:"relatedTo,omitempty"`
	Messages     []Message     `json:"messages" bson:"messages"`
	LastMessage  LastMessage   `json:"last_message,omitempty" bson:"lastMessage,omitempty"`
	IsActive     bool          `json:"is_active" bson:"isActive"`
	Negotiation  Negotiation   `json:"negotiation" bson:"negotiation"`
	Revision     int64         `json:"-" bson:"revision"`
	CreatedAt    time.Time     `json:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time     `json:"updated_at" bson:"updatedAt"`
}

// HasParticipant reports whether userID is one of the two chat members.
func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// AppendMessage adds a message and refreshes the cached last-message summary.
func (c *Chat) AppendMessage(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.LastMessage = LastMessage{
		Content:   msg.Content,
		SenderID:  msg.SenderID,
		Timestamp: msg.CreatedAt,
	}
}

// MarkReadBy flips every unread message not authored by viewerID to read.
// Returns the number of messages touched.
func (c *Chat) MarkReadBy(viewerID string, now time.Time) int {
	touched := 0
	for i := range c.Messages {
		if c.Messages[i].SenderID != viewerID && !c.Messages[i].IsRead {
			c.Messages[i].IsRead = true
			readAt := now
			c.Messages[i].ReadAt = &readAt
			touched++
		}
	}
	return touched
}

// UnreadCountFor counts messages authored by someone else and not yet read.
func (c *Chat) UnreadCountFor(userID string) int {
	count := 0
	for i := range c.Messages {
		if c.Messages[i].SenderID != userID && !c.Messages[i].IsRead {
			count++
		}
	}
	return count
}
