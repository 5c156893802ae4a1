package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppendMessageUpdatesLastMessage(t *testing.T) {
	chat := &Chat{}
	now := time.Now()

	chat.AppendMessage(Message{ID: "m1", SenderID: "alice", Content: "hello", CreatedAt: now})

	assert.Len(t, chat.Messages, 1)
	assert.Equal(t, "hello", chat.LastMessage.Content)
	assert.Equal(t, "alice", chat.LastMessage.SenderID)
	assert.Equal(t, now, chat.LastMessage.Timestamp)
}

func TestMarkReadByOnlyTouchesOtherSidesUnread(t *testing.T) {
	chat := &Chat{
		Messages: []Message{
			{ID: "m1", SenderID: "alice", Content: "hi"},
			{ID: "m2", SenderID: "bob", Content: "hey"},
			{ID: "m3", SenderID: "bob", Content: "you there?"},
		},
	}

	touched := chat.MarkReadBy("alice", time.Now())

	assert.Equal(t, 2, touched)
	assert.False(t, chat.Messages[0].IsRead, "own message must stay untouched")
	assert.True(t, chat.Messages[1].IsRead)
	assert.True(t, chat.Messages[2].IsRead)
	assert.NotNil(t, chat.Messages[1].ReadAt)

	assert.Equal(t, 0, chat.MarkReadBy("alice", time.Now()), "second pass is a no-op")
}

func TestUnreadCountForCountsOnlyForeignUnread(t *testing.T) {
	chat := &Chat{
		Messages: []Message{
			{SenderID: "alice"},
			{SenderID: "bob"},
			{SenderID: "bob", IsRead: true},
			{SenderID: "bob"},
		},
	}

	assert.Equal(t, 2, chat.UnreadCountFor("alice"))
	assert.Equal(t, 1, chat.UnreadCountFor("bob"))
}

func TestHasParticipant(t *testing.T) {
	chat := &Chat{
		Participants: []Participant{
			{UserID: "alice", Role: "buyer"},
			{UserID: "bob", Role: "seller"},
		},
	}

	assert.True(t, chat.HasParticipant("alice"))
	assert.False(t, chat.HasParticipant("mallory"))
}
