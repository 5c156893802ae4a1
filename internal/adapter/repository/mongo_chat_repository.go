package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agrilink/internal/domain/entity"
	"agrilink/internal/domain/repository"
	"agrilink/pkg/errors"
	"agrilink/pkg/metrics"
)

type mongoChatRepository struct {
	coll *mongo.Collection
}

func NewMongoChatRepository(db *mongo.Database) repository.ChatRepository {
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "participants.userId", Value: 1}, {Key: "isActive", Value: 1}},
		Options: options.Index().SetName("participants_active_idx"),
	}
	_, _ = db.Collection("chats").Indexes().CreateOne(context.Background(), ix)

	return &mongoChatRepository{
		coll: db.Collection("chats"),
	}
}

func (r *mongoChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	if chat.ID == "" {
		chat.ID = "CHAT-" + uuid.New().String()
	}

	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	chat.Revision = 1
	if chat.Messages == nil {
		chat.Messages = []entity.Message{}
	}
	if chat.Negotiation.History == nil {
		chat.Negotiation.History = []entity.Offer{}
	}

	if _, err := r.coll.InsertOne(ctx, chat); err != nil {
		return errors.Internal("Failed to create chat", err)
	}

	return nil
}

func (r *mongoChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	var chat entity.Chat
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&chat); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}
	return &chat, nil
}

func (r *mongoChatRepository) FindActiveByParticipants(ctx context.Context, userID1, userID2 string) (*entity.Chat, error) {
	filter := bson.M{
		"participants.userId": bson.M{"$all": bson.A{userID1, userID2}},
		"isActive":            true,
	}

	var chat entity.Chat
	if err := r.coll.FindOne(ctx, filter).Decode(&chat); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to find chat", err)
	}
	return &chat, nil
}

func (r *mongoChatRepository) ListActiveByUserID(ctx context.Context, userID string) ([]*entity.Chat, error) {
	filter := bson.M{
		"participants.userId": userID,
		"isActive":            true,
	}
	opts := options.Find().SetSort(bson.D{{Key: "lastMessage.timestamp", Value: -1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Internal("Failed to list chats", err)
	}
	defer cur.Close(ctx)

	chats := []*entity.Chat{}
	for cur.Next(ctx) {
		var chat entity.Chat
		if err := cur.Decode(&chat); err != nil {
			return nil, errors.Internal("Failed to decode chat", err)
		}
		chats = append(chats, &chat)
	}

	return chats, nil
}

// Update replaces the chat document only when the stored revision still
// matches; concurrent negotiation responses lose with CONFLICT rather than
// overwriting each other's state.
func (r *mongoChatRepository) Update(ctx context.Context, chat *entity.Chat) error {
	loadedRevision := chat.Revision
	chat.Revision++
	chat.UpdatedAt = time.Now()

	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": chat.ID, "revision": loadedRevision}, chat)
	if err != nil {
		chat.Revision = loadedRevision
		return errors.Internal("Failed to update chat", err)
	}
	if result.MatchedCount == 0 {
		chat.Revision = loadedRevision
		count, err := r.coll.CountDocuments(ctx, bson.M{"_id": chat.ID})
		if err != nil {
			return errors.Internal("Failed to check chat", err)
		}
		if count == 0 {
			return errors.NotFound("Chat", nil)
		}
		metrics.SaveConflictsTotal.WithLabelValues("chats").Inc()
		return errors.Conflict("Chat was modified concurrently")
	}

	return nil
}
