package repository

import (
	"context"

	"agrilink/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	// FindActiveByParticipants returns the active chat containing both
	// users, or NOT_FOUND.
	FindActiveByParticipants(ctx context.Context, userID1, userID2 string) (*entity.Chat, error)
	ListActiveByUserID(ctx context.Context, userID string) ([]*entity.Chat, error)
	// Update is a compare-and-swap on the chat's revision; a stale revision
	// fails with CONFLICT and nothing is written.
	Update(ctx context.Context, chat *entity.Chat) error
}
