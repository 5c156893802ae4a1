package repository

import (
	"context"

	"agrilink/internal/domain/entity"
)

type AuctionRepository interface {
	Create(ctx context.Context, auction *entity.Auction) error
	GetByID(ctx context.Context, id string) (*entity.Auction, error)
	ListActive(ctx context.Context, now string) ([]*entity.Auction, error)
	ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Auction, error)
	// Update is a compare-and-swap on the auction's revision; a stale
	// revision fails with CONFLICT and nothing is written.
	Update(ctx context.Context, auction *entity.Auction) error
	Delete(ctx context.Context, id string) error
}
