package usecase

import (
	"context"
	"log"
	"time"

	"agrilink/internal/domain/entity"
	"agrilink/internal/domain/repository"
	"agrilink/pkg/errors"
	"agrilink/pkg/metrics"
)

// maxSaveAttempts bounds the retry loop around optimistic-concurrency
// conflicts on load-mutate-save cycles.
const maxSaveAttempts = 3

type AuctionUseCase struct {
	auctionRepo repository.AuctionRepository
	userRepo    repository.UserRepository
}

func NewAuctionUseCase(
	auctionRepo repository.AuctionRepository,
	userRepo repository.UserRepository,
) *AuctionUseCase {
	return &AuctionUseCase{
		auctionRepo: auctionRepo,
		userRepo:    userRepo,
	}
}

type CreateAuctionInput struct {
	ItemName         string
	Quantity         float64
	Unit             string
	PricePerUnit     float64
	AuctionStartDate string
	AuctionEndDate   string
	Location         string
	ImageURL         string
}

type PlaceBidInput struct {
	AuctionID string
	BidAmount float64
}

func (uc *AuctionUseCase) CreateAuction(ctx context.Context, sellerID string, input CreateAuctionInput) (*entity.Auction, error) {
	seller, err := uc.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		log.Printf("CreateAuction Error: Seller %s not found: %v", sellerID, err)
		return nil, err
	}

	auction := &entity.Auction{
		ItemName:         input.ItemName,
		Quantity:         input.Quantity,
		Unit:             input.Unit,
		PricePerUnit:     input.PricePerUnit,
		AuctionStartDate: input.AuctionStartDate,
		AuctionEndDate:   input.AuctionEndDate,
		SellerID:         seller.ID,
		SellerName:       seller.Name,
		SellerEmail:      seller.Email,
		Location:         input.Location,
		ImageURL:         input.ImageURL,
		TopBids:          []entity.TopBid{},
	}

	if err := uc.auctionRepo.Create(ctx, auction); err != nil {
		log.Printf("CreateAuction Error: Failed to create auction: %v", err)
		return nil, err
	}

	return auction, nil
}

func (uc *AuctionUseCase) ListActiveAuctions(ctx context.Context) ([]*entity.Auction, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	return uc.auctionRepo.ListActive(ctx, now)
}

func (uc *AuctionUseCase) ListSellerAuctions(ctx context.Context, sellerID string) ([]*entity.Auction, error) {
	return uc.auctionRepo.ListBySellerID(ctx, sellerID)
}

// PlaceBid appends the bid, re-sorts the top list descending and truncates to
// five entries. Bidder identity fields come from the authenticated user's
// document, never from client input. Bids below the cutoff are discarded for
// good; there is no separate bid history.
func (uc *AuctionUseCase) PlaceBid(ctx context.Context, bidderID string, input PlaceBidInput) (*entity.Auction, error) {
	bidder, err := uc.userRepo.GetByID(ctx, bidderID)
	if err != nil {
		log.Printf("PlaceBid Error: Bidder %s not found: %v", bidderID, err)
		return nil, err
	}

	bid := entity.TopBid{
		BidAmount: input.BidAmount,
		UserID:    bidder.ID,
		UserName:  bidder.Name,
		Location:  bidder.Location.State,
		Phone:     bidder.Phone,
		CreatedAt: time.Now(),
	}

	var auction *entity.Auction
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		auction, err = uc.auctionRepo.GetByID(ctx, input.AuctionID)
		if err != nil {
			return nil, err
		}

		evicted := auction.InsertBid(bid)

		err = uc.auctionRepo.Update(ctx, auction)
		if err == nil {
			metrics.BidsPlacedTotal.Inc()
			for i := 0; i < evicted; i++ {
				metrics.BidsEvictedTotal.Inc()
			}
			return auction, nil
		}
		if !errors.Is(err, "CONFLICT") {
			return nil, err
		}

		log.Printf("PlaceBid: Conflict on auction %s, retrying (%d/%d)", input.AuctionID, attempt+1, maxSaveAttempts)
	}

	return nil, err
}

func (uc *AuctionUseCase) DeleteAuction(ctx context.Context, requesterID, auctionID string) error {
	auction, err := uc.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return err
	}

	if auction.SellerID != requesterID {
		log.Printf("DeleteAuction Error: User %s is not the owner of auction %s", requesterID, auctionID)
		return errors.Forbidden("Only the auction owner can delete it", nil)
	}

	return uc.auctionRepo.Delete(ctx, auctionID)
}
