package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrilink/internal/domain/entity"
	"agrilink/pkg/errors"
)

func setupAuctionTest(t *testing.T) (*AuctionUseCase, *fakeAuctionRepo, string) {
	t.Helper()

	users := newFakeUserRepo(
		entity.User{ID: "farmer-1", Name: "Ravi", Role: "farmer"},
		entity.User{ID: "buyer-1", Name: "Meena", Phone: "9876543210", Location: entity.UserLocation{State: "Punjab"}},
		entity.User{ID: "buyer-2", Name: "Arjun"},
	)
	auctions := newFakeAuctionRepo()
	uc := NewAuctionUseCase(auctions, users)

	auction, err := uc.CreateAuction(context.Background(), "farmer-1", CreateAuctionInput{
		ItemName:         "Basmati Rice",
		Quantity:         500,
		Unit:             "quintal",
		PricePerUnit:     2000,
		AuctionStartDate: "2026-09-01T00:00:00Z",
		AuctionEndDate:   "2099-12-31T00:00:00Z",
	})
	require.NoError(t, err)

	return uc, auctions, auction.ID
}

func TestCreateAuctionDenormalizesSeller(t *testing.T) {
	_, auctions, auctionID := setupAuctionTest(t)

	auction, err := auctions.GetByID(context.Background(), auctionID)
	require.NoError(t, err)
	assert.Equal(t, "farmer-1", auction.SellerID)
	assert.Equal(t, "Ravi", auction.SellerName)
	assert.Empty(t, auction.TopBids)
}

func TestPlaceBidRanksAndTruncates(t *testing.T) {
	uc, _, auctionID := setupAuctionTest(t)
	ctx := context.Background()

	var auction *entity.Auction
	var err error
	for _, amount := range []float64{50, 80, 30, 90, 40, 60, 20} {
		auction, err = uc.PlaceBid(ctx, "buyer-1", PlaceBidInput{AuctionID: auctionID, BidAmount: amount})
		require.NoError(t, err)
	}

	got := make([]float64, 0, len(auction.TopBids))
	for _, b := range auction.TopBids {
		got = append(got, b.BidAmount)
	}
	assert.Equal(t, []float64{90, 80, 60, 50, 40}, got)
}

func TestPlaceBidStampsBidderIdentity(t *testing.T) {
	uc, _, auctionID := setupAuctionTest(t)

	auction, err := uc.PlaceBid(context.Background(), "buyer-1", PlaceBidInput{AuctionID: auctionID, BidAmount: 2100})

	require.NoError(t, err)
	require.Len(t, auction.TopBids, 1)
	assert.Equal(t, "buyer-1", auction.TopBids[0].UserID)
	assert.Equal(t, "Meena", auction.TopBids[0].UserName)
	assert.Equal(t, "Punjab", auction.TopBids[0].Location)
	assert.Equal(t, "9876543210", auction.TopBids[0].Phone)
}

func TestPlaceBidUnknownBidderFails(t *testing.T) {
	uc, _, auctionID := setupAuctionTest(t)

	_, err := uc.PlaceBid(context.Background(), "ghost", PlaceBidInput{AuctionID: auctionID, BidAmount: 100})

	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestPlaceBidRetriesOnConflict(t *testing.T) {
	uc, auctions, auctionID := setupAuctionTest(t)
	auctions.conflictNext = true

	auction, err := uc.PlaceBid(context.Background(), "buyer-2", PlaceBidInput{AuctionID: auctionID, BidAmount: 2500})

	require.NoError(t, err)
	require.Len(t, auction.TopBids, 1, "retry must not duplicate the bid")
	assert.Equal(t, 2500.0, auction.TopBids[0].BidAmount)
}

func TestDeleteAuctionOwnerOnly(t *testing.T) {
	uc, auctions, auctionID := setupAuctionTest(t)
	ctx := context.Background()

	err := uc.DeleteAuction(ctx, "buyer-1", auctionID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	require.NoError(t, uc.DeleteAuction(ctx, "farmer-1", auctionID))

	_, err = auctions.GetByID(ctx, auctionID)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestListActiveAuctionsExcludesEnded(t *testing.T) {
	uc, _, _ := setupAuctionTest(t)
	ctx := context.Background()

	_, err := uc.CreateAuction(ctx, "farmer-1", CreateAuctionInput{
		ItemName:         "Old Stock",
		Quantity:         10,
		Unit:             "kg",
		PricePerUnit:     100,
		AuctionStartDate: "2020-01-01T00:00:00Z",
		AuctionEndDate:   "2020-02-01T00:00:00Z",
	})
	require.NoError(t, err)

	active, err := uc.ListActiveAuctions(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Basmati Rice", active[0].ItemName)
}
