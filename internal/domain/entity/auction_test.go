package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func bidOf(amount float64, userID string) TopBid {
	return TopBid{
		BidAmount: amount,
		UserID:    userID,
		UserName:  "User " + userID,
		CreatedAt: time.Now(),
	}
}

func TestInsertBidKeepsTopFiveSorted(t *testing.T) {
	auction := &Auction{}

	amounts := []float64{50, 80, 30, 90, 40, 60, 20}
	for i, amount := range amounts {
		auction.InsertBid(bidOf(amount, string(rune('a'+i))))
	}

	assert.Len(t, auction.TopBids, MaxTopBids)

	got := make([]float64, 0, len(auction.TopBids))
	for _, b := range auction.TopBids {
		got = append(got, b.BidAmount)
	}
	assert.Equal(t, []float64{90, 80, 60, 50, 40}, got)
}

func TestInsertBidBelowCutoffIsDropped(t *testing.T) {
	auction := &Auction{}
	for _, amount := range []float64{100, 90, 80, 70, 60} {
		auction.InsertBid(bidOf(amount, "u"))
	}

	evicted := auction.InsertBid(bidOf(10, "lowball"))

	assert.Equal(t, 1, evicted)
	assert.Len(t, auction.TopBids, MaxTopBids)
	for _, b := range auction.TopBids {
		assert.NotEqual(t, "lowball", b.UserID)
	}
}

func TestInsertBidEqualAmountsKeepSubmissionOrder(t *testing.T) {
	auction := &Auction{}
	auction.InsertBid(bidOf(75, "first"))
	auction.InsertBid(bidOf(75, "second"))

	assert.Equal(t, "first", auction.TopBids[0].UserID)
	assert.Equal(t, "second", auction.TopBids[1].UserID)
}

func TestInsertBidNoEvictionBelowCapacity(t *testing.T) {
	auction := &Auction{}

	evicted := auction.InsertBid(bidOf(42, "u"))

	assert.Equal(t, 0, evicted)
	assert.Len(t, auction.TopBids, 1)
}
