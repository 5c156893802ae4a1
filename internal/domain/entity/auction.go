package entity

import (
	"sort"
	"time"
)

// TopBid is embedded in Auction.TopBids. Bids are never individually mutated
// or deleted; a bid disappears only by falling outside the top 5 on re-sort.
type TopBid struct {
	BidAmount float64   `json:"bid_amount" bson:"bidAmount"`
	UserID    string    `json:"user_id" bson:"userId"`
	UserName  string    `json:"user_name,omitempty" bson:"userName,omitempty"`
	Location  string    `json:"location,omitempty" bson:"location,omitempty"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}

// MaxTopBids caps the retained bid list per auction. Everything below the
// cutoff is discarded permanently; there is no separate bid history.
const MaxTopBids = 5

type Auction struct {
	ID               string    `json:"id" bson:"_id"`
	ItemName         string    `json:"item_name" bson:"itemName"`
	Quantity         float64   `json:"quantity" bson:"quantity"`
	Unit             string    `json:"unit" bson:"unit"`
	PricePerUnit     float64   `json:"price_per_unit" bson:"pricePerUnit"`
	AuctionStartDate string    `json:"auction_start_date" bson:"auctionStartDate"`
	AuctionEndDate   string    `json:"auction_end_date" bson:"auctionEndDate"`
	SellerID         string    `json:"seller_id" bson:"sellerId"`
	SellerName       string    `json:"seller_name" bson:"sellerName"`
	SellerEmail      string    `json:"seller_email" bson:"sellerEmail"`
	Location         string    `json:"location" bson:"location"`
	ImageURL         string    `json:"image_url,omitempty" bson:"imageUrl,omitempty"`
	TopBids          []TopBid  `json:"top_bids" bson:"topBids"`
	Revision         int64     `json:"-" bson:"revision"`
	CreatedAt        time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updatedAt"`
}

// InsertBid appends the bid, re-sorts descending by amount and truncates to
// the top 5. The sort is stable, so on equal amounts the earlier submission
// keeps the better rank. Returns how many bids fell off the list.
func (a *Auction) InsertBid(bid TopBid) int {
	a.TopBids = append(a.TopBids, bid)
	sort.SliceStable(a.TopBids, func(i, j int) bool {
		return a.TopBids[i].BidAmount > a.TopBids[j].BidAmount
	})

	evicted := 0
	if len(a.TopBids) > MaxTopBids {
		evicted = len(a.TopBids) - MaxTopBids
		a.TopBids = a.TopBids[:MaxTopBids]
	}
	return evicted
}
