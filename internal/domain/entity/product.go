package entity

import (
	"time"
)

type ProductRating struct {
	BuyerID   string    `json:"buyer_id" bson:"buyerId"`
	Rating    int       `json:"rating" bson:"rating"`
	Review    string    `json:"review,omitempty" bson:"review,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}

type Product struct {
	ID            string          `json:"id" bson:"_id"`
	Name          string          `json:"name" bson:"name"`
	Category      string          `json:"category" bson:"category"` // vegetables, fruits, grains, pulses, spices, dairy, organic, other
	Description   string          `json:"description" bson:"description"`
	Quantity      float64         `json:"quantity" bson:"quantity"`
	Unit          string          `json:"unit" bson:"unit"` // kg, quintal, ton, piece, dozen, liter
	PricePerUnit  float64         `json:"price_per_unit" bson:"pricePerUnit"`
	MinimumOrder  float64         `json:"minimum_order" bson:"minimumOrder"`
	Quality       string          `json:"quality" bson:"quality"` // premium, standard, organic, export-quality
	HarvestDate   *time.Time      `json:"harvest_date,omitempty" bson:"harvestDate,omitempty"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty" bson:"expiryDate,omitempty"`
	FarmerID      string          `json:"farmer_id" bson:"farmerId"`
	FarmerName    string          `json:"farmer_name" bson:"farmerName"`
	FarmerEmail   string          `json:"farmer_email" bson:"farmerEmail"`
	FarmerPhone   string          `json:"farmer_phone" bson:"farmerPhone"`
	Location      UserLocation    `json:"location" bson:"location"`
	Images        []string        `json:"images" bson:"images"`
	Availability  string          `json:"availability" bson:"availability"` // available, sold-out, reserved
	Ratings       []ProductRating `json:"ratings" bson:"ratings"`
	AverageRating float64         `json:"average_rating" bson:"averageRating"`
	TotalSales    float64         `json:"total_sales" bson:"totalSales"`
	IsActive      bool            `json:"is_active" bson:"isActive"`
	Revision      int64           `json:"-" bson:"revision"`
	CreatedAt     time.Time       `json:"created_at" bson:"createdAt"`
	UpdatedAt     time.Time       `json:"updated_at" bson:"updatedAt"`
}

// RatedBy reports whether buyerID already left a rating.
func (p *Product) RatedBy(buyerID string) bool {
	for _, r := range p.Ratings {
		if r.BuyerID == buyerID {
			return true
		}
	}
	return false
}

// AddRating appends the rating and recomputes the plain mean.
func (p *Product) AddRating(rating ProductRating) {
	p.Ratings = append(p.Ratings, rating)

	sum := 0
	for _, r := range p.Ratings {
		sum += r.Rating
	}
	p.AverageRating = float64(sum) / float64(len(p.Ratings))
}
