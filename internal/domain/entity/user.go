package entity

import (
	"strconv"
	"time"
)

type UserLocation struct {
	State    string `json:"state" bson:"state"`
	District string `json:"district" bson:"district"`
	Village  string `json:"village,omitempty" bson:"village,omitempty"`
	Pincode  string `json:"pincode" bson:"pincode"`
}

// RatingSummary is the running aggregate mutated by transaction feedback.
// AverageRating is always the weighted mean over the breakdown buckets.
type RatingSummary struct {
	AverageRating float64       `json:"average_rating" bson:"averageRating"`
	TotalRatings  int           `json:"total_ratings" bson:"totalRatings"`
	Breakdown     map[string]int `json:"ratings_breakdown" bson:"ratingsBreakdown"`
}

type User struct {
	ID            string        `json:"id" bson:"_id"`
	Name          string        `json:"name" bson:"name"`
	Email         string        `json:"email" bson:"email"`
	Phone         string        `json:"phone" bson:"phone"`
	Location      UserLocation  `json:"location" bson:"location"`
	Role          string        `json:"role" bson:"role"` // farmer, buyer, retailer, admin, expert
	ProfilePicURL string        `json:"profile_pic_url,omitempty" bson:"profilePicUrl,omitempty"`
	Ratings       RatingSummary `json:"ratings" bson:"ratings"`
	IsActive      bool          `json:"is_active" bson:"isActive"`
	CreatedAt     time.Time     `json:"created_at" bson:"createdAt"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updatedAt"`
}

// ApplyRating folds a 1..5 star rating into the aggregate and recomputes the
// weighted mean over all buckets, not an appended running average.
func (u *User) ApplyRating(rating int) {
	if u.Ratings.Breakdown == nil {
		u.Ratings.Breakdown = map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}
	}

	u.Ratings.TotalRatings++
	key := ratingKey(rating)
	u.Ratings.Breakdown[key]++

	totalPoints := 0
	for stars := 1; stars <= 5; stars++ {
		totalPoints += stars * u.Ratings.Breakdown[ratingKey(stars)]
	}
	u.Ratings.AverageRating = float64(totalPoints) / float64(u.Ratings.TotalRatings)
}

func ratingKey(stars int) string {
	return strconv.Itoa(stars)
}
