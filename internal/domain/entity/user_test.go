package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyRatingBuildsWeightedAverage(t *testing.T) {
	user := &User{}

	user.ApplyRating(5)
	user.ApplyRating(4)
	user.ApplyRating(4)
	user.ApplyRating(1)

	assert.Equal(t, 4, user.Ratings.TotalRatings)
	assert.Equal(t, 1, user.Ratings.Breakdown["5"])
	assert.Equal(t, 2, user.Ratings.Breakdown["4"])
	assert.Equal(t, 1, user.Ratings.Breakdown["1"])
	assert.Equal(t, 0, user.Ratings.Breakdown["3"])
	assert.InDelta(t, 3.5, user.Ratings.AverageRating, 1e-9)
}

func TestApplyRatingInitializesBreakdown(t *testing.T) {
	user := &User{}

	user.ApplyRating(3)

	assert.Equal(t, 1, user.Ratings.TotalRatings)
	assert.Equal(t, 3.0, user.Ratings.AverageRating)
	assert.Len(t, user.Ratings.Breakdown, 5)
}
