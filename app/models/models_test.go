package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAverageRating(t *testing.T) {
	p := &Product{}
	assert.Equal(t, 0.0, p.AverageRating(), "no reviews means zero")
	assert.Equal(t, 0, p.ReviewCount())

	p.Reviews = []Review{
		{User: primitive.NewObjectID(), Rating: 5},
		{User: primitive.NewObjectID(), Rating: 4},
		{User: primitive.NewObjectID(), Rating: 4},
	}
	// mean 13/3 = 4.333... rounds to 4.3
	assert.Equal(t, 4.3, p.AverageRating())
	assert.Equal(t, 3, p.ReviewCount())

	p.Reviews = []Review{{Rating: 1}, {Rating: 2}}
	assert.Equal(t, 1.5, p.AverageRating())
}

func TestAverageRatingBounds(t *testing.T) {
	p := &Product{Reviews: []Review{{Rating: 1}}}
	assert.GreaterOrEqual(t, p.AverageRating(), 1.0)

	p.Reviews = []Review{{Rating: 5}, {Rating: 5}}
	assert.LessOrEqual(t, p.AverageRating(), 5.0)
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{StatusPending, StatusShipped, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusShipped, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusDelivered, StatusShipped, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusShipped, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"Pending", "Shipped", "Delivered", "Cancelled"} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("pending"))
	assert.False(t, ValidStatus("Returned"))
	assert.False(t, ValidStatus(""))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("Admin"))
	assert.Equal(t, RoleCustomer, ParseRole("Customer"))
	assert.Equal(t, RoleCustomer, ParseRole("superuser"), "unknown roles fall back to Customer")
	assert.Equal(t, RoleCustomer, ParseRole(""))
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory("Sofas"))
	assert.True(t, ValidCategory("Home Decor"))
	assert.False(t, ValidCategory("sofas"))
	assert.False(t, ValidCategory("Garden"))
}
