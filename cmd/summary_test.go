package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/taco-index/internal/model"
)

func TestRehydrate(t *testing.T) {
	ds := &model.Dataset{
		Restaurants: []model.Restaurant{
			{Name: "Taqueria Los Pinos", Tags: model.JSONList{"restaurant", "food"}},
			{Name: "Corner Store", Tags: model.JSONList{"store"}},
		},
		Tacos: []model.Taco{
			{Description: "Traditional bean and cheese taco. Mentioned in 3 reviews."},
			{Description: "hand edited"},
		},
	}

	rehydrate(ds)

	assert.Greater(t, ds.Restaurants[0].LikelihoodScore, ds.Restaurants[1].LikelihoodScore)
	assert.Equal(t, 3, ds.Tacos[0].MentionCount)
	assert.Zero(t, ds.Tacos[1].MentionCount)
}
