// Package extract turns fetched place data into restaurant, taco, review and
// photo records. Nothing here performs I/O.
package extract

import (
	"github.com/sells-group/taco-index/internal/model"
	"github.com/sells-group/taco-index/pkg/google"
)

// Entities are the records derived from one candidate.
type Entities struct {
	Restaurant model.Restaurant
	Tacos      []model.Taco
	Photos     []model.Photo // each references one of Tacos
	Reviews    []model.Review
}

// Extractor builds entities. It holds the API key because photo URLs embed it.
type Extractor struct {
	apiKey string
}

// New creates an Extractor.
func New(apiKey string) *Extractor {
	return &Extractor{apiKey: apiKey}
}

// Extract derives every entity for a candidate. details may be nil, in which
// case only the restaurant is produced, from the candidate's search fields.
func (e *Extractor) Extract(c model.Candidate, details *google.PlaceDetails) Entities {
	out := Entities{Restaurant: BuildRestaurant(c, details)}
	if details == nil {
		return out
	}

	out.Tacos = BuildTacos(out.Restaurant.ID, details.Reviews)
	for _, t := range out.Tacos {
		out.Photos = append(out.Photos, BuildPhotos(t.ID, details.Photos, e.apiKey)...)
	}
	out.Reviews = BuildReviews(out.Restaurant.ID, details.Reviews)
	return out
}
