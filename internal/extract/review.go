package extract

import (
	"fmt"

	"github.com/sells-group/taco-index/internal/model"
	"github.com/sells-group/taco-index/pkg/google"
)

// BuildReviews maps raw reviews one to one.
func BuildReviews(restaurantID string, reviews []google.Review) []model.Review {
	if len(reviews) == 0 {
		return nil
	}
	out := make([]model.Review, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, model.Review{
			ID:                      model.ReviewID(restaurantID, rv.AuthorURL, rv.Time, rv.AuthorName, rv.Text),
			RestaurantID:            restaurantID,
			AuthorName:              rv.AuthorName,
			AuthorURL:               rv.AuthorURL,
			Rating:                  rv.Rating,
			Text:                    rv.Text,
			Time:                    rv.Time,
			RelativeTimeDescription: rv.RelativeTimeDescription,
			Language:                rv.Language,
			ReviewDate:              model.ReviewDate(rv.Time),
		})
	}
	return out
}

const (
	// PhotoMaxWidth is the width requested from the photo service.
	PhotoMaxWidth = 400

	photoURLTemplate = "https://maps.googleapis.com/maps/api/place/photo?maxwidth=%d&photoreference=%s&key=%s"
)

// PhotoURL builds the photo service URL for a reference token.
func PhotoURL(reference, apiKey string) string {
	return fmt.Sprintf(photoURLTemplate, PhotoMaxWidth, reference, apiKey)
}

// BuildPhotos attaches every referenced photo to tacoID. Entries without a
// reference token are skipped.
func BuildPhotos(tacoID string, photos []google.Photo, apiKey string) []model.Photo {
	var out []model.Photo
	for _, p := range photos {
		if p.PhotoReference == "" {
			continue
		}
		out = append(out, model.Photo{
			ID:     model.PhotoID(tacoID, p.PhotoReference),
			TacoID: tacoID,
			URL:    PhotoURL(p.PhotoReference, apiKey),
		})
	}
	return out
}
