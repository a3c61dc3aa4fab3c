package model

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Namespace seeds every derived identifier. Changing it re-keys all stored rows.
var Namespace = uuid.MustParse("6f1c7a52-3b0e-5d2a-9c4e-7a1d2b8e4f10")

// RestaurantID derives a stable restaurant id from a Google place id.
func RestaurantID(placeID string) string {
	return derive("restaurant", placeID)
}

// TacoID derives the id of the single taco a restaurant can carry.
func TacoID(restaurantID string) string {
	return derive("taco", restaurantID)
}

// ReviewID derives a review id from its restaurant, authoring fields and
// text. Anonymous reviews differ by text alone.
func ReviewID(restaurantID, authorURL string, unix int64, authorName, text string) string {
	return derive("review", restaurantID, authorURL, strconv.FormatInt(unix, 10), authorName, text)
}

// PhotoID derives a photo id from its taco and photo reference.
func PhotoID(tacoID, reference string) string {
	return derive("photo", tacoID, reference)
}

// derive joins parts with NUL so field boundaries cannot shift.
func derive(parts ...string) string {
	return uuid.NewSHA1(Namespace, []byte(strings.Join(parts, "\x00"))).String()
}
